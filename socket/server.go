package socket

import (
	"context"
	"log"

	"challengeme_server/models"
	"challengeme_server/services"

	socketio "github.com/googollee/go-socket.io"
)

// connState tracks the live watches held by one connection.
type connState struct {
	membership *services.MembershipSubscription
	posts      *services.PostSubscription
}

// Server wraps the Socket.IO server with the realtime surface: challenge chat
// rooms, per-connection membership watches and the live post feed.
type Server struct {
	IO         *socketio.Server
	Auth       *services.AuthService
	Membership *services.MembershipService
	Live       *services.LiveQueryService
}

// NewServer initializes the Socket.IO server and its event handlers.
func NewServer(auth *services.AuthService, membership *services.MembershipService, live *services.LiveQueryService) *Server {
	srv := &Server{
		IO:         socketio.NewServer(nil),
		Auth:       auth,
		Membership: membership,
		Live:       live,
	}

	srv.IO.OnConnect("/", func(s socketio.Conn) error {
		log.Println("✅ Socket connected:", s.ID())
		s.SetContext(&connState{})
		return nil
	})

	// Join a challenge's chat room
	srv.IO.OnEvent("/", "join", func(s socketio.Conn, challengeID string) {
		if challengeID == "" {
			log.Println("❌ Invalid challengeId in join request")
			return
		}
		log.Printf("👥 Socket %s joined challenge %s", s.ID(), challengeID)
		s.Join(challengeRoom(challengeID))
	})

	srv.IO.OnEvent("/", "leave", func(s socketio.Conn, challengeID string) {
		s.Leave(challengeRoom(challengeID))
	})

	// Start (or restart) a membership watch for the authenticated viewer.
	// A re-watch cancels the previous watch first; Cancel guarantees the old
	// watch emits nothing more, so no stale-viewer snapshot can reach the new
	// session.
	srv.IO.OnEvent("/", "watchMembership", func(s socketio.Conn, token string) {
		userID, _, err := auth.ValidateToken(token)
		if err != nil {
			log.Printf("❌ watchMembership rejected for socket %s: %v", s.ID(), err)
			s.Emit("watchError", "invalid token")
			return
		}

		st := srv.state(s)
		if st.membership != nil {
			st.membership.Cancel()
		}

		sub := membership.Watch(context.Background(), userID)
		st.membership = sub

		go sub.Each(func(view []models.Challenge) {
			s.Emit("membershipUpdate", view)
		})

		log.Printf("👀 Membership watch started for %s on socket %s", userID, s.ID())
	})

	srv.IO.OnEvent("/", "unwatchMembership", func(s socketio.Conn) {
		st := srv.state(s)
		if st.membership != nil {
			st.membership.Cancel()
			st.membership = nil
		}
	})

	// Stream the post feed to the connection. The feed is public, like the
	// HTTP listing.
	srv.IO.OnEvent("/", "watchPosts", func(s socketio.Conn) {
		st := srv.state(s)
		if st.posts != nil {
			st.posts.Cancel()
		}

		sub := live.SubscribePosts(context.Background())
		st.posts = sub

		go sub.Each(func(snap services.PostSnapshot) {
			if snap.Err != nil {
				return
			}
			s.Emit("postsUpdate", snap.Posts)
		})

		log.Printf("👀 Post feed watch started on socket %s", s.ID())
	})

	srv.IO.OnEvent("/", "unwatchPosts", func(s socketio.Conn) {
		st := srv.state(s)
		if st.posts != nil {
			st.posts.Cancel()
			st.posts = nil
		}
	})

	srv.IO.OnError("/", func(s socketio.Conn, err error) {
		log.Printf("❌ Socket error: %v", err)
	})

	srv.IO.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", s.ID(), reason)
		st := srv.state(s)
		if st.membership != nil {
			st.membership.Cancel()
			st.membership = nil
		}
		if st.posts != nil {
			st.posts.Cancel()
			st.posts = nil
		}
	})

	return srv
}

func (srv *Server) state(s socketio.Conn) *connState {
	if st, ok := s.Context().(*connState); ok && st != nil {
		return st
	}
	st := &connState{}
	s.SetContext(st)
	return st
}

// NotifyNewMessage broadcasts a stored chat message to the challenge's room.
// Wired as ChatService.Notify.
func (srv *Server) NotifyNewMessage(challengeID string, message models.ChatMessage) {
	srv.IO.BroadcastToRoom("/", challengeRoom(challengeID), "newMessage", message)
}

func challengeRoom(challengeID string) string {
	return "challenge:" + challengeID
}
