package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"challengeme_server/middlewares"
	"challengeme_server/services"

	"github.com/gorilla/mux"
)

// PostController struct
type PostController struct {
	PostService *services.PostService
}

// NewPostController initializes the post controller
func NewPostController(service *services.PostService) *PostController {
	return &PostController{PostService: service}
}

// HandleCreatePost - Publish a feed post
func (c *PostController) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Content string `json:"content"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	post, err := c.PostService.CreatePost(r.Context(), middlewares.UserID(r), request.Content)
	if err != nil {
		log.Printf("❌ Failed to create post: %v", err)
		http.Error(w, `{"error": "Failed to create post"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

// HandleGetPosts - Feed, newest first
func (c *PostController) HandleGetPosts(w http.ResponseWriter, r *http.Request) {
	// Optional filter for a single user's posts (profile screen)
	if userID := r.URL.Query().Get("userId"); userID != "" {
		posts, err := c.PostService.GetPostsByUser(r.Context(), userID)
		if err != nil {
			log.Printf("❌ Error fetching posts for %s: %v", userID, err)
			http.Error(w, `{"error": "Failed to fetch posts"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(posts)
		return
	}

	posts, err := c.PostService.GetPosts(r.Context())
	if err != nil {
		log.Printf("❌ Error fetching posts: %v", err)
		http.Error(w, `{"error": "Failed to fetch posts"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(posts)
}

// HandleToggleLike - Like/unlike a post
func (c *PostController) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	if err := c.PostService.ToggleLike(r.Context(), postID, middlewares.UserID(r)); err != nil {
		log.Printf("❌ Failed to toggle like on post %s: %v", postID, err)
		if errors.Is(err, services.ErrItemNotFound) {
			http.Error(w, `{"error": "Post not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error": "Failed to update like"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "Like updated"})
}

// HandleDeletePost - Delete a post (owner only)
func (c *PostController) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	if err := c.PostService.DeletePost(r.Context(), postID, middlewares.UserID(r)); err != nil {
		log.Printf("❌ Failed to delete post %s: %v", postID, err)
		switch {
		case errors.Is(err, services.ErrForbidden):
			http.Error(w, `{"error": "Not allowed"}`, http.StatusForbidden)
		case errors.Is(err, services.ErrItemNotFound):
			http.Error(w, `{"error": "Post not found"}`, http.StatusNotFound)
		default:
			http.Error(w, `{"error": "Failed to delete post"}`, http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "Post deleted"})
}
