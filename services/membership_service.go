package services

import (
	"context"
	"log"
	"sync"

	"challengeme_server/models"
)

// MembershipService derives, per viewer, the single deduplicated list of
// challenges relevant to them: the union of challenges they created and
// challenges they accepted. The navbar badge, the messages screen and the
// profile screen all consume this one view instead of merging listeners
// themselves.
type MembershipService struct {
	Live *LiveQueryService
}

// MembershipSubscription delivers the reconciled view on C until cancelled.
type MembershipSubscription struct {
	C      <-chan []models.Challenge
	mu     sync.Mutex
	closed bool
	cancel func()
}

// Cancel tears down both underlying live queries together. Safe to call more
// than once. Must be called on viewer change before establishing a watch for
// the new viewer; once Cancel returns, Each never invokes its callback again,
// so no stale-viewer snapshot leaks into the new view.
func (s *MembershipSubscription) Cancel() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Each invokes fn for every delivered view until the subscription is
// cancelled or the stream ends. A view handed off by the channel while Cancel
// is racing the receive is dropped, not delivered: fn never runs after Cancel
// has returned.
func (s *MembershipSubscription) Each(fn func([]models.Challenge)) {
	for view := range s.C {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		fn(view)
		s.mu.Unlock()
	}
}

// Watch reconciles two live queries for viewerID: the owned-challenges stream
// and the all-challenges stream filtered by acceptance. There is no ordering
// guarantee between the two streams; each delivery replaces only its own
// partition of the view.
func (ms *MembershipService) Watch(ctx context.Context, viewerID string) *MembershipSubscription {
	created := ms.Live.SubscribeOwnedChallenges(ctx, viewerID)
	all := ms.Live.SubscribeAllChallenges(ctx)

	out := make(chan []models.Challenge)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			created.Cancel()
			all.Cancel()
			close(done)
		})
	}

	go runMembershipReconciler(viewerID, created.C, all.C, out, done)

	return &MembershipSubscription{C: out, cancel: cancel}
}

// runMembershipReconciler merges the two snapshot streams into the exposed
// view. A delivery error keeps the failing stream's last good partition
// rather than blanking the whole view; a transient one-sided failure must not
// wipe the other partition.
func runMembershipReconciler(viewerID string, createdCh, allCh <-chan ChallengeSnapshot, out chan<- []models.Challenge, done <-chan struct{}) {
	defer close(out)

	var created, accepted []models.Challenge
	for createdCh != nil || allCh != nil {
		select {
		case <-done:
			return
		case snap, ok := <-createdCh:
			if !ok {
				createdCh = nil
				continue
			}
			if snap.Err != nil {
				log.Printf("❌ Error fetching created challenges: %v", snap.Err)
				continue
			}
			created = snap.Challenges
		case snap, ok := <-allCh:
			if !ok {
				allCh = nil
				continue
			}
			if snap.Err != nil {
				log.Printf("❌ Error fetching accepted challenges: %v", snap.Err)
				continue
			}
			accepted = FilterAcceptedBy(snap.Challenges, viewerID)
		}

		view := MergeMembership(created, accepted)
		select {
		case <-done:
			return
		case out <- view:
		}
	}
}

// FilterAcceptedBy returns the challenges whose acceptedBy list contains
// userID.
func FilterAcceptedBy(challenges []models.Challenge, userID string) []models.Challenge {
	var out []models.Challenge
	for _, c := range challenges {
		if c.HasAccepted(userID) {
			out = append(out, c)
		}
	}
	return out
}

// MergeMembership unions the created and accepted partitions, deduplicated by
// challenge id. A challenge both created and accepted by the same user is
// disallowed upstream but deduplicated here anyway. Order is stable: created
// partition first, then accepted, each in delivery order.
func MergeMembership(created, accepted []models.Challenge) []models.Challenge {
	seen := make(map[string]bool, len(created)+len(accepted))
	out := make([]models.Challenge, 0, len(created)+len(accepted))
	for _, c := range created {
		if seen[c.ChallengeID] {
			continue
		}
		seen[c.ChallengeID] = true
		out = append(out, c)
	}
	for _, c := range accepted {
		if seen[c.ChallengeID] {
			continue
		}
		seen[c.ChallengeID] = true
		out = append(out, c)
	}
	return out
}

// GetMembership computes the same view as Watch once, for plain HTTP
// consumers.
func (ms *MembershipService) GetMembership(ctx context.Context, viewerID string) ([]models.Challenge, error) {
	var created []models.Challenge
	if err := ms.Live.Dynamo.ScanWithFilter(ctx, models.ChallengesTable, map[string]string{"userId": viewerID}, nil, &created); err != nil {
		return nil, err
	}

	var accepted []models.Challenge
	if err := ms.Live.Dynamo.ScanWithFilter(ctx, models.ChallengesTable, nil, acceptedByContains(viewerID), &accepted); err != nil {
		return nil, err
	}

	return MergeMembership(created, accepted), nil
}
