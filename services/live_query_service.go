package services

import (
	"context"
	"log"
	"sort"
	"sync"

	"challengeme_server/models"
	"challengeme_server/utils"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ChallengeSnapshot is one live-query delivery: the full current result set,
// not a diff. Err is set when the underlying fetch failed; Challenges is nil
// in that case.
type ChallengeSnapshot struct {
	Challenges []models.Challenge
	Err        error
}

// PostSnapshot is the post-feed equivalent of ChallengeSnapshot.
type PostSnapshot struct {
	Posts []models.Post
	Err   error
}

// ChallengeSubscription delivers challenge snapshots on C until cancelled.
// Deliveries are in order per subscription. Failing to cancel leaks the
// subscription.
type ChallengeSubscription struct {
	C      <-chan ChallengeSnapshot
	mu     sync.Mutex
	closed bool
	cancel func()
}

// Cancel tears the subscription down. Safe to call more than once. Once
// Cancel returns, Each never invokes its callback again.
func (s *ChallengeSubscription) Cancel() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Each invokes fn for every snapshot until the subscription is cancelled or
// the stream ends. A snapshot racing Cancel through the channel is dropped,
// so fn never runs after Cancel has returned.
func (s *ChallengeSubscription) Each(fn func(ChallengeSnapshot)) {
	for snap := range s.C {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		fn(snap)
		s.mu.Unlock()
	}
}

// PostSubscription delivers post-feed snapshots on C until cancelled.
type PostSubscription struct {
	C      <-chan PostSnapshot
	mu     sync.Mutex
	closed bool
	cancel func()
}

// Cancel tears the subscription down. Safe to call more than once. Once
// Cancel returns, Each never invokes its callback again.
func (s *PostSubscription) Cancel() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Each invokes fn for every snapshot until the subscription is cancelled or
// the stream ends. fn never runs after Cancel has returned.
func (s *PostSubscription) Each(fn func(PostSnapshot)) {
	for snap := range s.C {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		fn(snap)
		s.mu.Unlock()
	}
}

// LiveQueryService re-delivers full query result sets whenever a collection
// changes. Every mutation path calls Publish for the collection it touched;
// each subscription then re-fetches and delivers. Bursts of publishes may
// coalesce into a single delivery (at-least-once full snapshots).
type LiveQueryService struct {
	Dynamo *DynamoService

	mu     sync.Mutex
	nextID int64
	subs   map[string]map[int64]chan struct{}
}

func NewLiveQueryService(dynamo *DynamoService) *LiveQueryService {
	return &LiveQueryService{
		Dynamo: dynamo,
		subs:   make(map[string]map[int64]chan struct{}),
	}
}

// Publish wakes every subscription on the collection. Non-blocking: a
// subscription already flagged for refresh is not flagged twice.
func (lq *LiveQueryService) Publish(collection string) {
	lq.mu.Lock()
	defer lq.mu.Unlock()
	for _, notify := range lq.subs[collection] {
		select {
		case notify <- struct{}{}:
		default:
		}
	}
}

func (lq *LiveQueryService) register(collection string) (int64, chan struct{}) {
	lq.mu.Lock()
	defer lq.mu.Unlock()
	lq.nextID++
	id := lq.nextID
	notify := make(chan struct{}, 1)
	if lq.subs[collection] == nil {
		lq.subs[collection] = make(map[int64]chan struct{})
	}
	lq.subs[collection][id] = notify
	return id, notify
}

func (lq *LiveQueryService) unregister(collection string, id int64) {
	lq.mu.Lock()
	defer lq.mu.Unlock()
	delete(lq.subs[collection], id)
}

// SubscribeOwnedChallenges streams the set of challenges created by userID.
func (lq *LiveQueryService) SubscribeOwnedChallenges(ctx context.Context, userID string) *ChallengeSubscription {
	fetch := func(ctx context.Context) ([]models.Challenge, error) {
		var challenges []models.Challenge
		err := lq.Dynamo.ScanWithFilter(ctx, models.ChallengesTable, map[string]string{"userId": userID}, nil, &challenges)
		return challenges, err
	}
	return lq.subscribeChallenges(ctx, fetch)
}

// SubscribeAllChallenges streams the full challenge collection. The store
// cannot filter on members of the acceptedBy list, so acceptance views
// subscribe to everything and filter client side.
func (lq *LiveQueryService) SubscribeAllChallenges(ctx context.Context) *ChallengeSubscription {
	fetch := func(ctx context.Context) ([]models.Challenge, error) {
		var challenges []models.Challenge
		err := lq.Dynamo.ScanTable(ctx, models.ChallengesTable, &challenges)
		return challenges, err
	}
	return lq.subscribeChallenges(ctx, fetch)
}

func (lq *LiveQueryService) subscribeChallenges(ctx context.Context, fetch func(context.Context) ([]models.Challenge, error)) *ChallengeSubscription {
	id, notify := lq.register(models.ChallengesTable)
	out := make(chan ChallengeSnapshot)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			lq.unregister(models.ChallengesTable, id)
			close(done)
		})
	}

	go func() {
		defer close(out)
		for {
			challenges, err := fetch(ctx)
			snap := ChallengeSnapshot{Challenges: challenges, Err: err}
			if err != nil {
				snap.Challenges = nil
				log.Printf("❌ Live query fetch failed for %s: %v", models.ChallengesTable, err)
			}
			select {
			case <-done:
				return
			case out <- snap:
			}
			select {
			case <-done:
				return
			case <-ctx.Done():
				cancel()
				return
			case <-notify:
			}
		}
	}()

	return &ChallengeSubscription{C: out, cancel: cancel}
}

// SubscribePosts streams the post feed, newest first.
func (lq *LiveQueryService) SubscribePosts(ctx context.Context) *PostSubscription {
	fetch := func(ctx context.Context) ([]models.Post, error) {
		var posts []models.Post
		if err := lq.Dynamo.ScanTable(ctx, models.PostsTable, &posts); err != nil {
			return nil, err
		}
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].CreatedAt > posts[j].CreatedAt
		})
		return posts, nil
	}
	return lq.subscribePosts(ctx, fetch)
}

func (lq *LiveQueryService) subscribePosts(ctx context.Context, fetch func(context.Context) ([]models.Post, error)) *PostSubscription {
	id, notify := lq.register(models.PostsTable)
	out := make(chan PostSnapshot)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			lq.unregister(models.PostsTable, id)
			close(done)
		})
	}

	go func() {
		defer close(out)
		for {
			posts, err := fetch(ctx)
			snap := PostSnapshot{Posts: posts, Err: err}
			if err != nil {
				snap.Posts = nil
				log.Printf("❌ Live query fetch failed for %s: %v", models.PostsTable, err)
			}
			select {
			case <-done:
				return
			case out <- snap:
			}
			select {
			case <-done:
				return
			case <-ctx.Done():
				cancel()
				return
			case <-notify:
			}
		}
	}()

	return &PostSubscription{C: out, cancel: cancel}
}

// acceptedByContains is the attribute-level filter used when scanning raw
// items, mirroring utils.ListContainsUserID for pre-unmarshal filtering.
func acceptedByContains(userID string) func(map[string]types.AttributeValue) bool {
	return func(item map[string]types.AttributeValue) bool {
		return utils.ListContainsUserID(item, "acceptedBy", userID)
	}
}
