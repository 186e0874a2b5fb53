package services

import (
	"errors"
	"sync"
	"testing"

	"challengeme_server/models"
)

func challengeFixture(id, owner string, accepted ...models.AcceptedEntry) models.Challenge {
	return models.Challenge{
		ChallengeID: id,
		GameName:    "Valorant",
		Prize:       50,
		UserID:      owner,
		AcceptedBy:  accepted,
	}
}

func TestFilterAcceptedBy(t *testing.T) {
	entryB := models.AcceptedEntry{UserID: "userB", Name: "B"}
	challenges := []models.Challenge{
		challengeFixture("c1", "userA", entryB),
		challengeFixture("c2", "userA"),
		challengeFixture("c3", "userC", entryB),
	}

	got := FilterAcceptedBy(challenges, "userB")
	if len(got) != 2 {
		t.Fatalf("FilterAcceptedBy() count = %d, want 2", len(got))
	}
	if got[0].ChallengeID != "c1" || got[1].ChallengeID != "c3" {
		t.Errorf("FilterAcceptedBy() got = [%s %s], want [c1 c3]", got[0].ChallengeID, got[1].ChallengeID)
	}

	if got := FilterAcceptedBy(challenges, "userA"); len(got) != 0 {
		t.Errorf("FilterAcceptedBy(owner) count = %d, want 0", len(got))
	}
}

func TestMergeMembership(t *testing.T) {
	t.Run("unions disjoint partitions", func(t *testing.T) {
		created := []models.Challenge{challengeFixture("c1", "me")}
		accepted := []models.Challenge{challengeFixture("c2", "other")}

		got := MergeMembership(created, accepted)
		if len(got) != 2 {
			t.Fatalf("MergeMembership() count = %d, want 2", len(got))
		}
		if got[0].ChallengeID != "c1" || got[1].ChallengeID != "c2" {
			t.Errorf("MergeMembership() order got = [%s %s], want [c1 c2]", got[0].ChallengeID, got[1].ChallengeID)
		}
	})

	t.Run("deduplicates overlapping ids", func(t *testing.T) {
		// Disallowed upstream, defensively deduplicated anyway.
		c := challengeFixture("c1", "me", models.AcceptedEntry{UserID: "me", Name: "Me"})
		got := MergeMembership([]models.Challenge{c}, []models.Challenge{c})
		if len(got) != 1 {
			t.Errorf("MergeMembership() with overlap count = %d, want 1", len(got))
		}
	})

	t.Run("empty partitions", func(t *testing.T) {
		got := MergeMembership(nil, nil)
		if len(got) != 0 {
			t.Errorf("MergeMembership(nil, nil) count = %d, want 0", len(got))
		}
	})
}

func startReconciler(t *testing.T, viewer string) (chan ChallengeSnapshot, chan ChallengeSnapshot, chan []models.Challenge, chan struct{}) {
	t.Helper()
	createdCh := make(chan ChallengeSnapshot)
	allCh := make(chan ChallengeSnapshot)
	out := make(chan []models.Challenge)
	done := make(chan struct{})
	go runMembershipReconciler(viewer, createdCh, allCh, out, done)
	return createdCh, allCh, out, done
}

func TestReconcilerMergesBothStreams(t *testing.T) {
	createdCh, allCh, out, done := startReconciler(t, "userB")
	defer close(done)

	entryB := models.AcceptedEntry{UserID: "userB", Name: "B"}

	// Stream B first: a challenge B accepted.
	allCh <- ChallengeSnapshot{Challenges: []models.Challenge{
		challengeFixture("c1", "userA", entryB),
		challengeFixture("c2", "userA"),
	}}
	view := <-out
	if len(view) != 1 || view[0].ChallengeID != "c1" {
		t.Fatalf("view after accepted delivery = %v, want [c1]", view)
	}
	if len(view[0].AcceptedBy) != 1 || view[0].AcceptedBy[0] != entryB {
		t.Errorf("acceptedBy got = %v, want [%v]", view[0].AcceptedBy, entryB)
	}

	// Stream A: a challenge B created.
	createdCh <- ChallengeSnapshot{Challenges: []models.Challenge{
		challengeFixture("c3", "userB"),
	}}
	view = <-out
	if len(view) != 2 {
		t.Fatalf("view after created delivery count = %d, want 2", len(view))
	}

	// Stream A replacement: B deleted their challenge.
	createdCh <- ChallengeSnapshot{Challenges: nil}
	view = <-out
	if len(view) != 1 || view[0].ChallengeID != "c1" {
		t.Errorf("view after created replacement = %v, want [c1]", view)
	}
}

func TestReconcilerDeduplicatesAcrossStreams(t *testing.T) {
	createdCh, allCh, out, done := startReconciler(t, "userB")
	defer close(done)

	// The same challenge delivered by both streams must appear once.
	c := challengeFixture("c1", "userB", models.AcceptedEntry{UserID: "userB", Name: "B"})

	createdCh <- ChallengeSnapshot{Challenges: []models.Challenge{c}}
	view := <-out
	if len(view) != 1 {
		t.Fatalf("view count = %d, want 1", len(view))
	}

	allCh <- ChallengeSnapshot{Challenges: []models.Challenge{c}}
	view = <-out
	if len(view) != 1 {
		t.Errorf("view after overlapping delivery count = %d, want 1", len(view))
	}
}

func TestReconcilerKeepsPartitionOnStreamError(t *testing.T) {
	createdCh, allCh, out, done := startReconciler(t, "userB")
	defer close(done)

	entryB := models.AcceptedEntry{UserID: "userB", Name: "B"}
	allCh <- ChallengeSnapshot{Challenges: []models.Challenge{challengeFixture("c1", "userA", entryB)}}
	view := <-out
	if len(view) != 1 {
		t.Fatalf("initial view count = %d, want 1", len(view))
	}

	// A failed delivery on stream B must not clear the accepted partition.
	allCh <- ChallengeSnapshot{Err: errors.New("subscription delivery failed")}

	// The next good delivery on stream A still sees the accepted partition.
	createdCh <- ChallengeSnapshot{Challenges: []models.Challenge{challengeFixture("c2", "userB")}}
	view = <-out
	if len(view) != 2 {
		t.Fatalf("view after one-sided failure count = %d, want 2 (last good partition kept)", len(view))
	}
	ids := map[string]bool{}
	for _, c := range view {
		ids[c.ChallengeID] = true
	}
	if !ids["c1"] || !ids["c2"] {
		t.Errorf("view after one-sided failure = %v, want c1 and c2", ids)
	}
}

func TestReconcilerStopsOnDone(t *testing.T) {
	createdCh, allCh, out, done := startReconciler(t, "userB")
	_ = createdCh
	_ = allCh

	close(done)

	// After teardown the output channel closes and nothing else is delivered.
	if view, ok := <-out; ok {
		t.Errorf("received view %v after teardown, want closed channel", view)
	}
}

func TestEachForwardsViews(t *testing.T) {
	out := make(chan []models.Challenge, 1)
	sub := &MembershipSubscription{C: out, cancel: func() {}}

	out <- []models.Challenge{challengeFixture("c1", "userA")}
	close(out)

	var got [][]models.Challenge
	sub.Each(func(view []models.Challenge) { got = append(got, view) })
	if len(got) != 1 || got[0][0].ChallengeID != "c1" {
		t.Errorf("Each() forwarded %v, want one view with c1", got)
	}
}

func TestNoDeliveryAfterCancelReturns(t *testing.T) {
	// A view already handed to the channel while Cancel races the consumer's
	// receive must be dropped, not emitted. Park the reconciler on its send,
	// cancel, then consume: the callback must never fire.
	for i := 0; i < 200; i++ {
		createdCh := make(chan ChallengeSnapshot)
		allCh := make(chan ChallengeSnapshot)
		out := make(chan []models.Challenge)
		done := make(chan struct{})
		var once sync.Once
		sub := &MembershipSubscription{C: out, cancel: func() {
			once.Do(func() { close(done) })
		}}
		go runMembershipReconciler("userB", createdCh, allCh, out, done)

		createdCh <- ChallengeSnapshot{Challenges: []models.Challenge{challengeFixture("c1", "userB")}}

		sub.Cancel()

		delivered := 0
		sub.Each(func([]models.Challenge) { delivered++ })
		if delivered != 0 {
			t.Fatalf("iteration %d: %d deliveries after Cancel returned, want 0", i, delivered)
		}
	}
}

func TestReconcilerAcceptCancelScenario(t *testing.T) {
	// Viewer A creates {Valorant, 50}; viewer B accepts, then withdraws.
	entryB := models.AcceptedEntry{UserID: "userB", Name: "B's name"}
	created := challengeFixture("c1", "userA")
	accepted := challengeFixture("c1", "userA", entryB)

	// B's membership view tracks the acceptance.
	createdCh, allCh, out, done := startReconciler(t, "userB")
	defer close(done)

	// B has created nothing.
	createdCh <- ChallengeSnapshot{}
	view := <-out
	if len(view) != 0 {
		t.Fatalf("B's view before accept = %v, want empty", view)
	}

	allCh <- ChallengeSnapshot{Challenges: []models.Challenge{accepted}}
	view = <-out
	if len(view) != 1 || view[0].ChallengeID != "c1" {
		t.Fatalf("B's view after accept = %v, want [c1]", view)
	}
	if len(view[0].AcceptedBy) != 1 || view[0].AcceptedBy[0] != entryB {
		t.Errorf("B's acceptedBy got = %v, want [%v]", view[0].AcceptedBy, entryB)
	}

	// A's perspective: created list contains it, accepted list does not.
	if got := FilterAcceptedBy([]models.Challenge{accepted}, "userA"); len(got) != 0 {
		t.Errorf("A's accepted partition count = %d, want 0", len(got))
	}
	if got := MergeMembership([]models.Challenge{accepted}, nil); len(got) != 1 {
		t.Errorf("A's membership view count = %d, want 1", len(got))
	}

	// B withdraws: the next full snapshot no longer lists B.
	allCh <- ChallengeSnapshot{Challenges: []models.Challenge{created}}
	view = <-out
	if len(view) != 0 {
		t.Errorf("B's view after withdrawal = %v, want empty", view)
	}
}
