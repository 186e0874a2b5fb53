package services

import (
	"fmt"
	"reflect"
	"testing"

	"challengeme_server/models"
)

func messagesFixture(n int) []models.ChatMessage {
	msgs := make([]models.ChatMessage, 0, n)
	for i := 0; i < n; i++ {
		msgs = append(msgs, models.ChatMessage{
			MessageID: fmt.Sprintf("m%d", i+1),
			CreatedAt: fmt.Sprintf("2026-01-01T00:00:%02dZ", i+1),
		})
	}
	return msgs
}

func TestLatestWindow(t *testing.T) {
	msgs := messagesFixture(5)

	t.Run("keeps the newest entries in order", func(t *testing.T) {
		got := latestWindow(msgs, 2)
		want := msgs[3:]
		if !reflect.DeepEqual(got, want) {
			t.Errorf("latestWindow(5 msgs, 2) got = %v, want %v", got, want)
		}
	})

	t.Run("returns all when under the limit", func(t *testing.T) {
		got := latestWindow(msgs, 10)
		if !reflect.DeepEqual(got, msgs) {
			t.Errorf("latestWindow(5 msgs, 10) got = %v, want all", got)
		}
	})

	t.Run("limit equal to length returns all", func(t *testing.T) {
		got := latestWindow(msgs, 5)
		if !reflect.DeepEqual(got, msgs) {
			t.Errorf("latestWindow(5 msgs, 5) got = %v, want all", got)
		}
	})

	t.Run("non-positive limit returns all", func(t *testing.T) {
		got := latestWindow(msgs, 0)
		if !reflect.DeepEqual(got, msgs) {
			t.Errorf("latestWindow(5 msgs, 0) got = %v, want all", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := latestWindow(nil, 3); len(got) != 0 {
			t.Errorf("latestWindow(nil, 3) got = %v, want empty", got)
		}
	})
}
