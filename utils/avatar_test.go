package utils

import (
	"strings"
	"testing"
)

func TestAvatarURL(t *testing.T) {
	t.Run("seeds from username", func(t *testing.T) {
		got := AvatarURL("gamer42", "u1")
		if !strings.Contains(got, "seed=gamer42") {
			t.Errorf("AvatarURL() = %q, want seed=gamer42", got)
		}
	})

	t.Run("falls back to user id", func(t *testing.T) {
		got := AvatarURL("", "u1")
		if !strings.Contains(got, "seed=u1") {
			t.Errorf("AvatarURL() = %q, want seed=u1", got)
		}
	})

	t.Run("escapes the seed", func(t *testing.T) {
		got := AvatarURL("a b&c", "u1")
		if !strings.Contains(got, "seed=a+b%26c") {
			t.Errorf("AvatarURL() = %q, want escaped seed", got)
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		if AvatarURL("gamer42", "u1") != AvatarURL("gamer42", "u2") {
			t.Error("AvatarURL() varies for the same username")
		}
	})
}
