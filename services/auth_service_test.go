package services

import (
	"testing"

	"challengeme_server/models"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := &AuthService{JWTSecret: "test-secret"}
	profile := &models.UserProfile{
		UserID:   "u1",
		Username: "gamer42",
		Name:     "Gamer",
	}

	session, err := svc.issueSession(profile)
	if err != nil {
		t.Fatalf("issueSession() error = %v", err)
	}
	if session.AccessToken == "" {
		t.Fatal("issueSession() returned empty token")
	}
	if session.UserID != "u1" || session.Username != "gamer42" || session.Name != "Gamer" {
		t.Errorf("session identity got = %+v", session)
	}

	userID, username, err := svc.ValidateToken(session.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if userID != "u1" {
		t.Errorf("ValidateToken() userID = %q, want %q", userID, "u1")
	}
	if username != "gamer42" {
		t.Errorf("ValidateToken() username = %q, want %q", username, "gamer42")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := &AuthService{JWTSecret: "secret-a"}
	verifier := &AuthService{JWTSecret: "secret-b"}

	session, err := issuer.issueSession(&models.UserProfile{UserID: "u1", Username: "gamer42"})
	if err != nil {
		t.Fatalf("issueSession() error = %v", err)
	}

	if _, _, err := verifier.ValidateToken(session.AccessToken); err == nil {
		t.Error("ValidateToken() accepted token signed with a different secret")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := &AuthService{JWTSecret: "test-secret"}

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, _, err := svc.ValidateToken(token); err == nil {
			t.Errorf("ValidateToken(%q) accepted a malformed token", token)
		}
	}
}
