package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"challengeme_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a bad email/password combination.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailTaken is returned when signing up with an already registered email.
var ErrEmailTaken = errors.New("email already registered")

type AuthService struct {
	Profiles  *UserProfileService
	JWTSecret string
}

type sessionClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Session is the authenticated identity handed back to clients.
type Session struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	Name        string `json:"name"`
}

// Signup registers a new account: hashes the password, creates the profile
// (name initialized to username) and issues a session token.
func (s *AuthService) Signup(ctx context.Context, email, password, username string) (*Session, error) {
	if email == "" || password == "" || username == "" {
		return nil, fmt.Errorf("email, password and username are required")
	}

	existing, err := s.Profiles.GetUserProfileByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := models.UserProfile{
		UserID:       uuid.New().String(),
		EmailID:      email,
		Username:     username,
		Name:         username,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now().Format(time.RFC3339),
	}

	if _, err := s.Profiles.AddUserProfile(ctx, profile); err != nil {
		return nil, err
	}

	log.Printf("✅ Account created for %s (%s)", username, profile.UserID)
	return s.issueSession(&profile)
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	profile, err := s.Profiles.GetUserProfileByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(profile)
}

// ChangePassword replaces the stored password hash for userID.
func (s *AuthService) ChangePassword(ctx context.Context, userID, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("new password is required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	updateExpression := "SET passwordHash = :hash"
	expressionValues := map[string]types.AttributeValue{
		":hash": &types.AttributeValueMemberS{Value: string(hashed)},
	}

	_, err = s.Profiles.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, nil)
	return err
}

// ValidateToken parses and verifies a session token, returning the embedded
// identity.
func (s *AuthService) ValidateToken(tokenString string) (string, string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.JWTSecret), nil
	})
	if err != nil {
		return "", "", err
	}
	if !token.Valid {
		return "", "", errors.New("invalid token")
	}

	return claims.UserID, claims.Username, nil
}

func (s *AuthService) issueSession(profile *models.UserProfile) (*Session, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		UserID:   profile.UserID,
		Username: profile.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "challengeme",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	})

	ss, err := token.SignedString([]byte(s.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &Session{
		AccessToken: ss,
		UserID:      profile.UserID,
		Username:    profile.Username,
		Name:        profile.Name,
	}, nil
}
