package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"challengeme_server/middlewares"
	"challengeme_server/services"
)

// AuthController struct
type AuthController struct {
	AuthService *services.AuthService
}

// NewAuthController initializes the auth controller
func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{AuthService: service}
}

// HandleSignup - Register a new account
func (c *AuthController) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Username string `json:"username"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	session, err := c.AuthService.Signup(r.Context(), request.Email, request.Password, request.Username)
	if err != nil {
		log.Printf("❌ Signup failed: %v", err)
		if errors.Is(err, services.ErrEmailTaken) {
			http.Error(w, `{"error": "Email already registered"}`, http.StatusConflict)
			return
		}
		http.Error(w, `{"error": "Failed to create account"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(session)
}

// HandleLogin - Exchange credentials for a session token
func (c *AuthController) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	session, err := c.AuthService.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		log.Printf("❌ Login failed for %s: %v", request.Email, err)
		if errors.Is(err, services.ErrInvalidCredentials) {
			http.Error(w, `{"error": "Invalid email or password"}`, http.StatusUnauthorized)
			return
		}
		http.Error(w, `{"error": "Failed to log in"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

// HandleChangePassword - Replace the caller's password
func (c *AuthController) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var request struct {
		NewPassword string `json:"newPassword"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	userID := middlewares.UserID(r)
	if err := c.AuthService.ChangePassword(r.Context(), userID, request.NewPassword); err != nil {
		log.Printf("❌ Password change failed for %s: %v", userID, err)
		http.Error(w, `{"error": "Failed to update password"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "Password updated"})
}
