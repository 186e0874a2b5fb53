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

// UserProfileController struct
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController initializes the profile controller
func NewUserProfileController(service *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: service}
}

// HandleGetProfile - Fetch a profile by user id (public)
func (c *UserProfileController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := c.UserProfileService.GetUserProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			http.Error(w, `{"error": "Profile not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error fetching profile %s: %v", userID, err)
		http.Error(w, `{"error": "Failed to fetch profile"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// HandleGetOwnProfile - Fetch the caller's profile
func (c *UserProfileController) HandleGetOwnProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := c.UserProfileService.GetUserProfile(r.Context(), middlewares.UserID(r))
	if err != nil {
		log.Printf("❌ Error fetching own profile: %v", err)
		http.Error(w, `{"error": "Failed to fetch profile"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// HandleUpdateProfile - Edit the caller's name/username; the avatar is
// re-derived from the new username
func (c *UserProfileController) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	profile, err := c.UserProfileService.UpdateUserProfile(r.Context(), middlewares.UserID(r), request.Name, request.Username)
	if err != nil {
		log.Printf("❌ Failed to update profile: %v", err)
		http.Error(w, `{"error": "Failed to update profile"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}
