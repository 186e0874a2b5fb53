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

// ChallengeController struct
type ChallengeController struct {
	ChallengeService  *services.ChallengeService
	MembershipService *services.MembershipService
}

// NewChallengeController initializes the challenge controller
func NewChallengeController(service *services.ChallengeService, membership *services.MembershipService) *ChallengeController {
	return &ChallengeController{ChallengeService: service, MembershipService: membership}
}

// HandleCreateChallenge - Post a new challenge
func (c *ChallengeController) HandleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	var request struct {
		GameName string  `json:"gameName"`
		Prize    float64 `json:"prize"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	challenge, err := c.ChallengeService.CreateChallenge(r.Context(), middlewares.UserID(r), request.GameName, request.Prize)
	if err != nil {
		log.Printf("❌ Failed to create challenge: %v", err)
		http.Error(w, `{"error": "Failed to post challenge"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(challenge)
}

// HandleGetChallenges - Dashboard feed, newest first
func (c *ChallengeController) HandleGetChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := c.ChallengeService.GetChallenges(r.Context())
	if err != nil {
		log.Printf("❌ Error fetching challenges: %v", err)
		http.Error(w, `{"error": "Failed to fetch challenges"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(challenges)
}

// HandleGetMembership - The caller's derived membership view (created ∪ accepted)
func (c *ChallengeController) HandleGetMembership(w http.ResponseWriter, r *http.Request) {
	view, err := c.MembershipService.GetMembership(r.Context(), middlewares.UserID(r))
	if err != nil {
		log.Printf("❌ Error computing membership view: %v", err)
		http.Error(w, `{"error": "Failed to fetch challenges"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// HandleUpdateChallenge - Edit gameName/prize (owner only)
func (c *ChallengeController) HandleUpdateChallenge(w http.ResponseWriter, r *http.Request) {
	challengeID := mux.Vars(r)["id"]

	var request struct {
		GameName string  `json:"gameName"`
		Prize    float64 `json:"prize"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	challenge, err := c.ChallengeService.UpdateChallenge(r.Context(), challengeID, middlewares.UserID(r), request.GameName, request.Prize)
	if err != nil {
		log.Printf("❌ Failed to update challenge %s: %v", challengeID, err)
		writeChallengeError(w, err, "Failed to edit challenge")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(challenge)
}

// HandleDeleteChallenge - Delete a challenge and its group (owner only)
func (c *ChallengeController) HandleDeleteChallenge(w http.ResponseWriter, r *http.Request) {
	challengeID := mux.Vars(r)["id"]

	if err := c.ChallengeService.DeleteChallenge(r.Context(), challengeID, middlewares.UserID(r)); err != nil {
		log.Printf("❌ Failed to delete challenge %s: %v", challengeID, err)
		writeChallengeError(w, err, "Failed to delete challenge")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "Challenge deleted"})
}

// HandleAcceptChallenge - Join a challenge
func (c *ChallengeController) HandleAcceptChallenge(w http.ResponseWriter, r *http.Request) {
	challengeID := mux.Vars(r)["id"]

	if err := c.ChallengeService.AcceptChallenge(r.Context(), challengeID, middlewares.UserID(r)); err != nil {
		log.Printf("❌ Failed to accept challenge %s: %v", challengeID, err)
		if errors.Is(err, services.ErrOwnerCannotAccept) {
			http.Error(w, `{"error": "You cannot accept your own challenge"}`, http.StatusBadRequest)
			return
		}
		writeChallengeError(w, err, "Failed to accept challenge")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "Challenge accepted"})
}

// HandleCancelAcceptance - Withdraw from a challenge
func (c *ChallengeController) HandleCancelAcceptance(w http.ResponseWriter, r *http.Request) {
	challengeID := mux.Vars(r)["id"]

	if err := c.ChallengeService.CancelAcceptance(r.Context(), challengeID, middlewares.UserID(r)); err != nil {
		log.Printf("❌ Failed to cancel acceptance on %s: %v", challengeID, err)
		writeChallengeError(w, err, "Failed to withdraw from challenge")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "Acceptance cancelled"})
}

// HandleToggleLike - Like/unlike a challenge
func (c *ChallengeController) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	challengeID := mux.Vars(r)["id"]

	if err := c.ChallengeService.ToggleLike(r.Context(), challengeID, middlewares.UserID(r)); err != nil {
		log.Printf("❌ Failed to toggle like on %s: %v", challengeID, err)
		writeChallengeError(w, err, "Failed to update like")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "Like updated"})
}

func writeChallengeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		http.Error(w, `{"error": "Not allowed"}`, http.StatusForbidden)
	case errors.Is(err, services.ErrItemNotFound):
		http.Error(w, `{"error": "Challenge not found"}`, http.StatusNotFound)
	default:
		http.Error(w, `{"error": "`+fallback+`"}`, http.StatusInternalServerError)
	}
}
