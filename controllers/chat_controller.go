package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"challengeme_server/middlewares"
	"challengeme_server/services"
)

// ChatController struct
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController initializes the chat controller
func NewChatController(service *services.ChatService) *ChatController {
	return &ChatController{ChatService: service}
}

// HandleGetMessages - Fetch a challenge group's messages, oldest first
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	challengeID := r.URL.Query().Get("challengeId")
	limitStr := r.URL.Query().Get("limit")

	if challengeID == "" {
		http.Error(w, `{"error": "challengeId is required"}`, http.StatusBadRequest)
		return
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 100
	}

	messages, err := c.ChatService.GetMessages(r.Context(), challengeID, limit)
	if err != nil {
		log.Printf("❌ Error fetching messages: %v", err)
		http.Error(w, `{"error": "Failed to fetch messages"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

// HandleSendMessage - Append a message to a challenge group
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ChallengeID string `json:"challengeId"`
		Text        string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if request.ChallengeID == "" {
		http.Error(w, `{"error": "challengeId is required"}`, http.StatusBadRequest)
		return
	}

	message, err := c.ChatService.SendMessage(r.Context(), request.ChallengeID, middlewares.UserID(r), request.Text)
	if err != nil {
		log.Printf("❌ Failed to send message: %v", err)
		http.Error(w, `{"error": "Failed to send message"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(message)
}
