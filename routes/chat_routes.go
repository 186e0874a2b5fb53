package routes

import (
	"challengeme_server/controllers"
	"challengeme_server/middlewares"
	"challengeme_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for chat-related operations under /api/chat
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService, auth *middlewares.AuthMiddleware) {
	controller := controllers.NewChatController(chatService)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.HandleFunc("/messages", controller.HandleGetMessages).Methods("GET")

	protected := chatRouter.NewRoute().Subrouter()
	protected.Use(auth.Handle)
	protected.HandleFunc("/message", controller.HandleSendMessage).Methods("POST")
}
