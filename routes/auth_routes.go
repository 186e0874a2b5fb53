package routes

import (
	"challengeme_server/controllers"
	"challengeme_server/middlewares"
	"challengeme_server/services"

	"github.com/gorilla/mux"
)

// RegisterAuthRoutes sets up routes for session operations under /api/auth
func RegisterAuthRoutes(r *mux.Router, authService *services.AuthService, auth *middlewares.AuthMiddleware) {
	controller := controllers.NewAuthController(authService)

	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/signup", controller.HandleSignup).Methods("POST")
	authRouter.HandleFunc("/login", controller.HandleLogin).Methods("POST")

	protected := authRouter.NewRoute().Subrouter()
	protected.Use(auth.Handle)
	protected.HandleFunc("/password", controller.HandleChangePassword).Methods("POST")
}
