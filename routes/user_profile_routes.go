package routes

import (
	"challengeme_server/controllers"
	"challengeme_server/middlewares"
	"challengeme_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for profile operations under /api/profile
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService, auth *middlewares.AuthMiddleware) {
	controller := controllers.NewUserProfileController(userProfileService)

	profileRouter := r.PathPrefix("/api/profile").Subrouter()

	protected := profileRouter.NewRoute().Subrouter()
	protected.Use(auth.Handle)
	protected.HandleFunc("", controller.HandleGetOwnProfile).Methods("GET")
	protected.HandleFunc("", controller.HandleUpdateProfile).Methods("PATCH")

	profileRouter.HandleFunc("/{userId}", controller.HandleGetProfile).Methods("GET")
}
