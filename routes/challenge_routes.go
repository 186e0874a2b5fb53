package routes

import (
	"challengeme_server/controllers"
	"challengeme_server/middlewares"
	"challengeme_server/services"

	"github.com/gorilla/mux"
)

// RegisterChallengeRoutes sets up routes for challenge operations under /api/challenges
func RegisterChallengeRoutes(r *mux.Router, challengeService *services.ChallengeService, membershipService *services.MembershipService, auth *middlewares.AuthMiddleware) {
	controller := controllers.NewChallengeController(challengeService, membershipService)

	challengeRouter := r.PathPrefix("/api/challenges").Subrouter()
	challengeRouter.HandleFunc("", controller.HandleGetChallenges).Methods("GET")

	protected := challengeRouter.NewRoute().Subrouter()
	protected.Use(auth.Handle)
	protected.HandleFunc("", controller.HandleCreateChallenge).Methods("POST")
	protected.HandleFunc("/membership", controller.HandleGetMembership).Methods("GET")
	protected.HandleFunc("/{id}", controller.HandleUpdateChallenge).Methods("PATCH")
	protected.HandleFunc("/{id}", controller.HandleDeleteChallenge).Methods("DELETE")
	protected.HandleFunc("/{id}/accept", controller.HandleAcceptChallenge).Methods("POST")
	protected.HandleFunc("/{id}/cancel", controller.HandleCancelAcceptance).Methods("POST")
	protected.HandleFunc("/{id}/like", controller.HandleToggleLike).Methods("PATCH")
}
