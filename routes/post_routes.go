package routes

import (
	"challengeme_server/controllers"
	"challengeme_server/middlewares"
	"challengeme_server/services"

	"github.com/gorilla/mux"
)

// RegisterPostRoutes sets up routes for feed posts under /api/posts
func RegisterPostRoutes(r *mux.Router, postService *services.PostService, auth *middlewares.AuthMiddleware) {
	controller := controllers.NewPostController(postService)

	postRouter := r.PathPrefix("/api/posts").Subrouter()
	postRouter.HandleFunc("", controller.HandleGetPosts).Methods("GET")

	protected := postRouter.NewRoute().Subrouter()
	protected.Use(auth.Handle)
	protected.HandleFunc("", controller.HandleCreatePost).Methods("POST")
	protected.HandleFunc("/{id}", controller.HandleDeletePost).Methods("DELETE")
	protected.HandleFunc("/{id}/like", controller.HandleToggleLike).Methods("PATCH")
}
