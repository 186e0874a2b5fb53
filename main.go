package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"challengeme_server/middlewares"
	"challengeme_server/routes"
	"challengeme_server/services"
	"challengeme_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize Services
	liveQueryService := services.NewLiveQueryService(dynamoService)
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	authService := &services.AuthService{Profiles: userProfileService, JWTSecret: jwtSecret}
	challengeService := &services.ChallengeService{Dynamo: dynamoService, Profiles: userProfileService, Live: liveQueryService}
	postService := &services.PostService{Dynamo: dynamoService, Profiles: userProfileService, Live: liveQueryService}
	chatService := &services.ChatService{Dynamo: dynamoService, Profiles: userProfileService}
	membershipService := &services.MembershipService{Live: liveQueryService}

	// Realtime surface: chat rooms and membership watches
	socketServer := socket.NewServer(authService, membershipService, liveQueryService)
	chatService.Notify = socketServer.NotifyNewMessage
	go func() {
		if err := socketServer.IO.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer socketServer.IO.Close()

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to ChallengeMe")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	r.Handle("/socket.io/", socketServer.IO)

	// Register routes
	authMiddleware := middlewares.NewAuthMiddleware(authService)
	routes.RegisterAuthRoutes(r, authService, authMiddleware)
	routes.RegisterUserProfileRoutes(r, userProfileService, authMiddleware)
	routes.RegisterChallengeRoutes(r, challengeService, membershipService, authMiddleware)
	routes.RegisterPostRoutes(r, postService, authMiddleware)
	routes.RegisterChatRoutes(r, chatService, authMiddleware)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
