package rest

import (
	"net/http"
	"studyhub/internal/logger"
	"studyhub/internal/service"
	"studyhub/internal/transport/rest/handler"
	"studyhub/internal/transport/rest/middleware"
	"studyhub/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService     *service.AuthService
	NotebookService *service.NotebookService
	ProfileService  *service.ProfileService
	WSHub           *ws.Hub
	Log             *logger.Logger
	AllowedOrigins  []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	notebookHandler := handler.NewNotebookHandler(c.NotebookService)
	profileHandler := handler.NewProfileHandler(c.ProfileService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Log, c.AllowedOrigins)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.AllowedOrigins))
	r.Use(middleware.RequestLogger(c.Log))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/notebooks/{id}", wsHandler.NotebookWS).Methods("GET")

	// User routes
	user := v1.NewRoute().Subrouter()
	user.Use(authMW.RequireUser)

	user.HandleFunc("/me", profileHandler.Me).Methods("GET", "OPTIONS")
	user.HandleFunc("/leaderboard", profileHandler.Leaderboard).Methods("GET", "OPTIONS")
	user.HandleFunc("/interactions", profileHandler.Interaction).Methods("PUT", "OPTIONS")

	user.HandleFunc("/notebooks", notebookHandler.Create).Methods("POST", "OPTIONS")
	user.HandleFunc("/notebooks", notebookHandler.List).Methods("GET", "OPTIONS")
	user.HandleFunc("/notebooks/{id}", notebookHandler.Update).Methods("PUT", "OPTIONS")
	user.HandleFunc("/notebooks/{id}", notebookHandler.Delete).Methods("DELETE", "OPTIONS")
	user.HandleFunc("/notebooks/{id}/stats", notebookHandler.Stats).Methods("GET", "OPTIONS")
	user.HandleFunc("/notebooks/{id}/answers", notebookHandler.Reset).Methods("DELETE", "OPTIONS")
	user.HandleFunc("/questions/{id}/stats", notebookHandler.QuestionStats).Methods("GET", "OPTIONS")

	// Answering session
	user.HandleFunc("/notebooks/{id}/session", notebookHandler.Open).Methods("POST", "OPTIONS")
	user.HandleFunc("/notebooks/{id}/session", notebookHandler.Current).Methods("GET", "OPTIONS")
	user.HandleFunc("/notebooks/{id}/session/answer", notebookHandler.Answer).Methods("POST", "OPTIONS")
	user.HandleFunc("/notebooks/{id}/session/next", notebookHandler.Next).Methods("POST", "OPTIONS")
	user.HandleFunc("/notebooks/{id}/session/previous", notebookHandler.Previous).Methods("POST", "OPTIONS")
	user.HandleFunc("/notebooks/{id}/session/next-unanswered", notebookHandler.NextUnanswered).Methods("POST", "OPTIONS")
	user.HandleFunc("/notebooks/{id}/session/jump", notebookHandler.Jump).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(allowed []string) mux.MiddlewareFunc {
	wildcard := len(allowed) == 0
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			wildcard = true
		}
		set[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case set[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
