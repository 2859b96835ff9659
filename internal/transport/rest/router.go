package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"apexhire/internal/repository"
	"apexhire/internal/service"
	"apexhire/internal/transport/rest/handler"
	"apexhire/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Interview  *service.InterviewService
	AI         service.AI
	Candidates repository.CandidateRepo
	WSHub      *ws.Hub
	Logger     *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	aiHandler := handler.NewAIHandler(c.AI, c.Logger)
	sessionHandler := handler.NewSessionHandler(c.Interview, c.Logger)
	candidateHandler := handler.NewCandidateHandler(c.Candidates, c.Logger)
	wsHandler := ws.NewHandler(c.WSHub, c.Logger)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"error":"Method Not Allowed"}`))
	})

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/ai/parse-resume", aiHandler.ParseResume).Methods("POST", "OPTIONS")
	v1.HandleFunc("/ai/generate-question", aiHandler.GenerateQuestion).Methods("POST", "OPTIONS")
	v1.HandleFunc("/ai/evaluate-answer", aiHandler.EvaluateAnswer).Methods("POST", "OPTIONS")
	v1.HandleFunc("/ai/generate-summary", aiHandler.GenerateSummary).Methods("POST", "OPTIONS")

	v1.HandleFunc("/session", sessionHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/session/resume", sessionHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/session/messages", sessionHandler.Message).Methods("POST", "OPTIONS")
	v1.HandleFunc("/session/draft", sessionHandler.Draft).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/session/reset", sessionHandler.Reset).Methods("POST", "OPTIONS")

	v1.HandleFunc("/candidates", candidateHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/candidates/{id}", candidateHandler.Get).Methods("GET", "OPTIONS")

	// WebSocket route
	v1.HandleFunc("/ws/session", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
