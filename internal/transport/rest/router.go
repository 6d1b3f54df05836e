package rest

import (
	"net/http"
	"os"

	"accord/internal/service"
	"accord/internal/transport/rest/handler"
	"accord/internal/transport/rest/middleware"
	"accord/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	TemplateService   *service.TemplateService
	SessionService    *service.SessionService
	ResponseService   *service.ResponseService
	ComparisonService *service.ComparisonService
	GuideService      *service.GuideService
	WSHub             *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	templateHandler := handler.NewTemplateHandler(c.TemplateService)
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	responseHandler := handler.NewResponseHandler(c.ResponseService)
	comparisonHandler := handler.NewComparisonHandler(c.ComparisonService, c.TemplateService, c.GuideService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{code}/join", sessionHandler.Join).Methods("POST", "OPTIONS")
	v1.HandleFunc("/scenarios", templateHandler.Scenarios).Methods("GET", "OPTIONS")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws/sessions/{code}", wsHandler.PartnerWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Owner routes (require owner auth)
	ownerRoutes := v1.NewRoute().Subrouter()
	ownerRoutes.Use(authMW.RequireOwner)

	ownerRoutes.HandleFunc("/templates", templateHandler.Create).Methods("POST", "OPTIONS")
	ownerRoutes.HandleFunc("/templates", templateHandler.List).Methods("GET", "OPTIONS")
	ownerRoutes.HandleFunc("/templates/{templateId}", templateHandler.Get).Methods("GET", "OPTIONS")
	ownerRoutes.HandleFunc("/templates/{templateId}", templateHandler.Update).Methods("PUT", "OPTIONS")
	ownerRoutes.HandleFunc("/templates/{templateId}", templateHandler.Delete).Methods("DELETE", "OPTIONS")
	ownerRoutes.HandleFunc("/templates/{templateId}/normalized", templateHandler.GetNormalized).Methods("GET", "OPTIONS")
	ownerRoutes.HandleFunc("/scenarios/{scenarioId}", templateHandler.UpsertScenario).Methods("PUT", "OPTIONS")
	ownerRoutes.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	ownerRoutes.HandleFunc("/sessions/{code}", sessionHandler.Get).Methods("GET", "OPTIONS")

	// Partner routes (require partner auth)
	partnerRoutes := v1.NewRoute().Subrouter()
	partnerRoutes.Use(authMW.RequirePartner)

	partnerRoutes.HandleFunc("/sessions/{code}/meta", sessionHandler.GetMeta).Methods("GET", "OPTIONS")
	partnerRoutes.HandleFunc("/sessions/{code}/responses", responseHandler.Save).Methods("PUT", "OPTIONS")
	partnerRoutes.HandleFunc("/sessions/{code}/responses", responseHandler.Get).Methods("GET", "OPTIONS")
	partnerRoutes.HandleFunc("/sessions/{code}/submit", responseHandler.Submit).Methods("POST", "OPTIONS")
	partnerRoutes.HandleFunc("/sessions/{code}/report", comparisonHandler.GetReport).Methods("GET", "OPTIONS")
	partnerRoutes.HandleFunc("/sessions/{code}/guide", comparisonHandler.GetGuide).Methods("GET", "OPTIONS")

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
