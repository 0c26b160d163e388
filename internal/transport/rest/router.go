package rest

import (
	"interviewcoach/internal/service"
	"interviewcoach/internal/transport/rest/handler"
	"interviewcoach/internal/transport/rest/middleware"
	"interviewcoach/internal/transport/ws"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	QuestionService  *service.QuestionService
	InterviewService *service.InterviewService
	EvaluatorService *service.EvaluatorService
	ReportService    *service.ReportService
	AnalyticsService *service.AnalyticsService
	WSHub            *ws.Hub
	AllowedOrigins   []string
	Logger           *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService, logger)
	questionHandler := handler.NewQuestionHandler(c.QuestionService, logger)
	sessionHandler := handler.NewSessionHandler(c.InterviewService, c.ReportService, logger)
	reportHandler := handler.NewReportHandler(c.ReportService, c.AnalyticsService, logger)
	evaluateHandler := handler.NewEvaluateHandler(c.EvaluatorService, logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(middleware.CORS(c.AllowedOrigins))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	if c.WSHub != nil {
		wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.InterviewService, logger)
		v1.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")
	}

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Candidate routes (require user auth)
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/sessions", sessionHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{id}/answers", sessionHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{id}/end", sessionHandler.End).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{id}/abandon", sessionHandler.Abandon).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{id}/evaluations", sessionHandler.History).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{id}/report", sessionHandler.Report).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/me/reports", reportHandler.MyReports).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/me/mastery", reportHandler.MyMastery).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/leaderboard/{domain}", reportHandler.Leaderboard).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/evaluate", evaluateHandler.Evaluate).Methods("POST", "OPTIONS")

	// Question bank routes (admin only)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/questions", questionHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/questions", questionHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{id}", questionHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{id}", questionHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{id}", questionHandler.Delete).Methods("DELETE", "OPTIONS")

	return r
}
