package handler

import (
	"interviewcoach/internal/service"
	"interviewcoach/internal/transport/rest/middleware"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const defaultLeaderboardLimit = 10

// ReportHandler handles progress endpoints: reports, mastery and leaderboards
type ReportHandler struct {
	reportSvc    *service.ReportService
	analyticsSvc *service.AnalyticsService
	logger       *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportSvc *service.ReportService, analyticsSvc *service.AnalyticsService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportSvc:    reportSvc,
		analyticsSvc: analyticsSvc,
		logger:       logger,
	}
}

// MyReports handles GET /v1/me/reports
func (h *ReportHandler) MyReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reportSvc.ListByUser(r.Context(), middleware.GetUserID(r.Context()), int64(queryInt(r, "limit", 20)))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// MyMastery handles GET /v1/me/mastery
func (h *ReportHandler) MyMastery(w http.ResponseWriter, r *http.Request) {
	mastery, err := h.analyticsSvc.Mastery(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, mastery)
}

// Leaderboard handles GET /v1/leaderboard/{domain}?limit=
func (h *ReportHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	domain := strings.ToLower(mux.Vars(r)["domain"])

	entries, err := h.reportSvc.Leaderboard(r.Context(), domain, queryInt(r, "limit", defaultLeaderboardLimit))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	rank, err := h.reportSvc.Rank(r.Context(), domain, middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"domain":  domain,
		"entries": entries,
		"myRank":  rank,
	})
}
