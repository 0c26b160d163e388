package handler

import (
	"encoding/json"
	"interviewcoach/internal/model"
	"interviewcoach/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// EvaluateHandler scores ad-hoc answers outside a session
type EvaluateHandler struct {
	evaluatorSvc *service.EvaluatorService
	logger       *zap.Logger
}

// NewEvaluateHandler creates a new evaluate handler
func NewEvaluateHandler(evaluatorSvc *service.EvaluatorService, logger *zap.Logger) *EvaluateHandler {
	return &EvaluateHandler{evaluatorSvc: evaluatorSvc, logger: logger}
}

// Evaluate handles POST /v1/evaluate
func (h *EvaluateHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req model.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := h.evaluatorSvc.EvaluateRequest(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}
