package handler

import (
	"encoding/json"
	"errors"
	"interviewcoach/internal/cache"
	"interviewcoach/internal/evaluation"
	"interviewcoach/internal/service"
	"interviewcoach/internal/session"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	var verr *evaluation.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrReportNotFound),
		errors.Is(err, service.ErrNoQuestions):
		return http.StatusNotFound
	case errors.Is(err, session.ErrInvalidState),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, cache.ErrLockTimeout):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
		writeError(w, status, "internal server error")
		return
	}

	var verr *evaluation.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, status, map[string]interface{}{
			"error":    "invalid rubric",
			"problems": verr.Problems,
		})
		return
	}
	writeError(w, status, err.Error())
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
