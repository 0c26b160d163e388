package handler

import (
	"encoding/json"
	"interviewcoach/internal/model"
	"interviewcoach/internal/service"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// QuestionHandler handles question bank endpoints (admin only)
type QuestionHandler struct {
	questionSvc *service.QuestionService
	logger      *zap.Logger
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionSvc *service.QuestionService, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{questionSvc: questionSvc, logger: logger}
}

// Create handles POST /v1/questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var q model.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.questionSvc.Create(r.Context(), &q)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /v1/questions?domain=&topic=&difficulty=&active=
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := model.QuestionFilter{
		Domain:     query.Get("domain"),
		Topic:      query.Get("topic"),
		ActiveOnly: query.Get("active") == "true",
	}
	if d := query.Get("difficulty"); d != "" {
		parsed, ok := model.ParseDifficulty(d)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown difficulty")
			return
		}
		filter.Difficulty = parsed
	}

	questions, err := h.questionSvc.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

// Get handles GET /v1/questions/{id}
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.questionSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Update handles PUT /v1/questions/{id}
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var q model.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.questionSvc.Update(r.Context(), mux.Vars(r)["id"], &q)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /v1/questions/{id}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.questionSvc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
