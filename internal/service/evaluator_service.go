package service

import (
	"context"
	"fmt"
	"interviewcoach/internal/evaluation"
	"interviewcoach/internal/model"
	"strings"

	"go.uber.org/zap"
)

// FeedbackGenerator writes coaching prose for an evaluated answer
type FeedbackGenerator interface {
	Feedback(ctx context.Context, question, answer string, out *model.EvaluationOutcome) (string, error)
}

// EvaluatorService scores answers and attaches feedback
type EvaluatorService struct {
	pipeline *evaluation.Pipeline
	feedback FeedbackGenerator
	logger   *zap.Logger
}

// NewEvaluatorService creates a new evaluator service. feedback may be nil,
// in which case the deterministic summary is used.
func NewEvaluatorService(pipeline *evaluation.Pipeline, feedback FeedbackGenerator, logger *zap.Logger) *EvaluatorService {
	return &EvaluatorService{
		pipeline: pipeline,
		feedback: feedback,
		logger:   logger,
	}
}

// Evaluate scores an answer against a bank rubric
func (s *EvaluatorService) Evaluate(ctx context.Context, question, answer string, rubric model.Rubric) (*model.EvaluationOutcome, error) {
	out, err := s.pipeline.Evaluate(ctx, question, answer, rubric)
	if err != nil {
		return nil, err
	}

	if s.feedback == nil {
		out.Feedback = mockFeedback(out)
		return out, nil
	}
	text, err := s.feedback.Feedback(ctx, question, answer, out)
	switch {
	case err != nil:
		s.logger.Warn("feedback generation failed, using summary", zap.Error(err))
	case strings.TrimSpace(text) == "":
		s.logger.Warn("feedback generator returned empty text, using summary")
	default:
		out.Feedback = text
		return out, nil
	}
	out.Feedback = mockFeedback(out)
	out.Degraded = true
	return out, nil
}

// EvaluateRequest scores an ad-hoc question, answer and rubric outside a session
func (s *EvaluatorService) EvaluateRequest(ctx context.Context, req *model.EvaluateRequest) (*model.EvaluationOutcome, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("%w: question is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Answer) == "" {
		return nil, fmt.Errorf("%w: answer is required", ErrInvalidInput)
	}
	if err := evaluation.ValidateRubric(req.Rubric); err != nil {
		return nil, err
	}
	return s.Evaluate(ctx, req.Question, req.Answer, req.Rubric)
}

// mockFeedback summarises coverage without a model
func mockFeedback(out *model.EvaluationOutcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score %.1f/10 (%s).", out.Score.FinalScore, out.Score.Grade)

	covered := len(out.Matches.MustHave.Covered)
	total := out.Matches.MustHave.Total()
	if total > 0 {
		fmt.Fprintf(&b, " You covered %d of %d key points.", covered, total)
	}
	if missing := out.MissingCorePoints(); len(missing) > 0 {
		fmt.Fprintf(&b, " Work on: %s.", strings.Join(missing, "; "))
	}
	if issues := out.Issues(); len(issues) > 0 {
		fmt.Fprintf(&b, " Revisit these statements: %s.", strings.Join(issues, "; "))
	}
	if len(out.MissingCorePoints()) == 0 && len(out.Issues()) == 0 {
		b.WriteString(" Strong answer, keep the same structure.")
	}
	return b.String()
}
