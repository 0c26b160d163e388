package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"interviewcoach/internal/logger"
	"interviewcoach/internal/model"
)

var ErrEmptyClaims = errors.New("model returned no claims")

// ClaimExtractor asks the model for claims, wrong claims and answer quality
type ClaimExtractor struct {
	provider Provider
	logger   *zap.Logger
}

func NewClaimExtractor(provider Provider, logger *zap.Logger) *ClaimExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClaimExtractor{provider: provider, logger: logger}
}

func (e *ClaimExtractor) Extract(ctx context.Context, question, answer string, points []model.RubricPoint) (model.ExtractedClaims, error) {
	prompt := buildClaimsPrompt(question, answer, points)

	e.logger.Debug("claim extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		logger.Text("answer_preview", answer),
	)

	raw, err := e.provider.GenerateJSON(ctx, TaskClaims, prompt)
	if err != nil {
		return model.ExtractedClaims{}, err
	}

	e.logger.Debug("claim extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		logger.Text("response_preview", raw),
	)

	claims, err := parseClaims(raw)
	if err != nil {
		return model.ExtractedClaims{}, err
	}
	if len(claims.Claims) == 0 && strings.TrimSpace(answer) != "" {
		return model.ExtractedClaims{}, ErrEmptyClaims
	}
	return claims, nil
}

func buildClaimsPrompt(question, answer string, points []model.RubricPoint) string {
	var rubric strings.Builder
	for _, p := range points {
		fmt.Fprintf(&rubric, "- [%s] %s\n", p.Type, p.Text)
	}

	return fmt.Sprintf(`You are reviewing a candidate's answer in a technical interview. Return ONLY valid JSON matching this schema:
{
  "claims": ["one factual assertion made by the candidate", "..."],
  "wrongClaims": ["an assertion that is factually incorrect", "..."],
  "answerQuality": {"clarity": 0.0 to 1.0, "structure": 0.0 to 1.0}
}

Question: %s

Rubric (for context only, do not invent claims the candidate did not make):
%s
Candidate's Answer: %s

Split the answer into short self-contained claims. Copy every incorrect claim into wrongClaims as well.
Rate clarity and structure of the answer as a whole.`,
		question, rubric.String(), answer)
}

func parseClaims(raw string) (model.ExtractedClaims, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return model.ExtractedClaims{}, fmt.Errorf("parse claims response: %w", err)
	}

	quality, _ := data["answerQuality"].(map[string]any)
	return model.ExtractedClaims{
		Claims:      coerceStrings(data["claims"]),
		WrongClaims: coerceStrings(data["wrongClaims"]),
		AnswerQuality: model.AnswerQuality{
			Clarity:   qualityScore(quality["clarity"]),
			Structure: qualityScore(quality["structure"]),
		},
		Source: model.ClaimSourceLLM,
	}, nil
}

// defaultQuality matches the sentence fallback when the model omits a rating
const defaultQuality = 0.5

func qualityScore(v any) float64 {
	f := coerceFloat(v)
	if math.IsNaN(f) {
		return defaultQuality
	}
	return unit(f)
}

func unit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, 1)
}
