package evaluation

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"interviewcoach/internal/model"
)

const (
	minClaimLength  = 10
	fallbackQuality = 0.5
)

// ClaimExtractor turns a free-text answer into structured claims
type ClaimExtractor interface {
	Extract(ctx context.Context, question, answer string, points []model.RubricPoint) (model.ExtractedClaims, error)
}

// SplitClaims splits an answer into sentences longer than ten characters
func SplitClaims(answer string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		b.Reset()
		if utf8.RuneCountInString(s) > minClaimLength {
			out = append(out, s)
		}
	}
	for _, r := range answer {
		switch r {
		case '.', '!', '?', '\n':
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return out
}

// FallbackClaims is the deterministic extraction used when no extractor is available
func FallbackClaims(answer string) model.ExtractedClaims {
	return model.ExtractedClaims{
		Claims:        SplitClaims(answer),
		WrongClaims:   []string{},
		AnswerQuality: model.AnswerQuality{Clarity: fallbackQuality, Structure: fallbackQuality},
		Source:        model.ClaimSourceFallback,
	}
}

// FallbackExtractor wraps a primary extractor and never fails
type FallbackExtractor struct {
	primary ClaimExtractor
	logger  *zap.Logger
}

// NewFallbackExtractor creates an extractor that degrades to sentence splitting.
// primary may be nil.
func NewFallbackExtractor(primary ClaimExtractor, logger *zap.Logger) *FallbackExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackExtractor{primary: primary, logger: logger}
}

// Extract returns the primary result, or the sentence fallback on failure. The error is always nil.
func (f *FallbackExtractor) Extract(ctx context.Context, question, answer string, points []model.RubricPoint) (model.ExtractedClaims, error) {
	claims, _ := f.ExtractWithStatus(ctx, question, answer, points)
	return claims, nil
}

// ExtractWithStatus reports whether the primary extractor produced the claims
func (f *FallbackExtractor) ExtractWithStatus(ctx context.Context, question, answer string, points []model.RubricPoint) (model.ExtractedClaims, bool) {
	if f.primary == nil {
		return FallbackClaims(answer), false
	}
	claims, err := f.primary.Extract(ctx, question, answer, points)
	if err != nil {
		f.logger.Warn("claim extraction failed, using sentence fallback", zap.Error(err))
		return FallbackClaims(answer), false
	}
	claims.AnswerQuality.Clarity = clampUnit(claims.AnswerQuality.Clarity)
	claims.AnswerQuality.Structure = clampUnit(claims.AnswerQuality.Structure)
	if claims.WrongClaims == nil {
		claims.WrongClaims = []string{}
	}
	if claims.Source == "" {
		claims.Source = model.ClaimSourceLLM
	}
	return claims, true
}
