package evaluation

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"interviewcoach/internal/model"
)

// Coverage thresholds
const (
	CoveredThreshold = 0.78
	PartialThreshold = 0.70
)

// Similarity scores how close two texts are, in [-1, 1]
type Similarity interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// IsSimilar reports whether a and b reach the partial threshold.
// A similarity failure counts as not similar.
func IsSimilar(ctx context.Context, s Similarity, a, b string) bool {
	v, err := s.Similarity(ctx, a, b)
	return err == nil && clampUnit(v) >= PartialThreshold
}

// Classify maps a similarity onto a coverage tier
func Classify(similarity float64) model.Coverage {
	switch {
	case similarity >= CoveredThreshold:
		return model.CoverageCovered
	case similarity >= PartialThreshold:
		return model.CoveragePartial
	default:
		return model.CoverageMissing
	}
}

// Matcher maps extracted claims onto rubric points
type Matcher struct {
	sim    Similarity
	logger *zap.Logger
}

// NewMatcher creates a claim matcher over the given similarity backend
func NewMatcher(sim Similarity, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{sim: sim, logger: logger}
}

// Match classifies every point. Must-have and good-to-have points are compared
// with all claims joined together; red flags are compared with each wrong claim.
// After the first similarity failure the backend is not called again and the
// remaining points score 0.
func (m *Matcher) Match(ctx context.Context, claims model.ExtractedClaims, points []model.RubricPoint) model.MatchSet {
	var set model.MatchSet
	combined := strings.TrimSpace(strings.Join(claims.Claims, " "))

	for _, p := range points {
		switch p.Type {
		case model.PointMustHave, model.PointGoodToHave:
			sim := 0.0
			if combined != "" {
				sim = m.score(ctx, combined, p, &set)
			}
			res := model.MatchResult{Point: p, Similarity: sim, Coverage: Classify(sim)}
			bucket := &set.MustHave
			if p.Type == model.PointGoodToHave {
				bucket = &set.GoodToHave
			}
			switch res.Coverage {
			case model.CoverageCovered:
				bucket.Covered = append(bucket.Covered, res)
			case model.CoveragePartial:
				bucket.Partial = append(bucket.Partial, res)
			default:
				bucket.Missing = append(bucket.Missing, res)
			}

		case model.PointRedFlag:
			best, matched := 0.0, ""
			for _, wc := range claims.WrongClaims {
				if strings.TrimSpace(wc) == "" {
					continue
				}
				if sim := m.score(ctx, wc, p, &set); sim > best {
					best, matched = sim, wc
				}
			}
			if best >= PartialThreshold {
				set.RedFlags.Triggered = append(set.RedFlags.Triggered, model.MatchResult{
					Point:        p,
					Similarity:   best,
					Coverage:     Classify(best),
					MatchedClaim: matched,
				})
			}
		}
	}
	return set
}

func (m *Matcher) score(ctx context.Context, text string, p model.RubricPoint, set *model.MatchSet) float64 {
	if set.Degraded {
		return 0
	}
	v, err := m.sim.Similarity(ctx, text, p.Text)
	if err != nil {
		set.Degraded = true
		m.logger.Warn("similarity unavailable, treating remaining points as unmatched",
			zap.String("point_id", p.ID),
			zap.Error(err),
		)
		return 0
	}
	return clampUnit(v)
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
