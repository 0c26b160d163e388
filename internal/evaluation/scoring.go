package evaluation

import (
	"math"

	"interviewcoach/internal/model"
)

// Scoring weights on the 0-10 scale
const (
	MustHaveWeight    = 6.0
	GoodToHaveWeight  = 3.0
	ClarityWeight     = 1.0
	RedFlagPenalty    = 1.5
	PartialCredit     = 0.5
	MaxScore          = 10.0
	LowScoreThreshold = 4.0
)

// Score turns a match set and answer quality into a bounded score
func Score(m model.MatchSet, redFlagCount int, q model.AnswerQuality) model.ScoreResult {
	mustHave := MustHaveWeight
	if total := m.MustHave.Total(); total > 0 {
		mustHave = credit(m.MustHave) / float64(total) * MustHaveWeight
	}

	goodToHave := 0.0
	if total := m.GoodToHave.Total(); total > 0 {
		goodToHave = credit(m.GoodToHave) / float64(total) * GoodToHaveWeight
	}

	clarity := (clampUnit(q.Clarity) + clampUnit(q.Structure)) / 2 * ClarityWeight
	if redFlagCount < 0 {
		redFlagCount = 0
	}
	penalty := float64(redFlagCount) * RedFlagPenalty

	raw := mustHave + goodToHave + clarity - penalty
	final := round(math.Max(0, math.Min(MaxScore, raw)), 1)

	return model.ScoreResult{
		FinalScore: final,
		Grade:      Grade(final),
		Breakdown: model.ScoreBreakdown{
			MustHaveScore:   round(mustHave, 2),
			GoodToHaveScore: round(goodToHave, 2),
			ClarityScore:    round(clarity, 2),
			Penalty:         round(penalty, 2),
		},
		Coverage: model.CoverageCounts{
			MustHaveCovered:   len(m.MustHave.Covered),
			MustHavePartial:   len(m.MustHave.Partial),
			MustHaveMissing:   len(m.MustHave.Missing),
			GoodToHaveCovered: len(m.GoodToHave.Covered),
			GoodToHavePartial: len(m.GoodToHave.Partial),
			GoodToHaveMissing: len(m.GoodToHave.Missing),
			RedFlags:          redFlagCount,
		},
	}
}

// Grade maps a final score onto a letter grade
func Grade(score float64) string {
	switch {
	case score >= 9:
		return "A+"
	case score >= 8:
		return "A"
	case score >= 7:
		return "B+"
	case score >= 6:
		return "B"
	case score >= 5:
		return "C"
	case score >= 4:
		return "D"
	default:
		return "F"
	}
}

// NeedsFollowUp reports whether a result warrants a clarifying question
func NeedsFollowUp(r model.ScoreResult) bool {
	return r.FinalScore < LowScoreThreshold || r.Coverage.MustHaveMissing > 2 || r.Coverage.RedFlags > 0
}

func credit(b model.CoverageBucket) float64 {
	return float64(len(b.Covered)) + PartialCredit*float64(len(b.Partial))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
