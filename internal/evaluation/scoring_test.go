package evaluation

import (
	"math"
	"testing"

	"interviewcoach/internal/model"
)

func results(n int) []model.MatchResult {
	out := make([]model.MatchResult, n)
	for i := range out {
		out[i] = model.MatchResult{Point: model.RubricPoint{ID: "p"}}
	}
	return out
}

func bucket(covered, partial, missing int) model.CoverageBucket {
	return model.CoverageBucket{
		Covered: results(covered),
		Partial: results(partial),
		Missing: results(missing),
	}
}

func TestScoreScenarios(t *testing.T) {
	tests := []struct {
		name       string
		set        model.MatchSet
		redFlags   int
		quality    model.AnswerQuality
		want       model.ScoreBreakdown
		wantScore  float64
		wantGrade  string
		wantFollow bool
	}{
		{
			name:      "all must-have covered, no good-to-have",
			set:       model.MatchSet{MustHave: bucket(4, 0, 0)},
			quality:   model.AnswerQuality{Clarity: 1, Structure: 1},
			want:      model.ScoreBreakdown{MustHaveScore: 6, GoodToHaveScore: 0, ClarityScore: 1, Penalty: 0},
			wantScore: 7.0,
			wantGrade: "B+",
		},
		{
			name:       "half covered with one red flag",
			set:        model.MatchSet{MustHave: bucket(2, 0, 2)},
			redFlags:   1,
			quality:    model.AnswerQuality{Clarity: 0.5, Structure: 0.5},
			want:       model.ScoreBreakdown{MustHaveScore: 3, GoodToHaveScore: 0, ClarityScore: 0.5, Penalty: 1.5},
			wantScore:  2.0,
			wantGrade:  "F",
			wantFollow: true,
		},
		{
			name:      "partial credit",
			set:       model.MatchSet{MustHave: bucket(2, 2, 0), GoodToHave: bucket(1, 1, 2)},
			quality:   model.AnswerQuality{Clarity: 0.8, Structure: 0.6},
			want:      model.ScoreBreakdown{MustHaveScore: 4.5, GoodToHaveScore: 1.13, ClarityScore: 0.7, Penalty: 0},
			wantScore: 6.3,
			wantGrade: "B",
		},
		{
			name:      "perfect answer",
			set:       model.MatchSet{MustHave: bucket(3, 0, 0), GoodToHave: bucket(2, 0, 0)},
			quality:   model.AnswerQuality{Clarity: 1, Structure: 1},
			want:      model.ScoreBreakdown{MustHaveScore: 6, GoodToHaveScore: 3, ClarityScore: 1},
			wantScore: 10,
			wantGrade: "A+",
		},
		{
			name:       "clamped at zero",
			set:        model.MatchSet{MustHave: bucket(0, 0, 3)},
			redFlags:   3,
			want:       model.ScoreBreakdown{Penalty: 4.5},
			wantScore:  0,
			wantGrade:  "F",
			wantFollow: true,
		},
		{
			name:      "vacuous must-have gets full credit",
			set:       model.MatchSet{},
			want:      model.ScoreBreakdown{MustHaveScore: 6},
			wantScore: 6,
			wantGrade: "B",
		},
		{
			name:      "quality is clamped",
			set:       model.MatchSet{MustHave: bucket(3, 0, 0)},
			quality:   model.AnswerQuality{Clarity: 4, Structure: -2},
			want:      model.ScoreBreakdown{MustHaveScore: 6, ClarityScore: 0.5},
			wantScore: 6.5,
			wantGrade: "B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.set, tt.redFlags, tt.quality)
			if got.Breakdown != tt.want {
				t.Errorf("breakdown = %+v, want %+v", got.Breakdown, tt.want)
			}
			if got.FinalScore != tt.wantScore {
				t.Errorf("final score = %v, want %v", got.FinalScore, tt.wantScore)
			}
			if got.Grade != tt.wantGrade {
				t.Errorf("grade = %s, want %s", got.Grade, tt.wantGrade)
			}
			if NeedsFollowUp(got) != tt.wantFollow {
				t.Errorf("NeedsFollowUp = %v, want %v", !tt.wantFollow, tt.wantFollow)
			}
		})
	}
}

func TestScoreCoverageCounts(t *testing.T) {
	got := Score(model.MatchSet{MustHave: bucket(1, 2, 3), GoodToHave: bucket(0, 1, 1)}, 2, model.AnswerQuality{})
	want := model.CoverageCounts{
		MustHaveCovered: 1, MustHavePartial: 2, MustHaveMissing: 3,
		GoodToHavePartial: 1, GoodToHaveMissing: 1,
		RedFlags: 2,
	}
	if got.Coverage != want {
		t.Fatalf("coverage = %+v, want %+v", got.Coverage, want)
	}
}

func TestScoreBounds(t *testing.T) {
	for covered := 0; covered <= 8; covered++ {
		for missing := 0; missing <= 8-covered; missing++ {
			for flags := 0; flags <= 8; flags++ {
				for _, q := range []float64{0, 0.5, 1} {
					r := Score(model.MatchSet{
						MustHave:   bucket(covered, 0, missing),
						GoodToHave: bucket(covered%3, 1, 0),
					}, flags, model.AnswerQuality{Clarity: q, Structure: q})
					if r.FinalScore < 0 || r.FinalScore > 10 {
						t.Fatalf("score %v out of bounds (covered=%d missing=%d flags=%d)", r.FinalScore, covered, missing, flags)
					}
				}
			}
		}
	}
}

func TestScoreMonotonicInMustHaveCoverage(t *testing.T) {
	const total = 6
	q := model.AnswerQuality{Clarity: 0.6, Structure: 0.4}
	prev := -1.0
	for covered := 0; covered <= total; covered++ {
		r := Score(model.MatchSet{
			MustHave:   bucket(covered, 0, total-covered),
			GoodToHave: bucket(1, 0, 1),
		}, 1, q)
		if r.FinalScore < prev {
			t.Fatalf("score decreased from %v to %v at covered=%d", prev, r.FinalScore, covered)
		}
		prev = r.FinalScore
	}
}

func TestRedFlagPenaltyStep(t *testing.T) {
	set := model.MatchSet{MustHave: bucket(4, 0, 0), GoodToHave: bucket(2, 0, 0)}
	q := model.AnswerQuality{Clarity: 1, Structure: 1}
	base := Score(set, 0, q).FinalScore
	for n := 1; n <= 6; n++ {
		got := Score(set, n, q).FinalScore
		want := math.Max(0, base-1.5*float64(n))
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("flags=%d score=%v want %v", n, got, want)
		}
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{10, "A+"}, {9, "A+"}, {8.9, "A"}, {8, "A"}, {7.5, "B+"}, {7, "B+"},
		{6.9, "B"}, {6, "B"}, {5.5, "C"}, {5, "C"}, {4, "D"}, {3.9, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		if got := Grade(tt.score); got != tt.want {
			t.Errorf("Grade(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestNeedsFollowUp(t *testing.T) {
	tests := []struct {
		name string
		r    model.ScoreResult
		want bool
	}{
		{"good answer", model.ScoreResult{FinalScore: 7}, false},
		{"low score", model.ScoreResult{FinalScore: 3.9}, true},
		{"boundary score", model.ScoreResult{FinalScore: 4}, false},
		{"many missing", model.ScoreResult{FinalScore: 8, Coverage: model.CoverageCounts{MustHaveMissing: 3}}, true},
		{"two missing", model.ScoreResult{FinalScore: 8, Coverage: model.CoverageCounts{MustHaveMissing: 2}}, false},
		{"red flag", model.ScoreResult{FinalScore: 9, Coverage: model.CoverageCounts{RedFlags: 1}}, true},
	}
	for _, tt := range tests {
		if got := NeedsFollowUp(tt.r); got != tt.want {
			t.Errorf("%s: NeedsFollowUp = %v, want %v", tt.name, got, tt.want)
		}
	}
}
