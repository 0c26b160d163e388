package model

import "time"

// PointType classifies a rubric point
type PointType string

const (
	PointMustHave   PointType = "must_have"
	PointGoodToHave PointType = "good_to_have"
	PointRedFlag    PointType = "red_flag"
)

// RubricPoint is a normalized, immutable rubric entry
type RubricPoint struct {
	ID     string    `json:"id"` // "{type}_{index}"
	Type   PointType `json:"type"`
	Text   string    `json:"text"`
	Tags   []string  `json:"tags"`
	Weight float64   `json:"weight"`
}

// Coverage describes how well an answer addresses a point
type Coverage string

const (
	CoverageCovered Coverage = "covered"
	CoveragePartial Coverage = "partial"
	CoverageMissing Coverage = "missing"
)

// MatchResult is the similarity outcome for one point
type MatchResult struct {
	Point      RubricPoint `json:"point"`
	Similarity float64     `json:"similarity"`
	Coverage   Coverage    `json:"coverage"`

	// MatchedClaim is set for triggered red flags
	MatchedClaim string `json:"matchedClaim,omitempty"`
}

// CoverageBucket groups points of one category by tier
type CoverageBucket struct {
	Covered []MatchResult `json:"covered"`
	Partial []MatchResult `json:"partial"`
	Missing []MatchResult `json:"missing"`
}

// Total returns the number of classified points in the bucket
func (b CoverageBucket) Total() int {
	return len(b.Covered) + len(b.Partial) + len(b.Missing)
}

// MissingTexts returns the text of every missing point
func (b CoverageBucket) MissingTexts() []string {
	out := make([]string, 0, len(b.Missing))
	for _, m := range b.Missing {
		out = append(out, m.Point.Text)
	}
	return out
}

// RedFlagBucket holds red flags fired by wrong claims
type RedFlagBucket struct {
	Triggered []MatchResult `json:"triggered"`
}

// MatchSet is the full ClaimMatcher output
type MatchSet struct {
	MustHave   CoverageBucket `json:"mustHave"`
	GoodToHave CoverageBucket `json:"goodToHave"`
	RedFlags   RedFlagBucket  `json:"redFlags"`

	// Degraded is set when the similarity backend failed for at least one pair
	Degraded bool `json:"degraded"`
}

// AnswerQuality is the clarity/structure signal of an answer (0..1 each)
type AnswerQuality struct {
	Clarity   float64 `json:"clarity" bson:"clarity"`
	Structure float64 `json:"structure" bson:"structure"`
}

// ClaimSource records which path produced extracted claims
type ClaimSource string

const (
	ClaimSourceLLM      ClaimSource = "llm"
	ClaimSourceFallback ClaimSource = "fallback"
)

// ExtractedClaims is the output contract of claim extraction
type ExtractedClaims struct {
	Claims        []string      `json:"claims" bson:"claims"`
	WrongClaims   []string      `json:"wrongClaims" bson:"wrongClaims"`
	AnswerQuality AnswerQuality `json:"answerQuality" bson:"answerQuality"`
	Source        ClaimSource   `json:"source" bson:"source"`
}

// ScoreBreakdown is the per-component score, each rounded to 2 decimals
type ScoreBreakdown struct {
	MustHaveScore   float64 `json:"mustHaveScore" bson:"mustHaveScore"`
	GoodToHaveScore float64 `json:"goodToHaveScore" bson:"goodToHaveScore"`
	ClarityScore    float64 `json:"clarityScore" bson:"clarityScore"`
	Penalty         float64 `json:"penalty" bson:"penalty"`
}

// CoverageCounts summarizes a MatchSet
type CoverageCounts struct {
	MustHaveCovered   int `json:"mustHaveCovered" bson:"mustHaveCovered"`
	MustHavePartial   int `json:"mustHavePartial" bson:"mustHavePartial"`
	MustHaveMissing   int `json:"mustHaveMissing" bson:"mustHaveMissing"`
	GoodToHaveCovered int `json:"goodToHaveCovered" bson:"goodToHaveCovered"`
	GoodToHavePartial int `json:"goodToHavePartial" bson:"goodToHavePartial"`
	GoodToHaveMissing int `json:"goodToHaveMissing" bson:"goodToHaveMissing"`
	RedFlags          int `json:"redFlags" bson:"redFlags"`
}

// ScoreResult is the ScoringEngine output
type ScoreResult struct {
	FinalScore float64        `json:"finalScore" bson:"finalScore"` // 0..10, 1 decimal
	Grade      string         `json:"grade" bson:"grade"`
	Breakdown  ScoreBreakdown `json:"breakdown" bson:"breakdown"`
	Coverage   CoverageCounts `json:"coverage" bson:"coverage"`
}

// EvaluationOutcome is everything produced by evaluating one answer
type EvaluationOutcome struct {
	Claims   ExtractedClaims `json:"claims"`
	Matches  MatchSet        `json:"matches"`
	Score    ScoreResult     `json:"score"`
	Feedback string          `json:"feedback,omitempty"`
	Degraded bool            `json:"degraded"` // any dependency fell back
}

// MissingCorePoints returns the must-have points the answer missed
func (o *EvaluationOutcome) MissingCorePoints() []string {
	return o.Matches.MustHave.MissingTexts()
}

// Issues returns wrong claims followed by triggered red-flag texts, deduplicated
func (o *EvaluationOutcome) Issues() []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(o.Claims.WrongClaims)+len(o.Matches.RedFlags.Triggered))
	for _, c := range o.Claims.WrongClaims {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	for _, rf := range o.Matches.RedFlags.Triggered {
		if seen[rf.Point.Text] {
			continue
		}
		seen[rf.Point.Text] = true
		out = append(out, rf.Point.Text)
	}
	return out
}

// EvaluationRecord is the persisted trace of one answered question
type EvaluationRecord struct {
	ID             string          `json:"id" bson:"_id,omitempty"`
	SessionID      string          `json:"sessionId" bson:"sessionId"`
	UserID         string          `json:"userId" bson:"userId"`
	QuestionID     string          `json:"questionId" bson:"questionId"`
	FollowUpID     string          `json:"followUpId,omitempty" bson:"followUpId,omitempty"`
	Topic          string          `json:"topic" bson:"topic"`
	Difficulty     Difficulty      `json:"difficulty" bson:"difficulty"`
	QuestionNumber int             `json:"questionNumber" bson:"questionNumber"`
	Answer         string          `json:"answer" bson:"answer"`
	Claims         ExtractedClaims `json:"claims" bson:"claims"`
	Score          ScoreResult     `json:"score" bson:"score"`
	MissingPoints  []string        `json:"missingPoints" bson:"missingPoints"`
	Issues         []string        `json:"issues" bson:"issues"`
	Decision       PolicyDecision  `json:"decision" bson:"decision"`
	Feedback       string          `json:"feedback,omitempty" bson:"feedback,omitempty"`
	Degraded       bool            `json:"degraded" bson:"degraded"`
	CreatedAt      time.Time       `json:"createdAt" bson:"createdAt"`
}
