package evaluation

import (
	"context"

	"interviewcoach/internal/model"
)

// Pipeline runs extraction, matching and scoring for one answer
type Pipeline struct {
	extractor *FallbackExtractor
	matcher   *Matcher
}

// NewPipeline wires the evaluation stages together
func NewPipeline(extractor *FallbackExtractor, matcher *Matcher) *Pipeline {
	return &Pipeline{extractor: extractor, matcher: matcher}
}

// Evaluate scores an answer against a rubric. The rubric is not validated here;
// banks validate on write. It fails only when ctx is already done.
func (p *Pipeline) Evaluate(ctx context.Context, question, answer string, rubric model.Rubric) (*model.EvaluationOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	points := NormalizePoints(rubric)

	claims, ok := p.extractor.ExtractWithStatus(ctx, question, answer, points)
	matches := p.matcher.Match(ctx, claims, points)
	score := Score(matches, len(matches.RedFlags.Triggered), claims.AnswerQuality)

	return &model.EvaluationOutcome{
		Claims:   claims,
		Matches:  matches,
		Score:    score,
		Degraded: !ok || matches.Degraded,
	}, nil
}
