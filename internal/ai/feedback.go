package ai

import (
	"context"
	"fmt"
	"strings"

	"interviewcoach/internal/model"
)

// FeedbackWriter turns an evaluation into short coaching prose
type FeedbackWriter struct {
	provider Provider
}

func NewFeedbackWriter(provider Provider) *FeedbackWriter {
	return &FeedbackWriter{provider: provider}
}

func (w *FeedbackWriter) Feedback(ctx context.Context, question, answer string, out *model.EvaluationOutcome) (string, error) {
	covered := make([]string, 0, len(out.Matches.MustHave.Covered))
	for _, m := range out.Matches.MustHave.Covered {
		covered = append(covered, m.Point.Text)
	}

	prompt := fmt.Sprintf(`You are an interview coach. Write 2-4 sentences of constructive feedback in plain text, no markdown.

Question: %s
Candidate's Answer: %s
Score: %.1f/10 (grade %s)
Covered key points: %s
Missed key points: %s
Incorrect statements: %s

Start with what went well, then name the most important gap.`,
		question, answer, out.Score.FinalScore, out.Score.Grade,
		listOrNone(covered), listOrNone(out.MissingCorePoints()), listOrNone(out.Issues()))

	text, err := w.provider.Generate(ctx, TaskFeedback, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, "; ")
}
