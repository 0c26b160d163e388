package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"interviewcoach/internal/model"
)

// FollowUpWriter writes follow-up prompts with the model
type FollowUpWriter struct {
	provider Provider
}

func NewFollowUpWriter(provider Provider) *FollowUpWriter {
	return &FollowUpWriter{provider: provider}
}

func (w *FollowUpWriter) ComposeFollowUp(ctx context.Context, parent *model.Question, focus []string) (string, error) {
	if parent == nil {
		return "", fmt.Errorf("parent question is required")
	}

	focusStr := "none, ask the candidate to clarify and justify their reasoning"
	if len(focus) > 0 {
		focusStr = strings.Join(focus, "; ")
	}

	prompt := fmt.Sprintf(`You are a friendly but rigorous technical interviewer. Write ONE follow-up question.
Return ONLY valid JSON:
{"prompt": "follow-up question text"}

Topic: %s
Difficulty: %s
Original Question: %s
Points the candidate missed or got wrong: %s

Instructions:
1. Stay on the original question; do not introduce a new topic.
2. Target the listed points without giving away the answer.
3. Keep it to one or two sentences.`,
		parent.Topic, parent.Difficulty, parent.Prompt, focusStr)

	raw, err := w.provider.GenerateJSON(ctx, TaskFollowUp, prompt)
	if err != nil {
		return "", err
	}

	var out struct {
		Prompt string `json:"prompt"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &out); err != nil {
		return "", fmt.Errorf("parse follow-up response: %w", err)
	}
	if strings.TrimSpace(out.Prompt) == "" {
		return "", fmt.Errorf("empty follow-up prompt")
	}
	return strings.TrimSpace(out.Prompt), nil
}
