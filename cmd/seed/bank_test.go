package main

import (
	"testing"

	"interviewcoach/internal/evaluation"
	"interviewcoach/internal/model"
)

func TestDefaultBankIsValid(t *testing.T) {
	seen := make(map[string]bool)
	for _, q := range defaultBank() {
		if err := evaluation.ValidateRubric(q.Rubric); err != nil {
			t.Errorf("%q: %v", q.Prompt, err)
		}
		if _, ok := model.ParseDifficulty(string(q.Difficulty)); !ok {
			t.Errorf("%q: difficulty %q", q.Prompt, q.Difficulty)
		}
		key := bankKey(q)
		if seen[key] {
			t.Errorf("duplicate prompt %q", q.Prompt)
		}
		seen[key] = true
	}
}

func TestParseBank(t *testing.T) {
	yamlBank := `
- domain: Backend
  topic: queues
  difficulty: medium
  prompt: When would you use a message queue?
  rubric:
    mustHave:
      - Decouples producers from consumers
      - Absorbs traffic spikes
      - Consumers must handle redelivery
    redFlags:
      - Queues guarantee exactly once delivery
`
	jsonBank := `[{"domain":"Backend","topic":"queues","difficulty":"medium","prompt":"When would you use a message queue?",
		"rubric":{"mustHave":["Decouples producers from consumers","Absorbs traffic spikes","Consumers must handle redelivery"],
		"redFlags":["Queues guarantee exactly once delivery"]}}]`

	tests := []struct {
		name string
		data string
		ext  string
	}{
		{"yaml", yamlBank, ".yaml"},
		{"yml", yamlBank, ".YML"},
		{"json", jsonBank, ".json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBank([]byte(tt.data), tt.ext)
			if err != nil {
				t.Fatalf("parseBank: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("got %d questions", len(got))
			}
			q := got[0]
			if q.Domain != "Backend" || q.Difficulty != model.DifficultyMedium {
				t.Errorf("question = %+v", q)
			}
			if len(q.Rubric.MustHave) != 3 || len(q.Rubric.RedFlags) != 1 || len(q.Rubric.GoodToHave) != 0 {
				t.Errorf("rubric = %+v", q.Rubric)
			}
			if err := evaluation.ValidateRubric(q.Rubric); err != nil {
				t.Errorf("ValidateRubric: %v", err)
			}
		})
	}

	if _, err := parseBank([]byte("{not json"), ".json"); err == nil {
		t.Error("expected parse error")
	}
}
