package policy

import (
	"reflect"
	"testing"

	"interviewcoach/internal/model"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		in         Input
		wantAction model.PolicyAction
		wantReason string
		wantFocus  []string
	}{
		{
			name:       "question limit beats everything",
			in:         Input{QuestionsAsked: 10, LastScore: 1, MissingCorePoints: []string{"x"}},
			wantAction: model.ActionEndSession,
			wantReason: ReasonMaxQuestions,
		},
		{
			name:       "question limit with a perfect score",
			in:         Input{QuestionsAsked: 12, LastScore: 10},
			wantAction: model.ActionEndSession,
			wantReason: ReasonMaxQuestions,
		},
		{
			name: "missing core points and wrong claims",
			in: Input{
				LastScore:         2,
				QuestionsAsked:    3,
				MissingCorePoints: []string{"explains isolation"},
				WrongClaims:       []string{"indexes make writes faster"},
			},
			wantAction: model.ActionFollowUp,
			wantReason: ReasonMissingCore,
			wantFocus:  []string{"explains isolation", "indexes make writes faster"},
		},
		{
			name:       "missing core points on a high score still follow up",
			in:         Input{LastScore: 8, MissingCorePoints: []string{"a"}},
			wantAction: model.ActionFollowUp,
			wantReason: ReasonMissingCore,
			wantFocus:  []string{"a"},
		},
		{
			name:       "low score without gaps asks for clarification",
			in:         Input{LastScore: 3.9, FollowUpDepth: 2},
			wantAction: model.ActionFollowUp,
			wantReason: ReasonLowScore,
		},
		{
			name:       "depth exhausted falls through to topic switch",
			in:         Input{LastScore: 3, FollowUpDepth: 3, ConsecutiveLowScoreCount: 2, MissingCorePoints: []string{"a"}},
			wantAction: model.ActionSwitchTopic,
			wantReason: ReasonTopicSwitch,
		},
		{
			name:       "consecutive low scores switch topic",
			in:         Input{LastScore: 3, FollowUpDepth: 3, ConsecutiveLowScoreCount: 2},
			wantAction: model.ActionSwitchTopic,
			wantReason: ReasonTopicSwitch,
		},
		{
			name:       "excellent answer increases difficulty",
			in:         Input{LastScore: 8.0},
			wantAction: model.ActionIncreaseDifficulty,
			wantReason: ReasonIncrease,
		},
		{
			name:       "threshold is strict",
			in:         Input{LastScore: 7.5},
			wantAction: model.ActionContinue,
			wantReason: ReasonContinue,
		},
		{
			name:       "score of exactly four continues",
			in:         Input{LastScore: 4},
			wantAction: model.ActionContinue,
			wantReason: ReasonContinue,
		},
		{
			name:       "low score at max depth with one low answer continues",
			in:         Input{LastScore: 2, FollowUpDepth: 3, ConsecutiveLowScoreCount: 1},
			wantAction: model.ActionContinue,
			wantReason: ReasonContinue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.in)
			if got.Action != tt.wantAction {
				t.Errorf("action = %s, want %s", got.Action, tt.wantAction)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if len(tt.wantFocus) > 0 && !reflect.DeepEqual(got.FocusPoints, tt.wantFocus) {
				t.Errorf("focus = %v, want %v", got.FocusPoints, tt.wantFocus)
			}
			if len(tt.wantFocus) == 0 && len(got.FocusPoints) != 0 {
				t.Errorf("unexpected focus points %v", got.FocusPoints)
			}
		})
	}
}

func TestDecideIsDeterministic(t *testing.T) {
	in := Input{LastScore: 5.5, FollowUpDepth: 1, ConsecutiveLowScoreCount: 1, QuestionsAsked: 4, WrongClaims: []string{"w"}}
	first := Decide(in)
	for i := 0; i < 100; i++ {
		if got := Decide(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("decision changed on call %d: %+v vs %+v", i, got, first)
		}
	}
}

func TestAdjustDifficulty(t *testing.T) {
	tests := []struct {
		current model.Difficulty
		action  model.PolicyAction
		want    model.Difficulty
	}{
		{model.DifficultyEasy, model.ActionIncreaseDifficulty, model.DifficultyMedium},
		{model.DifficultyMedium, model.ActionIncreaseDifficulty, model.DifficultyHard},
		{model.DifficultyHard, model.ActionIncreaseDifficulty, model.DifficultyHard},
		{model.DifficultyHard, model.ActionDecreaseDifficulty, model.DifficultyMedium},
		{model.DifficultyEasy, model.ActionDecreaseDifficulty, model.DifficultyEasy},
		{model.DifficultyMedium, model.ActionContinue, model.DifficultyMedium},
		{model.DifficultyHard, model.ActionSwitchTopic, model.DifficultyHard},
		{model.DifficultyEasy, model.ActionFollowUp, model.DifficultyEasy},
		{"", model.ActionIncreaseDifficulty, model.DifficultyHard},
	}
	for _, tt := range tests {
		if got := AdjustDifficulty(tt.current, tt.action); got != tt.want {
			t.Errorf("AdjustDifficulty(%q, %s) = %s, want %s", tt.current, tt.action, got, tt.want)
		}
	}
}
