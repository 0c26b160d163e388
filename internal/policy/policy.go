// Package policy decides the next interview move from the latest score
// and the session counters. Decide is pure: identical inputs always give
// identical decisions.
package policy

import "interviewcoach/internal/model"

const (
	MaxQuestions              = 10
	FollowUpThreshold         = 4.0
	DifficultyUpThreshold     = 7.5
	MaxFollowUpDepth          = 3
	TopicSwitchConsecutiveLow = 2
)

// Decision reasons
const (
	ReasonMaxQuestions  = "Maximum question limit reached"
	ReasonMissingCore   = "Missing core concepts or incorrect statements"
	ReasonLowScore      = "Score below threshold, clarification needed"
	ReasonTopicSwitch   = "Multiple low scores in current topic"
	ReasonIncrease      = "Excellent answer, increasing challenge"
	ReasonContinue      = "Proceeding with next question"
	ReasonNoQuestions   = "No more questions available"
	ReasonUserEnded     = "Session ended by user"
	ReasonUserAbandoned = "Session abandoned"
)

// Input is the tuple the policy decides over
type Input struct {
	LastScore                float64
	FollowUpDepth            int
	ConsecutiveLowScoreCount int
	QuestionsAsked           int
	MissingCorePoints        []string
	WrongClaims              []string
}

// Decide applies the rules in order; the first match wins
func Decide(in Input) model.PolicyDecision {
	canFollowUp := in.FollowUpDepth < MaxFollowUpDepth

	switch {
	case in.QuestionsAsked >= MaxQuestions:
		return model.PolicyDecision{Action: model.ActionEndSession, Reason: ReasonMaxQuestions}

	case (len(in.MissingCorePoints) > 0 || len(in.WrongClaims) > 0) && canFollowUp:
		focus := make([]string, 0, len(in.MissingCorePoints)+len(in.WrongClaims))
		focus = append(focus, in.MissingCorePoints...)
		focus = append(focus, in.WrongClaims...)
		return model.PolicyDecision{Action: model.ActionFollowUp, Reason: ReasonMissingCore, FocusPoints: focus}

	case in.LastScore < FollowUpThreshold && canFollowUp:
		return model.PolicyDecision{Action: model.ActionFollowUp, Reason: ReasonLowScore}

	case in.ConsecutiveLowScoreCount >= TopicSwitchConsecutiveLow:
		return model.PolicyDecision{Action: model.ActionSwitchTopic, Reason: ReasonTopicSwitch}

	case in.LastScore > DifficultyUpThreshold:
		return model.PolicyDecision{Action: model.ActionIncreaseDifficulty, Reason: ReasonIncrease}

	default:
		return model.PolicyDecision{Action: model.ActionContinue, Reason: ReasonContinue}
	}
}

// AdjustDifficulty steps one level up or down for difficulty actions.
// Any other action returns current unchanged.
func AdjustDifficulty(current model.Difficulty, action model.PolicyAction) model.Difficulty {
	idx := levelIndex(current)
	switch action {
	case model.ActionIncreaseDifficulty:
		return model.DifficultyLevels[min(idx+1, len(model.DifficultyLevels)-1)]
	case model.ActionDecreaseDifficulty:
		return model.DifficultyLevels[max(idx-1, 0)]
	default:
		return current
	}
}

// levelIndex treats unknown difficulties as medium
func levelIndex(d model.Difficulty) int {
	for i, l := range model.DifficultyLevels {
		if l == d {
			return i
		}
	}
	return 1
}
