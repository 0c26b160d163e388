package model

import (
	"strings"
	"time"
)

// Difficulty is the level of a question in the bank
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultyLevels is the ordered ladder used for difficulty adjustment
var DifficultyLevels = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty maps user input onto a known difficulty
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy, true
	case DifficultyMedium:
		return DifficultyMedium, true
	case DifficultyHard:
		return DifficultyHard, true
	}
	return "", false
}

// Rubric is the raw grading guidance attached to a question
type Rubric struct {
	MustHave   []string `json:"mustHave" bson:"mustHave"`
	GoodToHave []string `json:"goodToHave" bson:"goodToHave"`
	RedFlags   []string `json:"redFlags" bson:"redFlags"`
}

// Question is a bank entry (base question)
type Question struct {
	ID         string     `json:"id" bson:"_id,omitempty"`
	Domain     string     `json:"domain" bson:"domain"` // e.g. "backend", "frontend"
	Topic      string     `json:"topic" bson:"topic"`   // e.g. "databases", "concurrency"
	Difficulty Difficulty `json:"difficulty" bson:"difficulty"`
	Prompt     string     `json:"prompt" bson:"prompt"`
	Rubric     Rubric     `json:"rubric" bson:"rubric"`
	Active     bool       `json:"active" bson:"active"`
	CreatedAt  time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// FollowUp is a secondary question derived from a base question.
// It is scored against the parent's rubric and never enters AskedQuestionIDs.
type FollowUp struct {
	ID          string   `json:"id"`
	ParentID    string   `json:"parentId"`
	Prompt      string   `json:"prompt"`
	FocusPoints []string `json:"focusPoints,omitempty"`
	Depth       int      `json:"depth"`
}

// QuestionFilter narrows bank listings
type QuestionFilter struct {
	Domain     string
	Topic      string
	Difficulty Difficulty
	ActiveOnly bool
}

// SelectionCriteria is what the session asks the question selector for
type SelectionCriteria struct {
	UserID     string     `json:"userId"`
	Domain     string     `json:"domain"`
	Topic      string     `json:"topic,omitempty"` // empty lets the selector choose
	Difficulty Difficulty `json:"difficulty"`
	ExcludeIDs []string   `json:"excludeIds"`

	// RecentTopics is ordered oldest first; AvoidTopic is the topic just left on a switch
	RecentTopics []string `json:"recentTopics,omitempty"`
	AvoidTopic   string   `json:"avoidTopic,omitempty"`
}

// QuestionView is what clients see for the question currently being asked
type QuestionView struct {
	ID          string     `json:"id"`
	ParentID    string     `json:"parentId,omitempty"`
	IsFollowUp  bool       `json:"isFollowUp"`
	Topic       string     `json:"topic"`
	Difficulty  Difficulty `json:"difficulty"`
	Prompt      string     `json:"prompt"`
	FocusPoints []string   `json:"focusPoints,omitempty"`
}
