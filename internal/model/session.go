package model

import "time"

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionAbandoned SessionStatus = "abandoned"
)

// PolicyAction is the next interview move
type PolicyAction string

const (
	ActionContinue           PolicyAction = "continue"
	ActionFollowUp           PolicyAction = "follow_up"
	ActionIncreaseDifficulty PolicyAction = "increase_difficulty"
	ActionDecreaseDifficulty PolicyAction = "decrease_difficulty"
	ActionSwitchTopic        PolicyAction = "switch_topic"
	ActionEndSession         PolicyAction = "end_session"
)

// PolicyDecision is the PolicyEngine output
type PolicyDecision struct {
	Action      PolicyAction `json:"action" bson:"action"`
	Reason      string       `json:"reason" bson:"reason"`
	FocusPoints []string     `json:"focusPoints,omitempty" bson:"focusPoints,omitempty"`
}

// ScoreEntry is one element of the recent-score window
type ScoreEntry struct {
	Topic string  `json:"topic" bson:"topic"`
	Score float64 `json:"score" bson:"score"`
}

// MaxRecentScores bounds SessionState.RecentScores
const MaxRecentScores = 10

// SessionState is the mutable per-session state.
// Only the session state machine mutates it.
type SessionState struct {
	ID     string        `json:"id" bson:"_id"`
	UserID string        `json:"userId" bson:"userId"`
	Domain string        `json:"domain" bson:"domain"`
	Status SessionStatus `json:"status" bson:"status"`

	QuestionNumber           int          `json:"questionNumber" bson:"questionNumber"`
	CurrentDifficulty        Difficulty   `json:"currentDifficulty" bson:"currentDifficulty"`
	CurrentTopic             string       `json:"currentTopic" bson:"currentTopic"`
	FollowUpDepth            int          `json:"followUpDepth" bson:"followUpDepth"`
	RecentScores             []ScoreEntry `json:"recentScores" bson:"recentScores"` // newest first
	ConsecutiveLowScoreCount int          `json:"consecutiveLowScoreCount" bson:"consecutiveLowScoreCount"`
	AskedQuestionIDs         []string     `json:"askedQuestionIds" bson:"askedQuestionIds"`
	AskedTopics              []string     `json:"askedTopics" bson:"askedTopics"` // oldest first

	CurrentQuestion *Question  `json:"currentQuestion,omitempty" bson:"currentQuestion,omitempty"`
	CurrentFollowUp *FollowUp  `json:"currentFollowUp,omitempty" bson:"currentFollowUp,omitempty"`
	FollowUps       []FollowUp `json:"followUps" bson:"followUps"`

	LastPolicyDecision *PolicyDecision `json:"lastPolicyDecision,omitempty" bson:"lastPolicyDecision,omitempty"`

	StartedAt time.Time  `json:"startedAt" bson:"startedAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
}

// IsTerminal reports whether the session accepts no more answers
func (s *SessionState) IsTerminal() bool {
	return s.Status == SessionCompleted || s.Status == SessionAbandoned
}

// CurrentView renders the question being asked right now
func (s *SessionState) CurrentView() *QuestionView {
	if s.CurrentQuestion == nil || s.IsTerminal() {
		return nil
	}
	q := s.CurrentQuestion
	view := &QuestionView{
		ID:         q.ID,
		Topic:      q.Topic,
		Difficulty: q.Difficulty,
		Prompt:     q.Prompt,
	}
	if fu := s.CurrentFollowUp; fu != nil {
		view.ID = fu.ID
		view.ParentID = fu.ParentID
		view.IsFollowUp = true
		view.Prompt = fu.Prompt
		view.FocusPoints = fu.FocusPoints
	}
	return view
}

// Clone returns a deep copy so a transition can be applied atomically
func (s *SessionState) Clone() *SessionState {
	c := *s
	c.RecentScores = append([]ScoreEntry(nil), s.RecentScores...)
	c.AskedQuestionIDs = append([]string(nil), s.AskedQuestionIDs...)
	c.AskedTopics = append([]string(nil), s.AskedTopics...)
	c.FollowUps = append([]FollowUp(nil), s.FollowUps...)
	if s.CurrentQuestion != nil {
		q := *s.CurrentQuestion
		c.CurrentQuestion = &q
	}
	if s.CurrentFollowUp != nil {
		fu := *s.CurrentFollowUp
		c.CurrentFollowUp = &fu
	}
	if s.LastPolicyDecision != nil {
		d := *s.LastPolicyDecision
		c.LastPolicyDecision = &d
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		c.EndedAt = &t
	}
	return &c
}

// SessionView is the candidate-facing session. The bank question and its
// rubric stay on the server; the current prompt travels as a QuestionView.
type SessionView struct {
	ID     string        `json:"id"`
	UserID string        `json:"userId"`
	Domain string        `json:"domain"`
	Status SessionStatus `json:"status"`

	QuestionNumber           int          `json:"questionNumber"`
	CurrentDifficulty        Difficulty   `json:"currentDifficulty"`
	CurrentTopic             string       `json:"currentTopic"`
	FollowUpDepth            int          `json:"followUpDepth"`
	RecentScores             []ScoreEntry `json:"recentScores"`
	ConsecutiveLowScoreCount int          `json:"consecutiveLowScoreCount"`
	AskedTopics              []string     `json:"askedTopics"`
	FollowUpsAsked           int          `json:"followUpsAsked"`

	LastPolicyDecision *PolicyDecision `json:"lastPolicyDecision,omitempty"`

	StartedAt time.Time  `json:"startedAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
}

// View copies the fields a candidate may see
func (s *SessionState) View() *SessionView {
	return &SessionView{
		ID:                       s.ID,
		UserID:                   s.UserID,
		Domain:                   s.Domain,
		Status:                   s.Status,
		QuestionNumber:           s.QuestionNumber,
		CurrentDifficulty:        s.CurrentDifficulty,
		CurrentTopic:             s.CurrentTopic,
		FollowUpDepth:            s.FollowUpDepth,
		RecentScores:             append([]ScoreEntry{}, s.RecentScores...),
		ConsecutiveLowScoreCount: s.ConsecutiveLowScoreCount,
		AskedTopics:              append([]string{}, s.AskedTopics...),
		FollowUpsAsked:           len(s.FollowUps),
		LastPolicyDecision:       s.LastPolicyDecision,
		StartedAt:                s.StartedAt,
		UpdatedAt:                s.UpdatedAt,
		EndedAt:                  s.EndedAt,
	}
}
