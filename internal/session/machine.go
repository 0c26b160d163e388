// Package session owns the interview state and the transition applied after
// every answer.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"interviewcoach/internal/model"
	"interviewcoach/internal/policy"
)

var (
	ErrInvalidState        = errors.New("session is not accepting answers")
	ErrNoCandidateQuestion = errors.New("no candidate question")
)

// LowScoreThreshold is the score under which an answer counts as low
const LowScoreThreshold = 4.0

// Selector picks the next base question. A nil question means none is left.
type Selector interface {
	SelectNext(ctx context.Context, criteria model.SelectionCriteria) (*model.Question, error)
}

// FollowUpComposer writes the prompt of a follow-up question
type FollowUpComposer interface {
	ComposeFollowUp(ctx context.Context, parent *model.Question, focus []string) (string, error)
}

// Outcome is what the state machine needs from an evaluated answer
type Outcome struct {
	Score             float64
	MissingCorePoints []string
	WrongClaims       []string
}

// Transition describes the move applied to a session
type Transition struct {
	Decision model.PolicyDecision `json:"decision"`
	Question *model.QuestionView  `json:"question,omitempty"`
	Ended    bool                 `json:"ended"`
}

// Machine applies policy decisions to session state
type Machine struct {
	selector Selector
	composer FollowUpComposer
	logger   *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewMachine creates a state machine. composer may be nil.
func NewMachine(selector Selector, composer FollowUpComposer, logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{
		selector: selector,
		composer: composer,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Start creates a session and picks its first question. Nothing is returned
// when the bank has no question for the request.
func (m *Machine) Start(ctx context.Context, userID, domain, topic string, difficulty model.Difficulty) (*model.SessionState, error) {
	now := m.now()
	state := &model.SessionState{
		ID:                m.newID(),
		UserID:            userID,
		Domain:            domain,
		Status:            model.SessionActive,
		CurrentDifficulty: difficulty,
		CurrentTopic:      topic,
		RecentScores:      []model.ScoreEntry{},
		AskedQuestionIDs:  []string{},
		AskedTopics:       []string{},
		FollowUps:         []model.FollowUp{},
		StartedAt:         now,
		UpdatedAt:         now,
	}

	q, err := m.selector.SelectNext(ctx, m.criteria(state, ""))
	if err != nil {
		return nil, fmt.Errorf("select first question: %w", err)
	}
	if q == nil {
		return nil, ErrNoCandidateQuestion
	}
	m.ask(state, q)
	return state, nil
}

// Advance records the outcome of the current question and moves the session on.
// state is updated only when the whole transition succeeds.
func (m *Machine) Advance(ctx context.Context, state *model.SessionState, out Outcome) (*Transition, error) {
	if state.IsTerminal() || state.CurrentQuestion == nil {
		return nil, ErrInvalidState
	}
	next := state.Clone()

	next.RecentScores = append([]model.ScoreEntry{{Topic: next.CurrentQuestion.Topic, Score: out.Score}}, next.RecentScores...)
	if len(next.RecentScores) > model.MaxRecentScores {
		next.RecentScores = next.RecentScores[:model.MaxRecentScores]
	}
	if out.Score < LowScoreThreshold {
		next.ConsecutiveLowScoreCount++
	} else {
		next.ConsecutiveLowScoreCount = 0
	}
	next.QuestionNumber++

	decision := policy.Decide(policy.Input{
		LastScore:                out.Score,
		FollowUpDepth:            next.FollowUpDepth,
		ConsecutiveLowScoreCount: next.ConsecutiveLowScoreCount,
		QuestionsAsked:           next.QuestionNumber,
		MissingCorePoints:        out.MissingCorePoints,
		WrongClaims:              out.WrongClaims,
	})

	switch decision.Action {
	case model.ActionEndSession:
		m.finish(next, model.SessionCompleted)

	case model.ActionFollowUp:
		next.FollowUpDepth++
		fu := model.FollowUp{
			ID:          m.newID(),
			ParentID:    next.CurrentQuestion.ID,
			Prompt:      m.followUpPrompt(ctx, next.CurrentQuestion, decision.FocusPoints),
			FocusPoints: decision.FocusPoints,
			Depth:       next.FollowUpDepth,
		}
		next.CurrentFollowUp = &fu
		next.FollowUps = append(next.FollowUps, fu)

	default:
		avoid := ""
		switch decision.Action {
		case model.ActionIncreaseDifficulty, model.ActionDecreaseDifficulty:
			next.CurrentDifficulty = policy.AdjustDifficulty(next.CurrentDifficulty, decision.Action)
		case model.ActionSwitchTopic:
			avoid = next.CurrentTopic
			next.CurrentTopic = ""
			next.ConsecutiveLowScoreCount = 0
		}
		next.FollowUpDepth = 0

		q, err := m.selector.SelectNext(ctx, m.criteria(next, avoid))
		if err != nil {
			return nil, fmt.Errorf("select next question: %w", err)
		}
		if q == nil {
			m.logger.Info("question bank exhausted, ending session", zap.String("session_id", next.ID))
			decision = model.PolicyDecision{Action: model.ActionEndSession, Reason: policy.ReasonNoQuestions}
			m.finish(next, model.SessionCompleted)
		} else {
			m.ask(next, q)
		}
	}

	next.LastPolicyDecision = &decision
	next.UpdatedAt = m.now()
	*state = *next

	return &Transition{
		Decision: decision,
		Question: state.CurrentView(),
		Ended:    state.IsTerminal(),
	}, nil
}

// End completes an active session on request
func (m *Machine) End(state *model.SessionState) (*Transition, error) {
	return m.stop(state, model.SessionCompleted, policy.ReasonUserEnded)
}

// Abandon marks an active session as abandoned
func (m *Machine) Abandon(state *model.SessionState) (*Transition, error) {
	return m.stop(state, model.SessionAbandoned, policy.ReasonUserAbandoned)
}

func (m *Machine) stop(state *model.SessionState, status model.SessionStatus, reason string) (*Transition, error) {
	if state.IsTerminal() {
		return nil, ErrInvalidState
	}
	decision := model.PolicyDecision{Action: model.ActionEndSession, Reason: reason}
	m.finish(state, status)
	state.LastPolicyDecision = &decision
	state.UpdatedAt = m.now()
	return &Transition{Decision: decision, Ended: true}, nil
}

func (m *Machine) criteria(state *model.SessionState, avoid string) model.SelectionCriteria {
	return model.SelectionCriteria{
		UserID:       state.UserID,
		Domain:       state.Domain,
		Topic:        state.CurrentTopic,
		Difficulty:   state.CurrentDifficulty,
		ExcludeIDs:   append([]string(nil), state.AskedQuestionIDs...),
		RecentTopics: append([]string(nil), state.AskedTopics...),
		AvoidTopic:   avoid,
	}
}

// ask makes q the current base question
func (m *Machine) ask(state *model.SessionState, q *model.Question) {
	state.CurrentQuestion = q
	state.CurrentFollowUp = nil
	state.CurrentTopic = q.Topic
	state.AskedQuestionIDs = append(state.AskedQuestionIDs, q.ID)
	state.AskedTopics = append(state.AskedTopics, q.Topic)
}

func (m *Machine) finish(state *model.SessionState, status model.SessionStatus) {
	now := m.now()
	state.Status = status
	state.EndedAt = &now
	state.CurrentFollowUp = nil
}

func (m *Machine) followUpPrompt(ctx context.Context, parent *model.Question, focus []string) string {
	if m.composer != nil {
		prompt, err := m.composer.ComposeFollowUp(ctx, parent, focus)
		if err == nil && strings.TrimSpace(prompt) != "" {
			return prompt
		}
		if err != nil {
			m.logger.Warn("follow-up composer failed, using template", zap.Error(err))
		}
	}
	return TemplateFollowUp(parent, focus)
}

// TemplateFollowUp is the deterministic follow-up prompt
func TemplateFollowUp(parent *model.Question, focus []string) string {
	if len(focus) == 0 {
		return fmt.Sprintf("Let's stay on %s for a moment. Could you clarify your previous answer and walk through your reasoning step by step?", topicLabel(parent))
	}
	return fmt.Sprintf("Let's go deeper on your previous answer about %s. Can you expand on the following: %s?", topicLabel(parent), strings.Join(focus, "; "))
}

func topicLabel(q *model.Question) string {
	if q == nil || q.Topic == "" {
		return "this question"
	}
	return q.Topic
}
