package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"interviewcoach/internal/model"
	"interviewcoach/internal/policy"
)

type fakeSelector struct {
	bank  []*model.Question
	err   error
	calls []model.SelectionCriteria
}

func (f *fakeSelector) SelectNext(_ context.Context, c model.SelectionCriteria) (*model.Question, error) {
	f.calls = append(f.calls, c)
	if f.err != nil {
		return nil, f.err
	}
	for _, q := range f.bank {
		if slices.Contains(c.ExcludeIDs, q.ID) {
			continue
		}
		if c.Topic != "" && q.Topic != c.Topic {
			continue
		}
		if c.AvoidTopic != "" && q.Topic == c.AvoidTopic {
			continue
		}
		return q, nil
	}
	return nil, nil
}

type failingComposer struct{}

func (failingComposer) ComposeFollowUp(context.Context, *model.Question, []string) (string, error) {
	return "", errors.New("llm unavailable")
}

func bank(n int, topics ...string) []*model.Question {
	out := make([]*model.Question, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &model.Question{
			ID:         fmt.Sprintf("q%d", i),
			Domain:     "backend",
			Topic:      topics[i%len(topics)],
			Difficulty: model.DifficultyMedium,
			Prompt:     fmt.Sprintf("question %d", i),
		})
	}
	return out
}

func newTestMachine(sel Selector) *Machine {
	m := NewMachine(sel, failingComposer{}, nil)
	ids := 0
	m.newID = func() string {
		ids++
		return fmt.Sprintf("id-%d", ids)
	}
	m.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return m
}

func start(t *testing.T, m *Machine, topic string) *model.SessionState {
	t.Helper()
	s, err := m.Start(context.Background(), "user-1", "backend", topic, model.DifficultyMedium)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

func TestStart(t *testing.T) {
	sel := &fakeSelector{bank: bank(3, "databases")}
	s := start(t, newTestMachine(sel), "")

	if s.Status != model.SessionActive || s.QuestionNumber != 0 || s.FollowUpDepth != 0 {
		t.Fatalf("unexpected initial state: %+v", s)
	}
	if s.CurrentQuestion == nil || s.CurrentQuestion.ID != "q0" {
		t.Fatalf("first question = %+v", s.CurrentQuestion)
	}
	if s.CurrentTopic != "databases" {
		t.Errorf("current topic = %q", s.CurrentTopic)
	}
	if !slices.Equal(s.AskedQuestionIDs, []string{"q0"}) {
		t.Errorf("asked ids = %v", s.AskedQuestionIDs)
	}

	_, err := newTestMachine(&fakeSelector{}).Start(context.Background(), "u", "backend", "", model.DifficultyEasy)
	if !errors.Is(err, ErrNoCandidateQuestion) {
		t.Fatalf("expected ErrNoCandidateQuestion, got %v", err)
	}
}

func TestAdvanceFollowUpDepthIsCapped(t *testing.T) {
	sel := &fakeSelector{bank: bank(5, "databases", "caching")}
	m := newTestMachine(sel)
	s := start(t, m, "")

	maxDepth := 0
	for i := 0; i < 8 && !s.IsTerminal(); i++ {
		tr, err := m.Advance(context.Background(), s, Outcome{Score: 1, MissingCorePoints: []string{"explains indexes"}})
		if err != nil {
			t.Fatalf("Advance %d: %v", i, err)
		}
		if s.FollowUpDepth > policy.MaxFollowUpDepth {
			t.Fatalf("follow-up depth %d exceeds cap", s.FollowUpDepth)
		}
		maxDepth = max(maxDepth, s.FollowUpDepth)
		if i < 3 && tr.Decision.Action != model.ActionFollowUp {
			t.Fatalf("answer %d: action = %s, want follow_up", i, tr.Decision.Action)
		}
	}
	if maxDepth != policy.MaxFollowUpDepth {
		t.Errorf("max depth reached = %d, want %d", maxDepth, policy.MaxFollowUpDepth)
	}
}

func TestAdvanceFollowUp(t *testing.T) {
	sel := &fakeSelector{bank: bank(3, "databases")}
	m := newTestMachine(sel)
	s := start(t, m, "")

	tr, err := m.Advance(context.Background(), s, Outcome{
		Score:             2,
		MissingCorePoints: []string{"explains B-tree"},
		WrongClaims:       []string{"indexes speed up writes"},
	})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if tr.Decision.Action != model.ActionFollowUp || tr.Ended {
		t.Fatalf("unexpected transition %+v", tr)
	}
	if s.QuestionNumber != 1 || s.FollowUpDepth != 1 || s.ConsecutiveLowScoreCount != 1 {
		t.Errorf("counters: number=%d depth=%d low=%d", s.QuestionNumber, s.FollowUpDepth, s.ConsecutiveLowScoreCount)
	}
	if !slices.Equal(s.AskedQuestionIDs, []string{"q0"}) {
		t.Errorf("follow-up must not be added to asked ids: %v", s.AskedQuestionIDs)
	}
	if len(s.FollowUps) != 1 || s.FollowUps[0].ParentID != "q0" || s.FollowUps[0].Depth != 1 {
		t.Errorf("follow-up records = %+v", s.FollowUps)
	}
	if tr.Question == nil || !tr.Question.IsFollowUp || tr.Question.ParentID != "q0" {
		t.Fatalf("next question = %+v", tr.Question)
	}
	want := TemplateFollowUp(s.CurrentQuestion, []string{"explains B-tree", "indexes speed up writes"})
	if tr.Question.Prompt != want {
		t.Errorf("prompt = %q, want %q", tr.Question.Prompt, want)
	}
	if len(sel.calls) != 1 {
		t.Errorf("follow-up must not select a new question, got %d selections", len(sel.calls))
	}
}

func TestAdvanceIncreaseDifficulty(t *testing.T) {
	sel := &fakeSelector{bank: bank(3, "databases")}
	m := newTestMachine(sel)
	s := start(t, m, "")

	tr, err := m.Advance(context.Background(), s, Outcome{Score: 8})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if tr.Decision.Action != model.ActionIncreaseDifficulty {
		t.Fatalf("action = %s", tr.Decision.Action)
	}
	if s.CurrentDifficulty != model.DifficultyHard {
		t.Errorf("difficulty = %s", s.CurrentDifficulty)
	}
	last := sel.calls[len(sel.calls)-1]
	if last.Difficulty != model.DifficultyHard || !slices.Equal(last.ExcludeIDs, []string{"q0"}) {
		t.Errorf("selection criteria = %+v", last)
	}
	if s.CurrentQuestion.ID != "q1" || s.FollowUpDepth != 0 {
		t.Errorf("current question = %s depth = %d", s.CurrentQuestion.ID, s.FollowUpDepth)
	}
	if len(s.RecentScores) != 1 || s.RecentScores[0] != (model.ScoreEntry{Topic: "databases", Score: 8}) {
		t.Errorf("recent scores = %+v", s.RecentScores)
	}
}

func TestAdvanceSwitchTopic(t *testing.T) {
	sel := &fakeSelector{bank: bank(6, "databases", "caching")}
	m := newTestMachine(sel)
	s := start(t, m, "databases")
	s.FollowUpDepth = policy.MaxFollowUpDepth
	s.ConsecutiveLowScoreCount = 1

	tr, err := m.Advance(context.Background(), s, Outcome{Score: 3})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if tr.Decision.Action != model.ActionSwitchTopic {
		t.Fatalf("action = %s", tr.Decision.Action)
	}
	last := sel.calls[len(sel.calls)-1]
	if last.Topic != "" || last.AvoidTopic != "databases" {
		t.Errorf("selection criteria = %+v", last)
	}
	if s.ConsecutiveLowScoreCount != 0 || s.FollowUpDepth != 0 {
		t.Errorf("counters not reset: low=%d depth=%d", s.ConsecutiveLowScoreCount, s.FollowUpDepth)
	}
	if s.CurrentTopic != "caching" {
		t.Errorf("current topic = %q, want caching", s.CurrentTopic)
	}
}

func TestAdvanceEndsWhenBankIsEmpty(t *testing.T) {
	sel := &fakeSelector{bank: bank(1, "databases")}
	m := newTestMachine(sel)
	s := start(t, m, "")

	tr, err := m.Advance(context.Background(), s, Outcome{Score: 6})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if tr.Decision.Action != model.ActionEndSession || tr.Decision.Reason != policy.ReasonNoQuestions {
		t.Fatalf("decision = %+v", tr.Decision)
	}
	if !tr.Ended || s.Status != model.SessionCompleted || s.EndedAt == nil {
		t.Errorf("session not completed: %+v", s)
	}
	if tr.Question != nil {
		t.Errorf("no question expected, got %+v", tr.Question)
	}
}

func TestAdvanceQuestionLimit(t *testing.T) {
	sel := &fakeSelector{bank: bank(20, "databases")}
	m := newTestMachine(sel)
	s := start(t, m, "")

	var tr *Transition
	var err error
	for i := 0; i < policy.MaxQuestions; i++ {
		tr, err = m.Advance(context.Background(), s, Outcome{Score: 6})
		if err != nil {
			t.Fatalf("Advance %d: %v", i, err)
		}
	}
	if tr.Decision.Reason != policy.ReasonMaxQuestions || !tr.Ended {
		t.Fatalf("final decision = %+v", tr.Decision)
	}
	if s.QuestionNumber != policy.MaxQuestions {
		t.Errorf("question number = %d", s.QuestionNumber)
	}
	if len(s.RecentScores) != model.MaxRecentScores {
		t.Errorf("recent scores = %d", len(s.RecentScores))
	}
}

func TestAdvanceRejectsTerminalSession(t *testing.T) {
	m := newTestMachine(&fakeSelector{bank: bank(2, "databases")})
	s := start(t, m, "")
	if _, err := m.Abandon(s); err != nil {
		t.Fatalf("Abandon: %v", err)
	}
	if s.Status != model.SessionAbandoned {
		t.Fatalf("status = %s", s.Status)
	}
	if _, err := m.Advance(context.Background(), s, Outcome{Score: 5}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if _, err := m.End(s); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on End, got %v", err)
	}
}

func TestAdvanceSelectorErrorLeavesStateUntouched(t *testing.T) {
	sel := &fakeSelector{bank: bank(2, "databases")}
	m := newTestMachine(sel)
	s := start(t, m, "")
	before := s.Clone()

	sel.err = errors.New("mongo down")
	if _, err := m.Advance(context.Background(), s, Outcome{Score: 6}); err == nil {
		t.Fatal("expected selector error")
	}
	if s.QuestionNumber != before.QuestionNumber || len(s.RecentScores) != len(before.RecentScores) {
		t.Fatalf("state mutated on failure: %+v", s)
	}
}

func TestEnd(t *testing.T) {
	m := newTestMachine(&fakeSelector{bank: bank(2, "databases")})
	s := start(t, m, "")
	tr, err := m.End(s)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if !tr.Ended || s.Status != model.SessionCompleted || s.LastPolicyDecision.Reason != policy.ReasonUserEnded {
		t.Fatalf("unexpected end state: %+v", s)
	}
	if s.CurrentView() != nil {
		t.Error("terminal session must not expose a question")
	}
}
