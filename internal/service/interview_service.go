package service

import (
	"context"
	"errors"
	"fmt"
	"interviewcoach/internal/logger"
	"interviewcoach/internal/model"
	"interviewcoach/internal/repository"
	"interviewcoach/internal/session"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	sessionListLimit = 20
	defaultLockTTL   = 30 * time.Second
)

// InterviewService runs interview sessions end to end
type InterviewService struct {
	machine     *session.Machine
	locker      session.Locker
	store       SessionStore
	sessions    repository.SessionRepo
	evaluations repository.EvaluationRepo
	evaluator   *EvaluatorService
	analytics   *AnalyticsService
	reports     *ReportService
	broadcaster Broadcaster
	logger      *zap.Logger
	now         func() time.Time

	// evaluation and the transition together stay inside the lock TTL
	evalTimeout    time.Duration
	advanceTimeout time.Duration
}

// NewInterviewService creates a new interview service
func NewInterviewService(
	machine *session.Machine,
	locker session.Locker,
	store SessionStore,
	sessions repository.SessionRepo,
	evaluations repository.EvaluationRepo,
	evaluator *EvaluatorService,
	analytics *AnalyticsService,
	reports *ReportService,
	logger *zap.Logger,
) *InterviewService {
	s := &InterviewService{
		machine:     machine,
		locker:      locker,
		store:       store,
		sessions:    sessions,
		evaluations: evaluations,
		evaluator:   evaluator,
		analytics:   analytics,
		reports:     reports,
		logger:      logger,
		now:         time.Now,
	}
	s.SetLockTTL(defaultLockTTL)
	return s
}

// SetLockTTL bounds answer processing to the session lock lifetime.
// Half of it goes to evaluation and a quarter to the transition.
func (s *InterviewService) SetLockTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.evalTimeout = ttl / 2
	s.advanceTimeout = ttl / 4
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *InterviewService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start opens a session and asks its first question
func (s *InterviewService) Start(ctx context.Context, userID string, req *model.StartSessionRequest) (*model.SessionResponse, error) {
	domain := strings.ToLower(strings.TrimSpace(req.Domain))
	if domain == "" {
		return nil, fmt.Errorf("%w: domain is required", ErrInvalidInput)
	}
	difficulty := model.DifficultyMedium
	if req.Difficulty != "" {
		d, ok := model.ParseDifficulty(req.Difficulty)
		if !ok {
			return nil, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, req.Difficulty)
		}
		difficulty = d
	}
	topic := strings.ToLower(strings.TrimSpace(req.Topic))

	state, err := s.machine.Start(ctx, userID, domain, topic, difficulty)
	if err != nil {
		if errors.Is(err, session.ErrNoCandidateQuestion) {
			return nil, ErrNoQuestions
		}
		return nil, err
	}
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("session started",
		zap.String("session_id", state.ID),
		zap.String("user_id", userID),
		zap.String("domain", domain),
		zap.String("difficulty", string(difficulty)))

	return &model.SessionResponse{Session: state.View(), Question: state.CurrentView()}, nil
}

// Get returns a session owned by userID
func (s *InterviewService) Get(ctx context.Context, userID, sessionID string) (*model.SessionResponse, error) {
	state, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return &model.SessionResponse{Session: state.View(), Question: state.CurrentView(), Done: state.IsTerminal()}, nil
}

// List returns the user's most recent sessions
func (s *InterviewService) List(ctx context.Context, userID string) ([]*model.SessionView, error) {
	states, err := s.sessions.ListByUser(ctx, userID, sessionListLimit)
	if err != nil {
		return nil, err
	}
	views := make([]*model.SessionView, 0, len(states))
	for _, state := range states {
		views = append(views, state.View())
	}
	return views, nil
}

// History returns the evaluation records of a session
func (s *InterviewService) History(ctx context.Context, userID, sessionID string) ([]*model.EvaluationRecord, error) {
	if _, err := s.load(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.evaluations.ListBySession(ctx, sessionID)
}

// SubmitAnswer evaluates the answer to the current question and advances the session
func (s *InterviewService) SubmitAnswer(ctx context.Context, userID, sessionID, answer string) (*model.SubmitAnswerResponse, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, fmt.Errorf("%w: answer is required", ErrInvalidInput)
	}

	unlock, err := s.locker.Lock(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("lock session: %w", err)
	}
	defer unlock()

	state, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	asked := state.CurrentView()
	if state.IsTerminal() || asked == nil {
		return nil, session.ErrInvalidState
	}
	base := state.CurrentQuestion

	outcome, err := s.evaluate(ctx, asked.Prompt, answer, base.Rubric)
	if err != nil {
		return nil, fmt.Errorf("evaluate answer: %w", err)
	}

	advanceCtx, cancel := context.WithTimeout(ctx, s.advanceTimeout)
	tr, err := s.machine.Advance(advanceCtx, state, session.Outcome{
		Score:             outcome.Score.FinalScore,
		MissingCorePoints: outcome.MissingCorePoints(),
		WrongClaims:       outcome.Issues(),
	})
	cancel()
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	record := &model.EvaluationRecord{
		SessionID:      state.ID,
		UserID:         state.UserID,
		QuestionID:     base.ID,
		Topic:          base.Topic,
		Difficulty:     base.Difficulty,
		QuestionNumber: state.QuestionNumber,
		Answer:         answer,
		Claims:         outcome.Claims,
		Score:          outcome.Score,
		MissingPoints:  outcome.MissingCorePoints(),
		Issues:         outcome.Issues(),
		Decision:       tr.Decision,
		Feedback:       outcome.Feedback,
		Degraded:       outcome.Degraded,
		CreatedAt:      s.now().UTC(),
	}
	if asked.IsFollowUp {
		record.FollowUpID = asked.ID
	}
	if err := s.evaluations.Create(ctx, record); err != nil {
		s.logger.Error("failed to store evaluation", zap.String("session_id", state.ID), zap.Error(err))
	}
	if _, err := s.analytics.RecordScore(ctx, state.UserID, base.Topic, outcome.Score.FinalScore); err != nil {
		s.logger.Warn("failed to update topic mastery", zap.String("user_id", state.UserID), zap.Error(err))
	}

	s.logger.Info("answer evaluated",
		zap.String("session_id", state.ID),
		zap.Int("question_number", state.QuestionNumber),
		zap.Float64("score", outcome.Score.FinalScore),
		zap.String("action", string(tr.Decision.Action)),
		zap.Bool("degraded", outcome.Degraded),
		logger.Text("answer", answer))

	resp := &model.SubmitAnswerResponse{
		SessionID:      state.ID,
		QuestionNumber: state.QuestionNumber,
		Score:          outcome.Score,
		Feedback:       outcome.Feedback,
		MissingPoints:  record.MissingPoints,
		Issues:         record.Issues,
		Decision:       tr.Decision,
		NextQuestion:   tr.Question,
		Done:           tr.Ended,
		Degraded:       outcome.Degraded,
		Claims:         outcome.Claims,
	}
	if tr.Ended {
		resp.Report = s.finish(ctx, state)
	}

	s.broadcast(state.ID, EventAnswerEvaluated, resp)
	if tr.Ended {
		s.broadcast(state.ID, EventSessionEnded, resp.Report)
	} else {
		s.broadcast(state.ID, EventNextQuestion, tr.Question)
	}
	return resp, nil
}

// evaluate runs the evaluator under evalTimeout. The evaluation stages degrade
// instead of failing when the deadline passes, so only a cancelled request
// is an error.
func (s *InterviewService) evaluate(ctx context.Context, question, answer string, rubric model.Rubric) (*model.EvaluationOutcome, error) {
	evalCtx, cancel := context.WithTimeout(ctx, s.evalTimeout)
	defer cancel()

	out, err := s.evaluator.Evaluate(evalCtx, question, answer, rubric)
	if err != nil {
		return nil, err
	}
	if errors.Is(evalCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		s.logger.Warn("answer evaluation hit its deadline, result degraded", zap.Duration("timeout", s.evalTimeout))
		out.Degraded = true
	}
	return out, nil
}

// End completes a session on the user's request
func (s *InterviewService) End(ctx context.Context, userID, sessionID string) (*model.SessionResponse, error) {
	return s.stop(ctx, userID, sessionID, s.machine.End)
}

// Abandon marks a session as abandoned
func (s *InterviewService) Abandon(ctx context.Context, userID, sessionID string) (*model.SessionResponse, error) {
	return s.stop(ctx, userID, sessionID, s.machine.Abandon)
}

func (s *InterviewService) stop(ctx context.Context, userID, sessionID string, apply func(*model.SessionState) (*session.Transition, error)) (*model.SessionResponse, error) {
	unlock, err := s.locker.Lock(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("lock session: %w", err)
	}
	defer unlock()

	state, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := apply(state); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	report := s.finish(ctx, state)
	s.broadcast(state.ID, EventSessionEnded, report)
	return &model.SessionResponse{Session: state.View(), Done: true, Report: report}, nil
}

// finish generates the report of a terminal session; failures are logged
func (s *InterviewService) finish(ctx context.Context, state *model.SessionState) *model.SessionReport {
	s.logger.Info("session ended",
		zap.String("session_id", state.ID),
		zap.String("status", string(state.Status)),
		zap.Int("questions", state.QuestionNumber))

	report, err := s.reports.Generate(ctx, state)
	if err != nil {
		s.logger.Error("failed to generate report", zap.String("session_id", state.ID), zap.Error(err))
		return nil
	}
	return report
}

func (s *InterviewService) load(ctx context.Context, userID, sessionID string) (*model.SessionState, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrSessionNotFound
	}
	if state.UserID != userID {
		return nil, ErrForbidden
	}
	return state, nil
}

func (s *InterviewService) broadcast(sessionID, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, msgType, payload)
	}
}
