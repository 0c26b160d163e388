package service

import (
	"context"
	"slices"
	"sort"
	"sync"

	"interviewcoach/internal/model"
	"interviewcoach/internal/repository"
)

type fakeQuestionRepo struct {
	questions []*model.Question
}

func (f *fakeQuestionRepo) Create(_ context.Context, q *model.Question) error {
	if q.ID == "" {
		q.ID = "generated"
	}
	f.questions = append(f.questions, q)
	return nil
}

func (f *fakeQuestionRepo) GetByID(_ context.Context, id string) (*model.Question, error) {
	for _, q := range f.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, nil
}

func (f *fakeQuestionRepo) Update(_ context.Context, q *model.Question) error {
	for i, existing := range f.questions {
		if existing.ID == q.ID {
			f.questions[i] = q
			return nil
		}
	}
	return nil
}

func (f *fakeQuestionRepo) Delete(_ context.Context, id string) (bool, error) {
	for i, q := range f.questions {
		if q.ID == id {
			f.questions = append(f.questions[:i], f.questions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeQuestionRepo) List(_ context.Context, filter model.QuestionFilter) ([]*model.Question, error) {
	var out []*model.Question
	for _, q := range f.questions {
		if filter.Domain != "" && q.Domain != filter.Domain {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (f *fakeQuestionRepo) FindCandidates(_ context.Context, domain string, exclude []string) ([]*model.Question, error) {
	var out []*model.Question
	for _, q := range f.questions {
		if q.Domain == domain && q.Active && !slices.Contains(exclude, q.ID) {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.SessionState
	saves    int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*model.SessionState)}
}

func (f *fakeSessionRepo) Save(_ context.Context, state *model.SessionState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[state.ID] = state.Clone()
	f.saves++
	return nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id string) (*model.SessionState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[id]; ok {
		return s.Clone(), nil
	}
	return nil, nil
}

func (f *fakeSessionRepo) ListByUser(_ context.Context, userID string, _ int64) ([]*model.SessionState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.SessionState
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

type fakeSessionCache struct {
	states map[string]*model.SessionState
	err    error
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{states: make(map[string]*model.SessionState)}
}

func (f *fakeSessionCache) Set(_ context.Context, state *model.SessionState) error {
	if f.err != nil {
		return f.err
	}
	f.states[state.ID] = state.Clone()
	return nil
}

func (f *fakeSessionCache) Get(_ context.Context, id string) (*model.SessionState, error) {
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.states[id]; ok {
		return s.Clone(), nil
	}
	return nil, nil
}

func (f *fakeSessionCache) Delete(_ context.Context, id string) error {
	delete(f.states, id)
	return f.err
}

type fakeEvaluationRepo struct {
	records []*model.EvaluationRecord
}

func (f *fakeEvaluationRepo) Create(_ context.Context, r *model.EvaluationRecord) error {
	f.records = append(f.records, r)
	return nil
}

func (f *fakeEvaluationRepo) ListBySession(_ context.Context, sessionID string) ([]*model.EvaluationRecord, error) {
	var out []*model.EvaluationRecord
	for _, r := range f.records {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeEvaluationRepo) ListByUser(_ context.Context, userID string, _ int64) ([]*model.EvaluationRecord, error) {
	var out []*model.EvaluationRecord
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeReportRepo struct {
	reports map[string]*model.SessionReport
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]*model.SessionReport)}
}

func (f *fakeReportRepo) Save(_ context.Context, r *model.SessionReport) error {
	f.reports[r.SessionID] = r
	return nil
}

func (f *fakeReportRepo) GetBySession(_ context.Context, sessionID string) (*model.SessionReport, error) {
	return f.reports[sessionID], nil
}

func (f *fakeReportRepo) ListByUser(_ context.Context, userID string, _ int64) ([]*model.SessionReport, error) {
	var out []*model.SessionReport
	for _, r := range f.reports {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = "user-" + u.Email
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type fakeAnalyticsCache struct {
	mastery map[string]map[string]model.TopicMastery
}

func newFakeAnalyticsCache() *fakeAnalyticsCache {
	return &fakeAnalyticsCache{mastery: make(map[string]map[string]model.TopicMastery)}
}

func (f *fakeAnalyticsCache) GetMastery(_ context.Context, userID, topic string) (*model.TopicMastery, error) {
	m, ok := f.mastery[userID][topic]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (f *fakeAnalyticsCache) ListMastery(_ context.Context, userID string) ([]model.TopicMastery, error) {
	out := []model.TopicMastery{}
	for _, m := range f.mastery[userID] {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out, nil
}

func (f *fakeAnalyticsCache) SetMastery(_ context.Context, m *model.TopicMastery) error {
	if f.mastery[m.UserID] == nil {
		f.mastery[m.UserID] = make(map[string]model.TopicMastery)
	}
	f.mastery[m.UserID][m.Topic] = *m
	return nil
}

type fakeLeaderboard struct {
	scores map[string]map[string]float64
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{scores: make(map[string]map[string]float64)}
}

func (f *fakeLeaderboard) SubmitScore(_ context.Context, domain, userID string, score float64) error {
	if f.scores[domain] == nil {
		f.scores[domain] = make(map[string]float64)
	}
	if score > f.scores[domain][userID] {
		f.scores[domain][userID] = score
	}
	return nil
}

func (f *fakeLeaderboard) GetTop(_ context.Context, domain string, limit int) ([]model.LeaderboardEntry, error) {
	var out []model.LeaderboardEntry
	for user, score := range f.scores[domain] {
		out = append(out, model.LeaderboardEntry{UserID: user, Score: score})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func (f *fakeLeaderboard) GetRank(ctx context.Context, domain, userID string) (int64, error) {
	top, _ := f.GetTop(ctx, domain, 0)
	for _, e := range top {
		if e.UserID == userID {
			return int64(e.Rank), nil
		}
	}
	return -1, nil
}

type broadcastEvent struct {
	sessionID string
	msgType   string
}

type recordingBroadcaster struct {
	events []broadcastEvent
}

func (r *recordingBroadcaster) BroadcastToSession(sessionID, msgType string, _ interface{}) {
	r.events = append(r.events, broadcastEvent{sessionID: sessionID, msgType: msgType})
}

func (r *recordingBroadcaster) types() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.msgType)
	}
	return out
}
