package service

import (
	"context"
	"interviewcoach/internal/cache"
	"interviewcoach/internal/evaluation"
	"interviewcoach/internal/model"
	"interviewcoach/internal/repository"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
)

const maxReportMissedPoints = 10

// ReportService builds session reports and feeds the leaderboard
type ReportService struct {
	reportRepo     repository.ReportRepo
	evaluationRepo repository.EvaluationRepo
	leaderboard    cache.LeaderboardCache
	logger         *zap.Logger
	now            func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	reportRepo repository.ReportRepo,
	evaluationRepo repository.EvaluationRepo,
	leaderboard cache.LeaderboardCache,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo:     reportRepo,
		evaluationRepo: evaluationRepo,
		leaderboard:    leaderboard,
		logger:         logger,
		now:            time.Now,
	}
}

// Generate builds and stores the report of a finished session
func (s *ReportService) Generate(ctx context.Context, state *model.SessionState) (*model.SessionReport, error) {
	records, err := s.evaluationRepo.ListBySession(ctx, state.ID)
	if err != nil {
		return nil, err
	}

	report := BuildReport(state, records, s.now().UTC())
	if err := s.reportRepo.Save(ctx, report); err != nil {
		return nil, err
	}

	if state.Status == model.SessionCompleted && report.QuestionsAnswered > 0 {
		if err := s.leaderboard.SubmitScore(ctx, state.Domain, state.UserID, report.AverageScore); err != nil {
			s.logger.Warn("failed to update leaderboard", zap.String("session_id", state.ID), zap.Error(err))
		}
	}
	return report, nil
}

// Get retrieves the stored report of a session
func (s *ReportService) Get(ctx context.Context, sessionID string) (*model.SessionReport, error) {
	report, err := s.reportRepo.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}

// ListByUser returns a user's most recent reports
func (s *ReportService) ListByUser(ctx context.Context, userID string, limit int64) ([]*model.SessionReport, error) {
	return s.reportRepo.ListByUser(ctx, userID, limit)
}

// Leaderboard returns the top entries of a domain
func (s *ReportService) Leaderboard(ctx context.Context, domain string, limit int) ([]model.LeaderboardEntry, error) {
	return s.leaderboard.GetTop(ctx, domain, limit)
}

// Rank returns the 1-based rank of a user in a domain, -1 when unranked
func (s *ReportService) Rank(ctx context.Context, domain, userID string) (int64, error) {
	return s.leaderboard.GetRank(ctx, domain, userID)
}

// BuildReport summarises a session from its evaluation records
func BuildReport(state *model.SessionState, records []*model.EvaluationRecord, now time.Time) *model.SessionReport {
	report := &model.SessionReport{
		SessionID:         state.ID,
		UserID:            state.UserID,
		Domain:            state.Domain,
		Status:            state.Status,
		QuestionsAnswered: len(records),
		FollowUpsAsked:    len(state.FollowUps),
		GradeCounts:       map[string]int{},
		Topics:            []model.TopicSummary{},
		MissedPoints:      []string{},
		FinalDifficulty:   state.CurrentDifficulty,
		CreatedAt:         now,
	}
	if state.LastPolicyDecision != nil {
		report.EndReason = state.LastPolicyDecision.Reason
	}
	if len(records) == 0 {
		return report
	}

	type topicTotal struct {
		sum   float64
		count int
	}
	totals := make(map[string]*topicTotal)
	seenMissed := make(map[string]bool)
	sum := 0.0

	for _, r := range records {
		score := r.Score.FinalScore
		sum += score
		report.GradeCounts[r.Score.Grade]++
		if r.Degraded {
			report.DegradedAnswers++
		}

		t, ok := totals[r.Topic]
		if !ok {
			t = &topicTotal{}
			totals[r.Topic] = t
		}
		t.sum += score
		t.count++

		for _, p := range r.MissingPoints {
			if seenMissed[p] || len(report.MissedPoints) >= maxReportMissedPoints {
				continue
			}
			seenMissed[p] = true
			report.MissedPoints = append(report.MissedPoints, p)
		}
	}

	report.AverageScore = round1(sum / float64(len(records)))
	report.OverallGrade = evaluation.Grade(report.AverageScore)

	for topic, t := range totals {
		report.Topics = append(report.Topics, model.TopicSummary{
			Topic:        topic,
			Answers:      t.count,
			AverageScore: round1(t.sum / float64(t.count)),
		})
	}
	sort.Slice(report.Topics, func(i, j int) bool { return report.Topics[i].Topic < report.Topics[j].Topic })

	strongest, weakest := report.Topics[0], report.Topics[0]
	for _, t := range report.Topics[1:] {
		if t.AverageScore > strongest.AverageScore {
			strongest = t
		}
		if t.AverageScore < weakest.AverageScore {
			weakest = t
		}
	}
	report.StrongestTopic = strongest.Topic
	report.WeakestTopic = weakest.Topic

	return report
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
