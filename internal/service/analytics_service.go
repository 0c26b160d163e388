package service

import (
	"context"
	"interviewcoach/internal/cache"
	"interviewcoach/internal/model"
	"math"
	"time"
)

// MasteryAlpha is the weight of the newest score in the topic mastery EMA
const MasteryAlpha = 0.3

// AnalyticsService maintains per-user topic mastery
type AnalyticsService struct {
	analyticsCache cache.AnalyticsCache
	now            func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(analyticsCache cache.AnalyticsCache) *AnalyticsService {
	return &AnalyticsService{
		analyticsCache: analyticsCache,
		now:            time.Now,
	}
}

// RecordScore folds an answer score into the user's topic mastery
func (s *AnalyticsService) RecordScore(ctx context.Context, userID, topic string, score float64) (*model.TopicMastery, error) {
	mastery, err := s.analyticsCache.GetMastery(ctx, userID, topic)
	if err != nil {
		return nil, err
	}
	if mastery == nil {
		mastery = &model.TopicMastery{
			UserID: userID,
			Topic:  topic,
		}
	}

	mastery.Attempts++
	if mastery.Attempts == 1 {
		mastery.Score = score
	} else {
		// Exponential moving average
		mastery.Score = (1-MasteryAlpha)*mastery.Score + MasteryAlpha*score
	}
	mastery.Score = math.Round(mastery.Score*100) / 100
	mastery.BestScore = math.Max(mastery.BestScore, score)
	mastery.LastSeen = s.now().UTC()

	if err := s.analyticsCache.SetMastery(ctx, mastery); err != nil {
		return nil, err
	}
	return mastery, nil
}

// Mastery returns every topic mastery of a user, sorted by topic
func (s *AnalyticsService) Mastery(ctx context.Context, userID string) ([]model.TopicMastery, error) {
	return s.analyticsCache.ListMastery(ctx, userID)
}

// TopicScores returns mastery scores keyed by topic
func (s *AnalyticsService) TopicScores(ctx context.Context, userID string) (map[string]float64, error) {
	list, err := s.analyticsCache.ListMastery(ctx, userID)
	if err != nil {
		return nil, err
	}
	scores := make(map[string]float64, len(list))
	for _, m := range list {
		scores[m.Topic] = m.Score
	}
	return scores, nil
}
