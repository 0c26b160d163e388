package service

import (
	"context"
	"errors"
	"fmt"
	"interviewcoach/internal/evaluation"
	"interviewcoach/internal/model"
	"interviewcoach/internal/repository"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MasteryReader exposes per-topic mastery for question selection
type MasteryReader interface {
	TopicScores(ctx context.Context, userID string) (map[string]float64, error)
}

// QuestionService manages the question bank and picks questions for sessions
type QuestionService struct {
	repo    repository.QuestionRepo
	mastery MasteryReader
	logger  *zap.Logger
}

// NewQuestionService creates a new question service. mastery may be nil.
func NewQuestionService(repo repository.QuestionRepo, mastery MasteryReader, logger *zap.Logger) *QuestionService {
	return &QuestionService{
		repo:    repo,
		mastery: mastery,
		logger:  logger,
	}
}

// Create validates and stores a new bank question
func (s *QuestionService) Create(ctx context.Context, q *model.Question) (*model.Question, error) {
	if err := normalizeQuestion(q); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Get returns a question by ID
func (s *QuestionService) Get(ctx context.Context, id string) (*model.Question, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

// Update replaces a question after validating it
func (s *QuestionService) Update(ctx context.Context, id string, q *model.Question) (*model.Question, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	q.ID = existing.ID
	q.CreatedAt = existing.CreatedAt
	if err := normalizeQuestion(q); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, q); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

// Delete removes a question from the bank
func (s *QuestionService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrQuestionNotFound
	}
	return nil
}

// List returns bank questions matching the filter
func (s *QuestionService) List(ctx context.Context, filter model.QuestionFilter) ([]*model.Question, error) {
	return s.repo.List(ctx, filter)
}

func normalizeQuestion(q *model.Question) error {
	q.Domain = strings.ToLower(strings.TrimSpace(q.Domain))
	q.Topic = strings.ToLower(strings.TrimSpace(q.Topic))
	q.Prompt = strings.TrimSpace(q.Prompt)
	if q.Domain == "" || q.Topic == "" || q.Prompt == "" {
		return fmt.Errorf("%w: domain, topic and prompt are required", ErrInvalidInput)
	}
	d, ok := model.ParseDifficulty(string(q.Difficulty))
	if !ok {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, q.Difficulty)
	}
	q.Difficulty = d
	return evaluation.ValidateRubric(q.Rubric)
}

// SelectNext picks the next base question for a session. The requested topic
// is a preference: selection widens to any difficulty, then to other topics,
// before giving up. A nil question means the bank is exhausted.
func (s *QuestionService) SelectNext(ctx context.Context, c model.SelectionCriteria) (*model.Question, error) {
	candidates, err := s.repo.FindCandidates(ctx, c.Domain, c.ExcludeIDs)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	if c.Topic != "" {
		if q := first(candidates, func(q *model.Question) bool {
			return q.Topic == c.Topic && q.Difficulty == c.Difficulty
		}); q != nil {
			return q, nil
		}
		if q := first(candidates, func(q *model.Question) bool { return q.Topic == c.Topic }); q != nil {
			return q, nil
		}
	}

	scores := s.topicScores(ctx, c.UserID)
	stages := []func(*model.Question) bool{
		func(q *model.Question) bool { return q.Difficulty == c.Difficulty && q.Topic != c.AvoidTopic },
		func(q *model.Question) bool { return q.Topic != c.AvoidTopic },
		func(*model.Question) bool { return true },
	}
	for _, keep := range stages {
		if q := weakest(candidates, keep, scores, c.RecentTopics); q != nil {
			return q, nil
		}
	}
	return nil, nil
}

func (s *QuestionService) topicScores(ctx context.Context, userID string) map[string]float64 {
	if s.mastery == nil || userID == "" {
		return nil
	}
	scores, err := s.mastery.TopicScores(ctx, userID)
	if err != nil {
		s.logger.Warn("topic mastery unavailable, selecting without it", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	return scores
}

func first(candidates []*model.Question, keep func(*model.Question) bool) *model.Question {
	for _, q := range candidates {
		if keep(q) {
			return q
		}
	}
	return nil
}

// weakest prefers the topic with the lowest mastery, then the topic asked
// least recently in the session, then bank order. Unseen topics have mastery 0.
func weakest(candidates []*model.Question, keep func(*model.Question) bool, scores map[string]float64, recent []string) *model.Question {
	lastAsked := make(map[string]int, len(recent))
	for i, t := range recent {
		lastAsked[t] = i
	}
	recency := func(topic string) int {
		if i, ok := lastAsked[topic]; ok {
			return i
		}
		return -1
	}

	var best *model.Question
	for _, q := range candidates {
		if !keep(q) {
			continue
		}
		if best == nil {
			best = q
			continue
		}
		qs, bs := scores[q.Topic], scores[best.Topic]
		if qs < bs || (qs == bs && recency(q.Topic) < recency(best.Topic)) {
			best = q
		}
	}
	return best
}
