package service

import (
	"context"
	"interviewcoach/internal/cache"
	"interviewcoach/internal/model"
	"interviewcoach/internal/repository"

	"go.uber.org/zap"
)

// SessionStore persists session state
type SessionStore interface {
	Save(ctx context.Context, state *model.SessionState) error
	Get(ctx context.Context, id string) (*model.SessionState, error)
}

// cachedSessionStore writes through to MongoDB and keeps active sessions in Redis
type cachedSessionStore struct {
	cache  cache.SessionCache
	repo   repository.SessionRepo
	logger *zap.Logger
}

// NewSessionStore creates a Redis-fronted MongoDB session store
func NewSessionStore(sessionCache cache.SessionCache, repo repository.SessionRepo, logger *zap.Logger) SessionStore {
	return &cachedSessionStore{
		cache:  sessionCache,
		repo:   repo,
		logger: logger,
	}
}

func (s *cachedSessionStore) Save(ctx context.Context, state *model.SessionState) error {
	if err := s.repo.Save(ctx, state); err != nil {
		return err
	}

	var err error
	if state.IsTerminal() {
		err = s.cache.Delete(ctx, state.ID)
	} else {
		err = s.cache.Set(ctx, state)
	}
	if err != nil {
		s.logger.Warn("session cache write failed", zap.String("session_id", state.ID), zap.Error(err))
	}
	return nil
}

func (s *cachedSessionStore) Get(ctx context.Context, id string) (*model.SessionState, error) {
	state, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.Warn("session cache read failed", zap.String("session_id", id), zap.Error(err))
	}
	if state != nil {
		return state, nil
	}

	state, err = s.repo.GetByID(ctx, id)
	if err != nil || state == nil {
		return nil, err
	}
	if !state.IsTerminal() {
		if err := s.cache.Set(ctx, state); err != nil {
			s.logger.Warn("session cache refill failed", zap.String("session_id", id), zap.Error(err))
		}
	}
	return state, nil
}
