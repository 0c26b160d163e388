package ai

import (
	"context"

	"go.uber.org/zap"
)

// VectorCache stores embeddings by model and text
type VectorCache interface {
	Get(ctx context.Context, model, text string) ([]float32, error)
	Set(ctx context.Context, model, text string, vector []float32) error
}

// CachedEmbedder embeds text through the provider, reusing cached vectors
type CachedEmbedder struct {
	provider Provider
	cache    VectorCache
	model    string
	logger   *zap.Logger
}

func NewCachedEmbedder(provider Provider, cache VectorCache, model string, logger *zap.Logger) *CachedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbedder{provider: provider, cache: cache, model: model, logger: logger}
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.cache != nil {
		v, err := e.cache.Get(ctx, e.model, text)
		if err != nil {
			e.logger.Debug("embedding cache read failed", zap.Error(err))
		} else if v != nil {
			return v, nil
		}
	}

	v, err := e.provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, e.model, text, v); err != nil {
			e.logger.Debug("embedding cache write failed", zap.Error(err))
		}
	}
	return v, nil
}
