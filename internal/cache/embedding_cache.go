package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EmbeddingCache stores text embeddings keyed by model and content hash
type EmbeddingCache interface {
	Get(ctx context.Context, model, text string) ([]float32, error)
	Set(ctx context.Context, model, text string, vector []float32) error
}

type embeddingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEmbeddingCache creates a new embedding cache
func NewEmbeddingCache(client *redis.Client) EmbeddingCache {
	return &embeddingCache{
		client: client,
		ttl:    7 * 24 * time.Hour,
	}
}

func embeddingKey(model, text string) string {
	return fmt.Sprintf("emb:%s:%x", model, sha256.Sum256([]byte(text)))
}

func (c *embeddingCache) Get(ctx context.Context, model, text string) ([]float32, error) {
	data, err := c.client.Get(ctx, embeddingKey(model, text)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var vector []float32
	if err := json.Unmarshal(data, &vector); err != nil {
		return nil, err
	}
	return vector, nil
}

func (c *embeddingCache) Set(ctx context.Context, model, text string, vector []float32) error {
	data, err := json.Marshal(vector)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, embeddingKey(model, text), data, c.ttl).Err()
}
