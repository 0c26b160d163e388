package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"interviewcoach/internal/model"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// AnalyticsCache holds per-user topic mastery in a Redis hash
type AnalyticsCache interface {
	GetMastery(ctx context.Context, userID, topic string) (*model.TopicMastery, error)
	ListMastery(ctx context.Context, userID string) ([]model.TopicMastery, error)
	SetMastery(ctx context.Context, mastery *model.TopicMastery) error
}

type analyticsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAnalyticsCache creates a new analytics cache
func NewAnalyticsCache(client *redis.Client) AnalyticsCache {
	return &analyticsCache{
		client: client,
		ttl:    90 * 24 * time.Hour,
	}
}

func (c *analyticsCache) masteryKey(userID string) string {
	return fmt.Sprintf("user:%s:mastery", userID)
}

func (c *analyticsCache) GetMastery(ctx context.Context, userID, topic string) (*model.TopicMastery, error) {
	data, err := c.client.HGet(ctx, c.masteryKey(userID), topic).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m model.TopicMastery
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMastery returns every topic of the user sorted by topic name
func (c *analyticsCache) ListMastery(ctx context.Context, userID string) ([]model.TopicMastery, error) {
	fields, err := c.client.HGetAll(ctx, c.masteryKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.TopicMastery, 0, len(fields))
	for _, raw := range fields {
		var m model.TopicMastery
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out, nil
}

func (c *analyticsCache) SetMastery(ctx context.Context, m *model.TopicMastery) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	key := c.masteryKey(m.UserID)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, m.Topic, data)
	pipe.Expire(ctx, key, c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}
