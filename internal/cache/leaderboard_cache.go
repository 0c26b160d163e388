package cache

import (
	"context"
	"fmt"
	"interviewcoach/internal/model"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache handles Redis ZSET operations for per-domain leaderboards
type LeaderboardCache interface {
	// SubmitScore keeps the best session average per user
	SubmitScore(ctx context.Context, domain, userID string, score float64) error
	GetTop(ctx context.Context, domain string, limit int) ([]model.LeaderboardEntry, error)
	GetRank(ctx context.Context, domain, userID string) (int64, error)
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

func (c *leaderboardCache) key(domain string) string {
	return fmt.Sprintf("lb:%s", domain)
}

func (c *leaderboardCache) SubmitScore(ctx context.Context, domain, userID string, score float64) error {
	return c.client.ZAddGT(ctx, c.key(domain), redis.Z{
		Score:  score,
		Member: userID,
	}).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, domain string, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(domain), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, len(results))
	for i, z := range results {
		member, _ := z.Member.(string)
		entries[i] = model.LeaderboardEntry{
			UserID: member,
			Score:  z.Score,
			Rank:   i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, domain, userID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(domain), userID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}
