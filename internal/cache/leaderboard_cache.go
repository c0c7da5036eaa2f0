package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"studyhub/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

const globalXPKey = "lb:xp"

// LeaderboardCache keeps per-notebook leaderboard snapshots and the global
// XP ranking.
//
// Snapshots are stored per generation. InvalidateNotebook bumps the
// generation, so a snapshot built from reads that began before an
// invalidation is written under the old generation and never served.
type LeaderboardCache interface {
	NotebookGeneration(ctx context.Context, notebookID string) (int64, error)
	GetNotebook(ctx context.Context, notebookID string, gen int64) ([]model.LeaderboardEntry, error)
	SetNotebook(ctx context.Context, notebookID string, gen int64, entries []model.LeaderboardEntry) error
	InvalidateNotebook(ctx context.Context, notebookID string) error

	UpdateXP(ctx context.Context, userID string, xp int) error
	GetTop(ctx context.Context, limit int) ([]model.XPEntry, error)
	GetRank(ctx context.Context, userID string) (int64, error)
}

type leaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) LeaderboardCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &leaderboardCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *leaderboardCache) notebookKey(notebookID string, gen int64) string {
	return fmt.Sprintf("nb:%s:lb:%d", notebookID, gen)
}

func (c *leaderboardCache) generationKey(notebookID string) string {
	return fmt.Sprintf("nb:%s:lb:gen", notebookID)
}

func (c *leaderboardCache) NotebookGeneration(ctx context.Context, notebookID string) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(notebookID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (c *leaderboardCache) GetNotebook(ctx context.Context, notebookID string, gen int64) ([]model.LeaderboardEntry, error) {
	data, err := c.client.Get(ctx, c.notebookKey(notebookID, gen)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []model.LeaderboardEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *leaderboardCache) SetNotebook(ctx context.Context, notebookID string, gen int64, entries []model.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.notebookKey(notebookID, gen), data, c.ttl).Err()
}

func (c *leaderboardCache) InvalidateNotebook(ctx context.Context, notebookID string) error {
	return c.client.Incr(ctx, c.generationKey(notebookID)).Err()
}

// UpdateXP only ever raises a score; XP never decreases, so a late write of
// an older total is ignored
func (c *leaderboardCache) UpdateXP(ctx context.Context, userID string, xp int) error {
	return c.client.ZAddArgs(ctx, globalXPKey, redis.ZAddArgs{
		GT: true,
		Members: []redis.Z{{
			Score:  float64(xp),
			Member: userID,
		}},
	}).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, limit int) ([]model.XPEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, globalXPKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.XPEntry, len(results))
	for i, z := range results {
		member, _ := z.Member.(string)
		entries[i] = model.XPEntry{
			UserID: member,
			XP:     int(z.Score),
			Rank:   i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, userID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, globalXPKey, userID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}
