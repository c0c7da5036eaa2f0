package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"studyhub/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCache holds a user's cursor and in-progress attempt per notebook
type SessionCache interface {
	Get(ctx context.Context, userID, notebookID string) (*model.SessionSnapshot, error)
	Set(ctx context.Context, snap *model.SessionSnapshot) error
	Clear(ctx context.Context, userID, notebookID string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *sessionCache) key(userID, notebookID string) string {
	return fmt.Sprintf("nb:%s:u:%s:session", notebookID, userID)
}

func (c *sessionCache) Get(ctx context.Context, userID, notebookID string) (*model.SessionSnapshot, error) {
	data, err := c.client.Get(ctx, c.key(userID, notebookID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap model.SessionSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *sessionCache) Set(ctx context.Context, snap *model.SessionSnapshot) error {
	snap.UpdatedAt = time.Now()
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(snap.UserID, snap.NotebookID), data, c.ttl).Err()
}

func (c *sessionCache) Clear(ctx context.Context, userID, notebookID string) error {
	return c.client.Del(ctx, c.key(userID, notebookID)).Err()
}
