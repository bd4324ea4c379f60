package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	errorvalues "github.com/streakhq/streakboard/internal/error_values"
	"github.com/streakhq/streakboard/pkg/cleanup"
)

// BoardsCache keeps rendered leaderboards in Redis so that the full
// cross-user aggregation is not redone on every request.
type BoardsCache struct {
	client *redis.Client
}

func NewBoardsCache(redisURL string) (*BoardsCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.New("parsing redis url error: " + err.Error())
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.New("pinging redis error: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing redis client",
		F:    client.Close,
	})
	return &BoardsCache{client: client}, nil
}

func (c *BoardsCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errorvalues.ErrCacheMiss
		}
		return "", errors.New("cache get error: " + err.Error())
	}
	return val, nil
}

func (c *BoardsCache) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, val, ttl).Err(); err != nil {
		return errors.New("cache set error: " + err.Error())
	}
	return nil
}

func (c *BoardsCache) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return errors.New("cache del error: " + err.Error())
	}
	return nil
}
