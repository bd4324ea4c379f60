package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	errorvalues "github.com/streakhq/streakboard/internal/error_values"
	"github.com/streakhq/streakboard/internal/service"
	"github.com/streakhq/streakboard/pkg/entity"
	"github.com/streakhq/streakboard/pkg/streak"
)

type boardsCacheMock struct {
	stored  string
	sets    int
	deletes int
	failing bool
}

func (bcmock *boardsCacheMock) Get(ctx context.Context, key string) (string, error) {
	if bcmock.failing {
		return "", errors.New("cache down")
	}
	if bcmock.stored == "" {
		return "", errorvalues.ErrCacheMiss
	}
	return bcmock.stored, nil
}

func (bcmock *boardsCacheMock) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	if bcmock.failing {
		return errors.New("cache down")
	}
	bcmock.stored = val
	bcmock.sets++
	return nil
}

func (bcmock *boardsCacheMock) Del(ctx context.Context, key string) error {
	if bcmock.failing {
		return errors.New("cache down")
	}
	bcmock.stored = ""
	bcmock.deletes++
	return nil
}

func TestBoards(t *testing.T) {
	now := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	rec := entity.UserRecord{
		UID:      uid,
		Username: username,
		Tasks: []entity.Task{
			{ID: 1, Name: "read", History: []string{"2024-01-29", "2024-01-30"}},
		},
	}
	t.Run("cache miss recomputes and stores", func(t *testing.T) {
		cache := &boardsCacheMock{}
		serv := service.NewLeaderboardService(&recordsRepoMock{rec: rec}, cache, time.Minute)
		boards, err := serv.Boards(context.Background(), now)
		assert.NoError(t, err)
		assert.Equal(t, 1, cache.sets)
		assert.Equal(t, 2, boards[streak.AllTime][0].Count)
		assert.Equal(t, username, boards[streak.AllTime][0].Username)
	})
	t.Run("cache hit skips recomputation", func(t *testing.T) {
		cached := map[streak.Window][]entity.LeaderboardRow{
			streak.AllTime: {{Position: 1, Username: "cached_user", Count: 42}},
		}
		raw, err := sonic.MarshalString(cached)
		assert.NoError(t, err)
		cache := &boardsCacheMock{stored: raw}
		serv := service.NewLeaderboardService(&recordsRepoMock{state: stateDBError}, cache, time.Minute)
		boards, err := serv.Boards(context.Background(), now)
		assert.NoError(t, err)
		assert.Equal(t, "cached_user", boards[streak.AllTime][0].Username)
	})
	t.Run("cache failure degrades to recomputation", func(t *testing.T) {
		serv := service.NewLeaderboardService(&recordsRepoMock{rec: rec}, &boardsCacheMock{failing: true}, time.Minute)
		boards, err := serv.Boards(context.Background(), now)
		assert.NoError(t, err)
		assert.Equal(t, 2, boards[streak.AllTime][0].Count)
	})
	t.Run("works without a cache", func(t *testing.T) {
		serv := service.NewLeaderboardService(&recordsRepoMock{rec: rec}, nil, time.Minute)
		boards, err := serv.Boards(context.Background(), now)
		assert.NoError(t, err)
		assert.Len(t, boards, len(streak.Windows))
	})
	t.Run("repository error", func(t *testing.T) {
		serv := service.NewLeaderboardService(&recordsRepoMock{state: stateDBError}, nil, time.Minute)
		_, err := serv.Boards(context.Background(), now)
		assert.Error(t, err)
	})
}

func TestInvalidate(t *testing.T) {
	t.Run("drops the cached boards", func(t *testing.T) {
		cache := &boardsCacheMock{stored: "stale"}
		serv := service.NewLeaderboardService(&recordsRepoMock{}, cache, time.Minute)
		serv.Invalidate(context.Background())
		assert.Equal(t, 1, cache.deletes)
		assert.Empty(t, cache.stored)
	})
	t.Run("no-op without a cache", func(t *testing.T) {
		serv := service.NewLeaderboardService(&recordsRepoMock{}, nil, time.Minute)
		assert.NotPanics(t, func() { serv.Invalidate(context.Background()) })
	})
}
