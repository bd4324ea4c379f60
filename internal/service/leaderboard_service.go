package service

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/streakhq/streakboard/internal/error_values"
	"github.com/streakhq/streakboard/internal/repository"
	"github.com/streakhq/streakboard/pkg/entity"
	"github.com/streakhq/streakboard/pkg/streak"
)

const boardsCacheKey = "leaderboard:boards"

// LeaderboardService rebuilds the four ranked boards from every stored
// record. The aggregation itself is stateless; a cache in front of it is
// optional and best-effort: cache failures are logged and the boards are
// recomputed directly.
type LeaderboardService struct {
	records repository.UserRecordsRepositoryI
	cache   BoardsCacheI
	ttl     time.Duration
}

func NewLeaderboardService(recordsRepo repository.UserRecordsRepositoryI, cache BoardsCacheI, ttl time.Duration) *LeaderboardService {
	if recordsRepo == nil {
		log.Fatal("provided nil recordsRepo")
	}
	return &LeaderboardService{
		records: recordsRepo,
		cache:   cache,
		ttl:     ttl,
	}
}

func (ls *LeaderboardService) Boards(ctx context.Context, now time.Time) (map[streak.Window][]entity.LeaderboardRow, error) {
	if ls.cache != nil {
		raw, err := ls.cache.Get(ctx, boardsCacheKey)
		switch {
		case err == nil:
			var boards map[streak.Window][]entity.LeaderboardRow
			if err := sonic.UnmarshalString(raw, &boards); err == nil {
				return boards, nil
			}
			slog.Default().Error("cached boards are unreadable, recomputing", slog.String("error", err.Error()))
		case !errors.Is(err, errorvalues.ErrCacheMiss):
			slog.Default().Error("boards cache read failed", slog.String("error", err.Error()))
		}
	}
	records, err := ls.records.ListAll(ctx)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	boards := streak.BuildLeaderboard(records, now)
	if ls.cache != nil {
		raw, err := sonic.MarshalString(boards)
		if err == nil {
			if err := ls.cache.Set(ctx, boardsCacheKey, raw, ls.ttl); err != nil {
				slog.Default().Error("boards cache write failed", slog.String("error", err.Error()))
			}
		}
	}
	return boards, nil
}

func (ls *LeaderboardService) Invalidate(ctx context.Context) {
	if ls.cache == nil {
		return
	}
	if err := ls.cache.Del(ctx, boardsCacheKey); err != nil {
		slog.Default().Error("boards cache invalidation failed", slog.String("error", err.Error()))
	}
}
