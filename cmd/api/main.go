// @title Streakboard API
// @description API for the habit-streak tracker "Streakboard"
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/streakhq/streakboard/internal/api"
	"github.com/streakhq/streakboard/internal/repository"
	"github.com/streakhq/streakboard/internal/service"
	"github.com/streakhq/streakboard/pkg/cleanup"
	"github.com/streakhq/streakboard/pkg/config"
	jwtservice "github.com/streakhq/streakboard/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	recordsRepo := repository.NewUserRecordsRepo(&dbCfg)
	watcher := repository.NewRecordWatcher(&dbCfg, recordsRepo)

	// Leaderboard cache is optional: without REDIS_URL boards are rebuilt
	// on every request
	var cache service.BoardsCacheI
	if redisURL := cfg.GetString("REDIS_URL"); redisURL != "" {
		boardsCache, err := repository.NewBoardsCache(redisURL)
		if err != nil {
			log.Fatal("connecting to redis error: " + err.Error())
		}
		cache = boardsCache
	}

	userService := service.NewUserService(repository.NewUsersRepo(&dbCfg), recordsRepo)
	taskService := service.NewTaskService(recordsRepo)
	ttl := time.Duration(cfg.GetInt("LEADERBOARD_CACHE_TTL_SECONDS", 30)) * time.Second
	leaderboardService := service.NewLeaderboardService(recordsRepo, cache, ttl)

	// Any record change anywhere invalidates the global boards
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		err := watcher.WatchAll(ctx, func(_ uuid.UUID) {
			leaderboardService.Invalidate(ctx)
		})
		if err != nil {
			log.Println("record watcher stopped: " + err.Error())
		}
	}()

	serv := api.New(&api.ServicesList{
		UserService:        userService,
		TaskService:        taskService,
		LeaderboardService: leaderboardService,
		JwtService:         jwtservice.New(cfg.GetString("JWT_SECRET")),
		Watcher:            watcher,
	})
	err := serv.Run(cfg.GetStringOrDefault("API_ADDRESS", ":8080"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
