package main

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/artisanhub/server/internal/queue/tasks"
	"github.com/artisanhub/server/internal/repository"
	"github.com/artisanhub/server/internal/services"
	"github.com/artisanhub/server/pkg/config"
	"github.com/artisanhub/server/pkg/database"
	"github.com/artisanhub/server/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting ArtisanHub worker",
		zap.String("env", cfg.AppEnv),
		zap.Int("concurrency", cfg.AsynqConcurrency),
	)

	// Fail fast on an unreachable broker instead of looping inside asynq
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancel()
		log.Fatal("Redis unreachable", zap.Error(err))
	}
	cancel()
	_ = rdb.Close()

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	userRepo := repository.NewUserRepository(db)
	artisanRepo := repository.NewArtisanRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	// The worker recomputes inline; failed recomputes surface as task retries,
	// so no enqueuer is wired here.
	reputationSvc := services.NewReputationService(ratingRepo, userRepo, artisanRepo, nil)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		},
		asynq.Config{
			Concurrency: cfg.AsynqConcurrency,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.L().Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	reconcile := tasks.NewReconcileTaskHandler(reputationSvc)
	mux.HandleFunc(tasks.TypeReconcile, reconcile.HandleReconcile)

	log.Info("worker starting", zap.String("redis", cfg.RedisAddr))
	if err := srv.Run(mux); err != nil {
		log.Fatal("worker stopped", zap.Error(err))
	}
}
