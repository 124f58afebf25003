package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/artisanhub/server/pkg/config"
	"github.com/artisanhub/server/pkg/database"
	"github.com/artisanhub/server/pkg/logger"
)

func main() {
	var dryRun bool
	flag.BoolVar(&dryRun, "dry-run", false, "print planned migrations without applying them")
	flag.Parse()

	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if dryRun {
		for _, name := range migrationNames() {
			log.Info("planned migration", zap.String("name", name))
		}
		return
	}

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := runMigrations(db, log); err != nil {
		log.Error("migration failed", zap.Error(err))
		os.Exit(1)
	}

	log.Info("migrations applied successfully")
}
