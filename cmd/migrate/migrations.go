package main

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/artisanhub/server/internal/models"
)

type migration struct {
	name string
	run  func(db *gorm.DB) error
}

// Migrations run in order and must be safe to re-apply.
var migrations = []migration{
	{
		name: "enable_pgcrypto",
		run: func(db *gorm.DB) error {
			return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
		},
	},
	{
		name: "auto_migrate_models",
		run: func(db *gorm.DB) error {
			return db.AutoMigrate(
				&models.User{},
				&models.Artisan{},
				&models.Rating{},
			)
		},
	},
	{
		name: "artisans_specialty_gin_index",
		run: func(db *gorm.DB) error {
			// Supports the jsonb containment filter in artisan listing.
			return db.Exec(`CREATE INDEX IF NOT EXISTS idx_artisans_specialty
				ON artisans USING GIN (specialty)`).Error
		},
	},
	{
		name: "ratings_artisan_score_index",
		run: func(db *gorm.DB) error {
			// Partial index covering the aggregate query over scored ratings.
			return db.Exec(`CREATE INDEX IF NOT EXISTS idx_ratings_artisan_score
				ON ratings (artisan_id) WHERE score IS NOT NULL`).Error
		},
	},
}

func migrationNames() []string {
	names := make([]string, 0, len(migrations))
	for _, m := range migrations {
		names = append(names, m.name)
	}
	return names
}

func runMigrations(db *gorm.DB, log *zap.Logger) error {
	for _, m := range migrations {
		log.Info("applying migration", zap.String("name", m.name))
		if err := m.run(db); err != nil {
			return fmt.Errorf("migration %s: %w", m.name, err)
		}
	}
	return nil
}
