package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// constraintIndexes are the store-level guards the services rely on for
// correctness under concurrent writers. Both statements are portable between
// Postgres and SQLite.
var constraintIndexes = []string{
	// One active collection per (user, name); tombstones are exempt.
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_user_active_collection
		ON collections (user_id, name) WHERE NOT is_deleted`,
	// Tag names are unique per user ignoring case.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_tags_user_name_lower
		ON tags (user_id, lower(name))`,
}

// Migrate creates or updates every table plus the constraint indexes.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Item{}, "Tags", &models.ItemTag{}); err != nil {
		return fmt.Errorf("setup item_tags join table: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Collection{},
		&models.Tag{},
		&models.Item{},
		&models.ItemTag{},
		&models.Answer{},
		&models.PendingUpload{},
		&models.SystemLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, stmt := range constraintIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create constraint index: %w", err)
		}
	}
	return nil
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
