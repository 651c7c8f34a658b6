package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/agoraforum/agora/internal/badge"
	"github.com/agoraforum/agora/internal/db"
	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/pkg/config"
	"github.com/agoraforum/agora/pkg/logging"
)

// migrate creates or updates the schema and seeds the badge catalogue.
// It is idempotent and safe to run on every deploy.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Agora schema migration")

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := database.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		logger.Fatal("Schema migration failed", zap.Error(err))
	}
	logger.Info("Schema migrated")

	badgeStore := db.NewBadgeStore(db.NewRepository(database.DB))
	if err := badgeStore.Seed(ctx, badge.DefaultBadges()); err != nil {
		logger.Fatal("Badge seeding failed", zap.Error(err))
	}
	logger.Info("Badge catalogue seeded")

	logger.Info("Migration complete")
}
