package config

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/job-matcher/internal/models"
)

// InitDatabase opens the process-wide connection pool. The returned handle is
// safe for concurrent use and must be released with CloseDatabase.
func InitDatabase(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	logLevel := logger.Silent
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connected", zap.String("database", cfg.Database.DBName))

	if err := Migrate(db, cfg.Collections); err != nil {
		return nil, err
	}

	log.Info("database migration completed",
		zap.String("users", cfg.Collections.Users),
		zap.String("job_offers", cfg.Collections.JobOffers),
		zap.String("job_sources", cfg.Collections.JobSources),
	)

	return db, nil
}

// Migrate creates or updates the three record tables under their configured names.
func Migrate(db *gorm.DB, collections CollectionsConfig) error {
	tables := []struct {
		name  string
		model interface{}
	}{
		{collections.Users, &models.User{}},
		{collections.JobOffers, &models.JobOffer{}},
		{collections.JobSources, &models.JobSource{}},
	}

	for _, t := range tables {
		if err := db.Table(t.name).AutoMigrate(t.model); err != nil {
			return fmt.Errorf("failed to migrate table %s: %w", t.name, err)
		}
	}

	return nil
}

func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
