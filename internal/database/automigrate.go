package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"contract-workflow-api/internal/domain"
)

// modelInfo holds information about a domain model and its table name
type modelInfo struct {
	model     interface{}
	tableName string
}

func workflowModels() []modelInfo {
	return []modelInfo{
		{&domain.User{}, "users"},
		{&domain.Contract{}, "contracts"},
		{&domain.Project{}, "projects"},
		{&domain.Task{}, "tasks"},
		{&domain.Notification{}, "notifications"},
	}
}

// catalogTaskIndex keeps at most one generated task per catalog entry and
// project stage. Manual tasks carry catalog number 0 and are not constrained.
const catalogTaskIndex = `CREATE UNIQUE INDEX IF NOT EXISTS uq_tasks_catalog_entry
	ON tasks (project_id, stage, catalog_number) WHERE catalog_number > 0`

// AutoMigrate runs GORM auto-migration for all domain models and creates the
// indexes GORM tags cannot express
func AutoMigrate(db *gorm.DB) error {
	for _, m := range workflowModels() {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("failed to migrate table %s: %w", m.tableName, err)
		}
	}

	if err := db.Exec(catalogTaskIndex).Error; err != nil {
		return fmt.Errorf("failed to create catalog task index: %w", err)
	}

	return nil
}

// AutoMigrateWithRetry runs AutoMigrate up to maxRetries times with linear backoff
func AutoMigrateWithRetry(db *gorm.DB, logger *zap.Logger, maxRetries int) error {
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = AutoMigrate(db)
		if err == nil {
			logger.Info("Database migrations completed",
				zap.Int("attempt", attempt),
				zap.Int("tables", len(workflowModels())),
			)
			return nil
		}

		if attempt < maxRetries {
			backoff := time.Duration(attempt) * time.Second
			logger.Warn("Migration attempt failed, retrying...",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", maxRetries),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)
			time.Sleep(backoff)
		}
	}

	logger.Error("Migration failed after all retry attempts",
		zap.Int("total_attempts", maxRetries),
		zap.Error(err),
	)
	return fmt.Errorf("migration failed after %d attempts: %w", maxRetries, err)
}
