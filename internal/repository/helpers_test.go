package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"contract-workflow-api/internal/database"
	"contract-workflow-api/internal/domain"
)

// setupTestDB opens a migrated in-memory SQLite database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "Failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// baseTime is a fixed, second-aligned UTC instant shared by the tests
var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestTask(projectID uuid.UUID, stage domain.Stage, number int, due time.Time) *domain.Task {
	return &domain.Task{
		ProjectID:     projectID,
		Stage:         stage,
		MacroStage:    stage.Macro(),
		CatalogNumber: number,
		Title:         "Tarefa",
		Responsible:   "Marcos Letro",
		DueDate:       due,
		Status:        domain.TaskStatusPending,
	}
}
