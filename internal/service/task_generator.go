package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/metrics"
	"contract-workflow-api/internal/repository"
)

// TaskGenerator materialises the catalog activities of a stage as project tasks
type TaskGenerator interface {
	// GenerateStageTasks creates the stage's catalog tasks that the project does
	// not have yet and returns the ones created by this call
	GenerateStageTasks(ctx context.Context, projectID uuid.UUID, stage domain.Stage, baseDate time.Time) ([]*domain.Task, error)
}

// taskGeneratorImpl is the implementation of TaskGenerator
type taskGeneratorImpl struct {
	taskRepo repository.TaskRepository
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewTaskGenerator creates a new instance of TaskGenerator
func NewTaskGenerator(taskRepo repository.TaskRepository, m *metrics.Metrics, logger *zap.Logger) TaskGenerator {
	return &taskGeneratorImpl{
		taskRepo: taskRepo,
		metrics:  m,
		logger:   logger,
	}
}

// BuildStageTasks returns the unsaved tasks of a stage in catalog order.
// The i-th activity is due stage offset + i days after baseDate.
func BuildStageTasks(projectID uuid.UUID, stage domain.Stage, baseDate time.Time) []*domain.Task {
	activities := domain.ActivitiesForStage(stage)
	tasks := make([]*domain.Task, 0, len(activities))
	offset := stage.OffsetDays()

	for i, a := range activities {
		tasks = append(tasks, &domain.Task{
			ProjectID:     projectID,
			Stage:         stage,
			MacroStage:    stage.Macro(),
			CatalogNumber: a.Number,
			Activity:      a.Name,
			Sector:        a.Sector,
			Title:         a.Name,
			Description:   fmt.Sprintf("Etapa: %s", stage),
			Responsible:   domain.ResponsibleForSector(a.Sector),
			DueDate:       baseDate.AddDate(0, 0, offset+i),
			Status:        domain.TaskStatusPending,
			Dependencies:  []string{},
			Critical:      a.Critical(),
		})
	}
	return tasks
}

func (g *taskGeneratorImpl) GenerateStageTasks(ctx context.Context, projectID uuid.UUID, stage domain.Stage, baseDate time.Time) ([]*domain.Task, error) {
	planned := BuildStageTasks(projectID, stage, baseDate)
	if len(planned) == 0 {
		return []*domain.Task{}, nil
	}

	existing, err := g.taskRepo.CatalogNumbersForStage(ctx, projectID, stage)
	if err != nil {
		return nil, fmt.Errorf("failed to load generated tasks: %w", err)
	}
	have := make(map[int]struct{}, len(existing))
	for _, n := range existing {
		have[n] = struct{}{}
	}

	created := make([]*domain.Task, 0, len(planned))
	for _, task := range planned {
		if _, ok := have[task.CatalogNumber]; ok {
			continue
		}
		if err := g.taskRepo.Create(ctx, task); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				g.logger.Debug("Catalog task already generated",
					zap.String("project_id", projectID.String()),
					zap.Int("catalog_number", task.CatalogNumber),
				)
				continue
			}
			g.metrics.AddTasksGenerated(len(created))
			return created, fmt.Errorf("failed to create task %d: %w", task.CatalogNumber, err)
		}
		created = append(created, task)
	}

	g.metrics.AddTasksGenerated(len(created))
	g.logger.Info("Stage tasks generated",
		zap.String("project_id", projectID.String()),
		zap.String("stage", string(stage)),
		zap.Int("created", len(created)),
		zap.Int("skipped", len(planned)-len(created)),
	)
	return created, nil
}
