package job

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/metrics"
)

// TaskStore is the task access the sweep needs
type TaskStore interface {
	FindOpenDueBefore(ctx context.Context, before time.Time) ([]*domain.Task, error)
	UpdateStatus(ctx context.Context, ids []uuid.UUID, status domain.TaskStatus) error
}

// NotificationLog answers whether a task was already notified
type NotificationLog interface {
	ExistsForTask(ctx context.Context, taskID uuid.UUID, notificationType domain.NotificationType) (bool, error)
}

// OverdueNotifier dispatches the overdue notification of a task
type OverdueNotifier interface {
	NotifyTaskOverdue(ctx context.Context, task *domain.Task, daysOverdue int) (string, error)
}

// MetricsRefresher recomputes a project's progress and risk
type MetricsRefresher interface {
	RefreshProjectMetrics(ctx context.Context, projectID uuid.UUID) (float64, domain.RiskLevel, error)
}

// OverdueJob sweeps open tasks past their due date. It flags them Atrasado,
// notifies each responsible party once per task and refreshes project risk.
type OverdueJob struct {
	tasks    TaskStore
	notified NotificationLog
	notifier OverdueNotifier
	projects MetricsRefresher
	metrics  *metrics.Metrics
	now      func() time.Time
	logger   *zap.Logger
}

// NewOverdueJob creates a new OverdueJob instance
func NewOverdueJob(
	tasks TaskStore,
	notified NotificationLog,
	notifier OverdueNotifier,
	projects MetricsRefresher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *OverdueJob {
	return &OverdueJob{
		tasks:    tasks,
		notified: notified,
		notifier: notifier,
		projects: projects,
		metrics:  m,
		now:      time.Now,
		logger:   logger,
	}
}

// Run executes one sweep. It satisfies cron.Job.
func (j *OverdueJob) Run() {
	ctx := context.Background()
	now := j.now()

	overdue, err := j.tasks.FindOpenDueBefore(ctx, now)
	if err != nil {
		j.logger.Error("Failed to find overdue tasks", zap.Error(err))
		return
	}
	j.metrics.SetOverdueTasks(len(overdue))

	if len(overdue) == 0 {
		j.logger.Debug("No overdue tasks found")
		return
	}

	var flag []uuid.UUID
	for _, t := range overdue {
		if t.Status != domain.TaskStatusOverdue {
			flag = append(flag, t.ID)
		}
	}
	if len(flag) > 0 {
		if err := j.tasks.UpdateStatus(ctx, flag, domain.TaskStatusOverdue); err != nil {
			j.logger.Error("Failed to flag overdue tasks", zap.Int("count", len(flag)), zap.Error(err))
		}
	}

	notified, failed := 0, 0
	projects := make(map[uuid.UUID]struct{})
	for _, t := range overdue {
		projects[t.ProjectID] = struct{}{}

		exists, err := j.notified.ExistsForTask(ctx, t.ID, domain.NotificationOverdue)
		if err != nil {
			j.logger.Warn("Failed to check overdue notification", zap.String("task_id", t.ID.String()), zap.Error(err))
			failed++
			continue
		}
		if exists {
			continue
		}
		if _, err := j.notifier.NotifyTaskOverdue(ctx, t, t.DaysOverdue(now)); err != nil {
			j.logger.Warn("Failed to notify overdue task", zap.String("task_id", t.ID.String()), zap.Error(err))
			failed++
			continue
		}
		notified++
	}

	for id := range projects {
		if _, _, err := j.projects.RefreshProjectMetrics(ctx, id); err != nil {
			j.logger.Warn("Failed to refresh project metrics", zap.String("project_id", id.String()), zap.Error(err))
		}
	}

	j.logger.Info("Overdue sweep completed",
		zap.Int("overdue", len(overdue)),
		zap.Int("flagged", len(flag)),
		zap.Int("notified", notified),
		zap.Int("failed", failed),
		zap.Int("projects", len(projects)),
	)
}
