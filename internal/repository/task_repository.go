package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"contract-workflow-api/internal/domain"
)

// TaskFilter narrows task listings; zero values are ignored
type TaskFilter struct {
	ProjectID   *uuid.UUID
	Stage       domain.Stage
	Status      domain.TaskStatus
	Responsible string
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Task, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error)
	FindByProjectAndStage(ctx context.Context, projectID uuid.UUID, stage domain.Stage) ([]*domain.Task, error)
	FindByProjectAndMacro(ctx context.Context, projectID uuid.UUID, macro domain.MacroStage) ([]*domain.Task, error)
	Find(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	FindOpenDueBefore(ctx context.Context, before time.Time) ([]*domain.Task, error)
	FindOpenDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error)
	FindOpen(ctx context.Context) ([]*domain.Task, error)
	CatalogNumbersForStage(ctx context.Context, projectID uuid.UUID, stage domain.Stage) ([]int, error)
	Update(ctx context.Context, task *domain.Task) error
	UpdateStatus(ctx context.Context, ids []uuid.UUID, status domain.TaskStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByProjectID(ctx context.Context, projectID uuid.UUID) error
}

// taskRepositoryImpl is the GORM implementation of TaskRepository
type taskRepositoryImpl struct {
	db *gorm.DB
}

// NewTaskRepository creates a new instance of TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepositoryImpl{db: db}
}

func (r *taskRepositoryImpl) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Task, error) {
	if len(ids) == 0 {
		return []*domain.Task{}, nil
	}

	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepositoryImpl) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	return r.Find(ctx, TaskFilter{ProjectID: &projectID})
}

func (r *taskRepositoryImpl) FindByProjectAndStage(ctx context.Context, projectID uuid.UUID, stage domain.Stage) ([]*domain.Task, error) {
	return r.Find(ctx, TaskFilter{ProjectID: &projectID, Stage: stage})
}

func (r *taskRepositoryImpl) FindByProjectAndMacro(ctx context.Context, projectID uuid.UUID, macro domain.MacroStage) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND macro_stage = ?", projectID, macro).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Find lists tasks matching the filter ordered by due date then catalog number
func (r *taskRepositoryImpl) Find(ctx context.Context, filter TaskFilter) ([]*domain.Task, error) {
	query := r.db.WithContext(ctx).Model(&domain.Task{})

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Stage != "" {
		query = query.Where("stage = ?", filter.Stage)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Responsible != "" {
		query = query.Where("responsible = ?", filter.Responsible)
	}

	var tasks []*domain.Task
	if err := query.Order("due_date ASC").Order("catalog_number ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindOpenDueBefore returns non-completed tasks whose due date has passed
func (r *taskRepositoryImpl) FindOpenDueBefore(ctx context.Context, before time.Time) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Where("status <> ? AND due_date < ?", domain.TaskStatusCompleted, before.UTC()).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindOpenDueBetween returns non-completed tasks due inside [from, to]
func (r *taskRepositoryImpl) FindOpenDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Where("status <> ? AND due_date >= ? AND due_date <= ?", domain.TaskStatusCompleted, from.UTC(), to.UTC()).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepositoryImpl) FindOpen(ctx context.Context) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Where("status <> ?", domain.TaskStatusCompleted).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CatalogNumbersForStage returns the catalog numbers already generated for a project stage
func (r *taskRepositoryImpl) CatalogNumbersForStage(ctx context.Context, projectID uuid.UUID, stage domain.Stage) ([]int, error) {
	var numbers []int
	if err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("project_id = ? AND stage = ? AND catalog_number > 0", projectID, stage).
		Pluck("catalog_number", &numbers).Error; err != nil {
		return nil, err
	}
	return numbers, nil
}

func (r *taskRepositoryImpl) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepositoryImpl) UpdateStatus(ctx context.Context, ids []uuid.UUID, status domain.TaskStatus) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id IN ?", ids).
		Update("status", status).Error
}

func (r *taskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Task{}).Error
}

func (r *taskRepositoryImpl) DeleteByProjectID(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&domain.Task{}).Error
}
