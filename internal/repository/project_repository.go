package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"contract-workflow-api/internal/domain"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	FindAll(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	UpdateMetrics(ctx context.Context, id uuid.UUID, progress float64, risk domain.RiskLevel) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	CountByRisk(ctx context.Context) (map[domain.RiskLevel]int64, error)
}

// projectRepositoryImpl is the GORM implementation of ProjectRepository
type projectRepositoryImpl struct {
	db *gorm.DB
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

func (r *projectRepositoryImpl) Create(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepositoryImpl) FindAll(ctx context.Context) ([]*domain.Project, error) {
	var projects []*domain.Project
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepositoryImpl) Update(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// UpdateMetrics writes the derived progress and risk columns only
func (r *projectRepositoryImpl) UpdateMetrics(ctx context.Context, id uuid.UUID, progress float64, risk domain.RiskLevel) error {
	return r.db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"progress": progress,
			"risk":     risk,
		}).Error
}

func (r *projectRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Project{}).Error
}

func (r *projectRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Project{}).Count(&count).Error
	return count, err
}

// CountByRisk groups projects by risk tier
func (r *projectRepositoryImpl) CountByRisk(ctx context.Context) (map[domain.RiskLevel]int64, error) {
	var rows []struct {
		Risk  domain.RiskLevel
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&domain.Project{}).
		Select("risk, COUNT(*) AS total").
		Group("risk").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[domain.RiskLevel]int64, len(rows))
	for _, row := range rows {
		counts[row.Risk] = row.Total
	}
	return counts, nil
}
