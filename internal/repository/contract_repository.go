package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"contract-workflow-api/internal/domain"
)

// ContractRepository defines the interface for contract data access
type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) (*domain.Contract, error)
	FindAll(ctx context.Context) ([]*domain.Contract, error)
	Update(ctx context.Context, contract *domain.Contract) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContractStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[domain.ContractStatus]int64, error)
	NextNumber(ctx context.Context) (int, error)
}

// contractRepositoryImpl is the GORM implementation of ContractRepository
type contractRepositoryImpl struct {
	db *gorm.DB
}

// NewContractRepository creates a new instance of ContractRepository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepositoryImpl{db: db}
}

func (r *contractRepositoryImpl) Create(ctx context.Context, contract *domain.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *contractRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	var contract domain.Contract
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepositoryImpl) FindByProjectID(ctx context.Context, projectID uuid.UUID) (*domain.Contract, error) {
	var contract domain.Contract
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

// FindAll returns every contract, newest first
func (r *contractRepositoryImpl) FindAll(ctx context.Context) ([]*domain.Contract, error) {
	var contracts []*domain.Contract
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *contractRepositoryImpl) Update(ctx context.Context, contract *domain.Contract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

func (r *contractRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContractStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Contract{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *contractRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Contract{}).Error
}

// CountByStatus groups contracts by status
func (r *contractRepositoryImpl) CountByStatus(ctx context.Context) (map[domain.ContractStatus]int64, error) {
	var rows []struct {
		Status domain.ContractStatus
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&domain.Contract{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[domain.ContractStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// NextNumber returns the number following the highest contract number in use
func (r *contractRepositoryImpl) NextNumber(ctx context.Context) (int, error) {
	var highest int
	if err := r.db.WithContext(ctx).
		Model(&domain.Contract{}).
		Select("COALESCE(MAX(number), 0)").
		Scan(&highest).Error; err != nil {
		return 0, err
	}
	return highest + 1, nil
}
