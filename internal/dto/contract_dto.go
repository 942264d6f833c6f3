package dto

import (
	"time"

	"contract-workflow-api/internal/domain"
)

// CreateContractRequest represents the request to register a contract
// @Description value must be positive and end_date must be after start_date.
// @Description number is assigned automatically when omitted.
type CreateContractRequest struct {
	Number      int       `json:"number" example:"1024"`
	Client      string    `json:"client" binding:"required,max=255" example:"Formandos Medicina UFMG 2025"`
	Institution string    `json:"institution" binding:"max=255" example:"UFMG"`
	Term        string    `json:"term" binding:"max=50" example:"2025/1"`
	Value       float64   `json:"value" example:"45000"`
	StartDate   time.Time `json:"start_date" binding:"required" example:"2025-03-01T00:00:00Z"`
	EndDate     time.Time `json:"end_date" binding:"required" example:"2025-06-30T00:00:00Z"`
}

// UpdateContractRequest represents a partial contract update. All fields are optional.
type UpdateContractRequest struct {
	Client      *string                `json:"client" binding:"omitempty,max=255"`
	Institution *string                `json:"institution" binding:"omitempty,max=255"`
	Term        *string                `json:"term" binding:"omitempty,max=50"`
	Value       *float64               `json:"value"`
	StartDate   *time.Time             `json:"start_date"`
	EndDate     *time.Time             `json:"end_date"`
	Status      *domain.ContractStatus `json:"status"`
}
