package dto

import (
	"time"

	"contract-workflow-api/internal/domain"
)

// UpdateProjectRequest represents a partial project update. All fields are optional.
// @Description current_stage may only move to the immediately following stage
type UpdateProjectRequest struct {
	CurrentStage   *domain.Stage `json:"current_stage" example:"5 - Conferência do Layout"`
	DeliveryDate   *time.Time    `json:"delivery_date" example:"2025-06-30T00:00:00Z"`
	AccountManager *string       `json:"account_manager" binding:"omitempty,max=255"`
	Designer       *string       `json:"designer" binding:"omitempty,max=255"`
}

// ProjectDetailResponse is a project with its contract and derived state
type ProjectDetailResponse struct {
	*domain.Project
	Contract *domain.Contract `json:"contract,omitempty"`
	Tasks    []*domain.Task   `json:"tasks"`
	Alerts   []domain.Alert   `json:"alerts"`
}

// PipelineProject is a project card shown on the pipeline board
type PipelineProject struct {
	*domain.Project
	Client      string  `json:"client"`
	Institution string  `json:"institution"`
	Number      int     `json:"number"`
	Value       float64 `json:"value"`
}

// PipelineColumn groups projects by production phase
type PipelineColumn struct {
	ID       string            `json:"id" example:"PRE_PRODUCAO"`
	Title    string            `json:"title" example:"Pré-Produção"`
	Color    string            `json:"color" example:"#3b82f6"`
	Projects []PipelineProject `json:"projects"`
}

// PipelineResponse is the three-column pipeline board
type PipelineResponse struct {
	Columns []PipelineColumn `json:"columns"`
	Total   int              `json:"total"`
}
