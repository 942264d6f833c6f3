package dto

import (
	"time"

	"github.com/google/uuid"

	"contract-workflow-api/internal/domain"
)

// CreateTaskRequest represents the request to add a manual task to a project
// @Description stage defaults to the project's current stage; due_date defaults to the stage offset from now
type CreateTaskRequest struct {
	ProjectID    uuid.UUID    `json:"project_id" binding:"required" example:"539167fb-b599-41ba-9ead-344a6d0b3a2f"`
	Stage        domain.Stage `json:"stage" example:"4 - Criação (1ª e 2ª AP)"`
	Title        string       `json:"title" binding:"required,max=255" example:"Ajustar paleta de cores"`
	Description  string       `json:"description" binding:"max=2000"`
	Activity     string       `json:"activity" binding:"max=255"`
	Sector       string       `json:"sector" binding:"max=100" example:"Criação"`
	Responsible  string       `json:"responsible" binding:"max=255" example:"Marcos Letro"`
	DueDate      *time.Time   `json:"due_date"`
	Dependencies []string     `json:"dependencies"`
	Critical     bool         `json:"critical"`
}

// UpdateTaskRequest represents a partial task update. All fields are optional.
// @Description moving to Em Andamento or Concluído requires every dependency to be Concluído
type UpdateTaskRequest struct {
	Title        *string            `json:"title" binding:"omitempty,max=255"`
	Description  *string            `json:"description" binding:"omitempty,max=2000"`
	Sector       *string            `json:"sector" binding:"omitempty,max=100"`
	Responsible  *string            `json:"responsible" binding:"omitempty,max=255"`
	DueDate      *time.Time         `json:"due_date"`
	Status       *domain.TaskStatus `json:"status" example:"Concluído"`
	Dependencies *[]string          `json:"dependencies"`
}

// MoveTaskRequest moves a task to another stage
type MoveTaskRequest struct {
	Stage domain.Stage `json:"stage" binding:"required" example:"5 - Conferência do Layout"`
}

// TaskListFilter holds the optional query filters of the task listing
type TaskListFilter struct {
	ProjectID   string `form:"project_id"`
	Stage       string `form:"stage"`
	Status      string `form:"status"`
	Responsible string `form:"responsible"`
}

// KanbanColumn groups a project's tasks on the board
type KanbanColumn struct {
	ID    string         `json:"id" example:"CRIACAO_1_2"`
	Title string         `json:"title" example:"Criação 1ª e 2ª AP"`
	Color string         `json:"color" example:"#f59e0b"`
	Tasks []*domain.Task `json:"tasks"`
}

// KanbanResponse is the ten-column board of a project
type KanbanResponse struct {
	ProjectID uuid.UUID      `json:"project_id"`
	Columns   []KanbanColumn `json:"columns"`
}
