package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskStatus represents the state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pendente"
	TaskStatusInProgress TaskStatus = "Em Andamento"
	TaskStatusWaiting    TaskStatus = "Aguardando"
	TaskStatusCompleted  TaskStatus = "Concluído"
	TaskStatusOverdue    TaskStatus = "Atrasado"
)

// DefaultSector is filled on rows stored without a sector
const DefaultSector = "Geral"

// IsValid reports whether the status is known
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusWaiting, TaskStatusCompleted, TaskStatusOverdue:
		return true
	}
	return false
}

// Task represents a unit of work inside a project stage
type Task struct {
	BaseModel
	ProjectID     uuid.UUID                   `gorm:"type:uuid;not null;index:idx_tasks_project_id;index:idx_tasks_project_stage,priority:1" json:"project_id"`
	Stage         Stage                       `gorm:"type:varchar(100);not null;index:idx_tasks_project_stage,priority:2" json:"stage"`
	MacroStage    MacroStage                  `gorm:"type:varchar(50);not null" json:"macro_stage"`
	CatalogNumber int                         `gorm:"not null;default:0" json:"catalog_number"`
	Activity      string                      `gorm:"type:varchar(255)" json:"activity"`
	Sector        string                      `gorm:"type:varchar(100)" json:"sector"`
	Title         string                      `gorm:"type:varchar(255);not null" json:"title"`
	Description   string                      `gorm:"type:text" json:"description"`
	Responsible   string                      `gorm:"type:varchar(255);index:idx_tasks_responsible" json:"responsible"`
	DueDate       time.Time                   `gorm:"type:timestamp;not null;index:idx_tasks_due_date" json:"due_date"`
	CompletedAt   *time.Time                  `gorm:"type:timestamp" json:"completed_at,omitempty"`
	Status        TaskStatus                  `gorm:"type:varchar(50);not null;default:'Pendente';index:idx_tasks_status" json:"status"`
	Dependencies  datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"dependencies"`
	Critical      bool                        `gorm:"not null;default:false" json:"critical"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// AfterFind back-fills fields missing on legacy rows
func (t *Task) AfterFind(tx *gorm.DB) error {
	t.ApplyDefaults()
	return nil
}

// BeforeSave stores timestamps in UTC so range queries compare consistently
func (t *Task) BeforeSave(tx *gorm.DB) error {
	t.DueDate = t.DueDate.UTC()
	if t.CompletedAt != nil {
		completed := t.CompletedAt.UTC()
		t.CompletedAt = &completed
	}
	return nil
}

// ApplyDefaults fills derived fields left empty
func (t *Task) ApplyDefaults() {
	if t.MacroStage == "" {
		t.MacroStage = t.Stage.Macro()
	}
	if t.Activity == "" {
		t.Activity = t.Title
	}
	if t.Sector == "" {
		t.Sector = DefaultSector
	}
	if t.Status == "" {
		t.Status = TaskStatusPending
	}
}

// IsCompleted reports whether the task reached its final status
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// IsOverdue reports whether an open task is past its due date at now
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.IsCompleted() && t.DueDate.Before(now)
}

// DaysOverdue returns the number of whole days past the due date
func (t *Task) DaysOverdue(now time.Time) int {
	if !t.DueDate.Before(now) {
		return 0
	}
	return int(now.Sub(t.DueDate).Hours() / 24)
}
