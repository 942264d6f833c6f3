package domain

import (
	"github.com/google/uuid"
)

// AlertType classifies a computed alert
type AlertType string

const (
	AlertOverdueTask AlertType = "tarefa_atrasada"
	AlertHighRisk    AlertType = "risco_alto"
)

// Alert is computed on demand and never stored
type Alert struct {
	Type            AlertType  `json:"type"`
	Message         string     `json:"message"`
	Severity        RiskLevel  `json:"severity"`
	SuggestedAction string     `json:"suggested_action"`
	ProjectID       uuid.UUID  `json:"project_id"`
	TaskID          *uuid.UUID `json:"task_id,omitempty"`
}
