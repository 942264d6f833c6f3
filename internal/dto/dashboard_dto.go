package dto

import (
	"time"

	"github.com/google/uuid"

	"contract-workflow-api/internal/domain"
)

// DashboardKPIs are the headline indicators of the dashboard
type DashboardKPIs struct {
	TotalProjects   int64   `json:"total_projects"`
	OnTimePercent   float64 `json:"on_time_percent"`
	HighRiskCount   int64   `json:"high_risk_projects"`
	MediumRiskCount int64   `json:"medium_risk_projects"`
	OverdueTasks    int     `json:"overdue_tasks"`
}

// OverdueTaskItem is an open task past its due date
type OverdueTaskItem struct {
	TaskID      uuid.UUID    `json:"task_id"`
	ProjectID   uuid.UUID    `json:"project_id"`
	Title       string       `json:"title"`
	Stage       domain.Stage `json:"stage"`
	Responsible string       `json:"responsible"`
	DueDate     time.Time    `json:"due_date"`
	DaysOverdue int          `json:"days_overdue"`
	Critical    bool         `json:"critical"`
}

// Bottleneck counts the open tasks held by one responsible party
type Bottleneck struct {
	Responsible string `json:"responsible"`
	OpenTasks   int    `json:"open_tasks"`
}

// DashboardResponse is the management overview
type DashboardResponse struct {
	KPIs              DashboardKPIs     `json:"kpis"`
	ContractsByStatus map[string]int64  `json:"contracts_by_status"`
	OverdueTasks      []OverdueTaskItem `json:"overdue_tasks"`
	Bottlenecks       []Bottleneck      `json:"bottlenecks"`
	GeneratedAt       time.Time         `json:"generated_at"`
}

// OverdueStatsResponse summarises every overdue task
type OverdueStatsResponse struct {
	Total         int               `json:"total"`
	ByResponsible map[string]int    `json:"by_responsible"`
	Tasks         []OverdueTaskItem `json:"tasks"`
}

// DueSoonResponse lists open tasks due within the next day
type DueSoonResponse struct {
	Total int            `json:"total"`
	Tasks []*domain.Task `json:"tasks"`
}

// UnreadCountResponse is the unread notification counter
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// MarkAllReadResponse reports how many notifications were flagged read
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
