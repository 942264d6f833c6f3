package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/repository"
)

// Risk scoring weights
const (
	overdueTaskPoints         = 1
	criticalOverdueTaskPoints = 3
	deliveryUrgentPoints      = 2
	deliveryNearPoints        = 1
	deliveryUrgentDays        = 7
	deliveryNearDays          = 15
	highRiskScore             = 5
	mediumRiskScore           = 2

	// maxListedTitles caps the task titles quoted in a blocking reason
	maxListedTitles = 5
)

// RiskAssessment is the breakdown behind a risk tier
type RiskAssessment struct {
	Score           int              `json:"score"`
	OverdueTasks    int              `json:"overdue_tasks"`
	CriticalOverdue int              `json:"critical_overdue"`
	DaysToDelivery  int              `json:"days_to_delivery"`
	Level           domain.RiskLevel `json:"level"`
}

// WorkflowEngine holds the stage-progression rules and the derived project metrics
type WorkflowEngine interface {
	// ValidateStageTransition applies the stage sequence rule and the phase gate
	ValidateStageTransition(ctx context.Context, project *domain.Project, target domain.Stage) (bool, string, error)
	ValidateTaskDependencies(ctx context.Context, task *domain.Task) (bool, string, error)
	ComputeProjectProgress(ctx context.Context, projectID uuid.UUID) (float64, error)
	AssessProjectRisk(ctx context.Context, projectID uuid.UUID) (domain.RiskLevel, error)
	DetectAlerts(ctx context.Context, projectID uuid.UUID) ([]domain.Alert, error)
	// RefreshProjectMetrics recomputes and stores progress and risk
	RefreshProjectMetrics(ctx context.Context, projectID uuid.UUID) (float64, domain.RiskLevel, error)
}

// workflowEngineImpl is the implementation of WorkflowEngine
type workflowEngineImpl struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	now         func() time.Time
	logger      *zap.Logger
}

// NewWorkflowEngine creates a new instance of WorkflowEngine. now may be nil.
func NewWorkflowEngine(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, now func() time.Time, logger *zap.Logger) WorkflowEngine {
	if now == nil {
		now = time.Now
	}
	return &workflowEngineImpl{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		now:         now,
		logger:      logger,
	}
}

// CheckStageSequence accepts only a move to the immediately following stage
func CheckStageSequence(current, target domain.Stage) (bool, string) {
	if !target.IsValid() {
		return false, fmt.Sprintf("Etapa inválida: '%s'", target)
	}
	cur, tgt := current.Index(), target.Index()
	switch {
	case tgt == cur:
		return false, fmt.Sprintf("Projeto já está na etapa '%s'", target)
	case tgt < cur:
		return false, fmt.Sprintf("Não é permitido retroceder de '%s' para '%s'", current, target)
	case tgt > cur+1:
		expected, _ := current.Next()
		return false, fmt.Sprintf("Não é permitido pular etapas: a próxima etapa de '%s' é '%s'", current, expected)
	}
	return true, ""
}

// phaseGate names the macro-stage whose tasks must all be completed before
// a project may enter the keyed macro-stage
var phaseGate = map[domain.MacroStage]domain.MacroStage{
	domain.MacroPreProduction: domain.MacroCreation,
	domain.MacroProduction:    domain.MacroPreProduction,
}

func (e *workflowEngineImpl) ValidateStageTransition(ctx context.Context, project *domain.Project, target domain.Stage) (bool, string, error) {
	if ok, reason := CheckStageSequence(project.CurrentStage, target); !ok {
		return false, reason, nil
	}

	entering := target.Macro()
	if entering == project.CurrentStage.Macro() {
		return true, "", nil
	}
	required, gated := phaseGate[entering]
	if !gated {
		return true, "", nil
	}

	tasks, err := e.taskRepo.FindByProjectAndMacro(ctx, project.ID, required)
	if err != nil {
		return false, "", fmt.Errorf("failed to load %s tasks: %w", required, err)
	}
	if pending := PendingTasks(tasks); len(pending) > 0 {
		return false, fmt.Sprintf("Para entrar em %s todas as tarefas de %s devem estar concluídas. %s",
			entering, required, DescribePending(pending)), nil
	}
	return true, "", nil
}

func (e *workflowEngineImpl) ValidateTaskDependencies(ctx context.Context, task *domain.Task) (bool, string, error) {
	if len(task.Dependencies) == 0 {
		return true, "", nil
	}

	ids := make([]uuid.UUID, 0, len(task.Dependencies))
	for _, dep := range task.Dependencies {
		id, err := uuid.Parse(dep)
		if err != nil {
			return false, fmt.Sprintf("Dependência '%s' não encontrada", dep), nil
		}
		ids = append(ids, id)
	}

	found, err := e.taskRepo.FindByIDs(ctx, ids)
	if err != nil {
		return false, "", fmt.Errorf("failed to load dependencies: %w", err)
	}
	byID := make(map[uuid.UUID]*domain.Task, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}

	for i, id := range ids {
		dep, ok := byID[id]
		if !ok {
			return false, fmt.Sprintf("Dependência '%s' não encontrada", task.Dependencies[i]), nil
		}
		if !dep.IsCompleted() {
			return false, fmt.Sprintf("Dependência '%s' (%s) ainda não foi concluída (status: %s)",
				dep.Title, task.Dependencies[i], dep.Status), nil
		}
	}
	return true, "", nil
}

func (e *workflowEngineImpl) ComputeProjectProgress(ctx context.Context, projectID uuid.UUID) (float64, error) {
	tasks, err := e.taskRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to load project tasks: %w", err)
	}
	return Progress(tasks), nil
}

func (e *workflowEngineImpl) AssessProjectRisk(ctx context.Context, projectID uuid.UUID) (domain.RiskLevel, error) {
	project, tasks, err := e.load(ctx, projectID)
	if err != nil {
		return "", err
	}
	if project == nil {
		return domain.RiskLow, nil
	}
	return AssessRisk(tasks, project.DeliveryDate, e.now()).Level, nil
}

func (e *workflowEngineImpl) DetectAlerts(ctx context.Context, projectID uuid.UUID) ([]domain.Alert, error) {
	project, tasks, err := e.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	now := e.now()
	risk := domain.RiskLow
	if project != nil {
		risk = AssessRisk(tasks, project.DeliveryDate, now).Level
	}
	return BuildAlerts(projectID, tasks, risk, now), nil
}

func (e *workflowEngineImpl) RefreshProjectMetrics(ctx context.Context, projectID uuid.UUID) (float64, domain.RiskLevel, error) {
	project, tasks, err := e.load(ctx, projectID)
	if err != nil {
		return 0, "", err
	}
	if project == nil {
		return 0, domain.RiskLow, nil
	}

	progress := Progress(tasks)
	risk := AssessRisk(tasks, project.DeliveryDate, e.now()).Level
	if err := e.projectRepo.UpdateMetrics(ctx, projectID, progress, risk); err != nil {
		return 0, "", fmt.Errorf("failed to store project metrics: %w", err)
	}
	return progress, risk, nil
}

// load returns a nil project without error when it does not exist; callers
// then fall back to risk Low and progress 0
func (e *workflowEngineImpl) load(ctx context.Context, projectID uuid.UUID) (*domain.Project, []*domain.Task, error) {
	project, err := e.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e.logger.Warn("Project not found, using default metrics",
				zap.String("project_id", projectID.String()),
			)
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to load project: %w", err)
	}

	tasks, err := e.taskRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load project tasks: %w", err)
	}
	return project, tasks, nil
}

// Progress is the percentage of completed tasks, rounded to two decimals
func Progress(tasks []*domain.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for _, t := range tasks {
		if t.IsCompleted() {
			completed++
		}
	}
	return round2(float64(completed) / float64(len(tasks)) * 100)
}

// AssessRisk scores overdue work and delivery proximity.
// Any critical overdue task forces High regardless of the score.
func AssessRisk(tasks []*domain.Task, deliveryDate, now time.Time) RiskAssessment {
	var a RiskAssessment
	for _, t := range tasks {
		if !t.IsOverdue(now) {
			continue
		}
		a.OverdueTasks++
		if t.Critical {
			a.Score += criticalOverdueTaskPoints
			a.CriticalOverdue++
		} else {
			a.Score += overdueTaskPoints
		}
	}

	a.DaysToDelivery = DaysUntil(deliveryDate, now)
	switch {
	case a.DaysToDelivery < deliveryUrgentDays:
		a.Score += deliveryUrgentPoints
	case a.DaysToDelivery < deliveryNearDays:
		a.Score += deliveryNearPoints
	}

	switch {
	case a.CriticalOverdue > 0 || a.Score >= highRiskScore:
		a.Level = domain.RiskHigh
	case a.Score >= mediumRiskScore:
		a.Level = domain.RiskMedium
	default:
		a.Level = domain.RiskLow
	}
	return a
}

// BuildAlerts emits one alert per overdue task plus one for a High risk tier
func BuildAlerts(projectID uuid.UUID, tasks []*domain.Task, risk domain.RiskLevel, now time.Time) []domain.Alert {
	alerts := make([]domain.Alert, 0)
	for _, t := range tasks {
		if !t.IsOverdue(now) {
			continue
		}
		severity := domain.RiskMedium
		if t.Critical {
			severity = domain.RiskHigh
		}
		taskID := t.ID
		alerts = append(alerts, domain.Alert{
			Type:            domain.AlertOverdueTask,
			Message:         fmt.Sprintf("Tarefa '%s' está atrasada em %d dia(s)", t.Title, t.DaysOverdue(now)),
			Severity:        severity,
			SuggestedAction: fmt.Sprintf("Contatar %s imediatamente", t.Responsible),
			ProjectID:       projectID,
			TaskID:          &taskID,
		})
	}

	if risk == domain.RiskHigh {
		alerts = append(alerts, domain.Alert{
			Type:            domain.AlertHighRisk,
			Message:         "Projeto classificado com RISCO ALTO",
			Severity:        domain.RiskHigh,
			SuggestedAction: "Reunião emergencial com equipe e cliente",
			ProjectID:       projectID,
		})
	}
	return alerts
}

// PendingTasks filters the tasks that are not completed
func PendingTasks(tasks []*domain.Task) []*domain.Task {
	var pending []*domain.Task
	for _, t := range tasks {
		if !t.IsCompleted() {
			pending = append(pending, t)
		}
	}
	return pending
}

// DescribePending renders the pending count and up to five titles
func DescribePending(pending []*domain.Task) string {
	titles := make([]string, 0, maxListedTitles)
	for i, t := range pending {
		if i == maxListedTitles {
			break
		}
		titles = append(titles, t.Title)
	}
	msg := fmt.Sprintf("Existem %d tarefa(s) pendente(s): %s", len(pending), strings.Join(titles, ", "))
	if len(pending) > maxListedTitles {
		msg += "..."
	}
	return msg
}

// DaysUntil returns the whole days from now to t, rounded down
func DaysUntil(t, now time.Time) int {
	return int(math.Floor(t.Sub(now).Hours() / 24))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
