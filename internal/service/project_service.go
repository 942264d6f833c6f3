package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/metrics"
	"contract-workflow-api/internal/repository"
)

// ProjectService defines the interface for project business logic
type ProjectService interface {
	ListProjects(ctx context.Context) ([]*domain.Project, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*dto.ProjectDetailResponse, error)
	UpdateProject(ctx context.Context, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.OperationResult, error)
	AdvanceStage(ctx context.Context, projectID uuid.UUID) (*dto.OperationResult, error)
	FinalizeProject(ctx context.Context, projectID uuid.UUID) (*dto.OperationResult, error)
	GetPipeline(ctx context.Context) (*dto.PipelineResponse, error)
	GetAlerts(ctx context.Context, projectID uuid.UUID) ([]domain.Alert, error)
}

// projectServiceImpl is the implementation of ProjectService
type projectServiceImpl struct {
	projectRepo  repository.ProjectRepository
	contractRepo repository.ContractRepository
	taskRepo     repository.TaskRepository
	engine       WorkflowEngine
	dispatcher   NotificationDispatcher
	stages       *stageEntry
	now          func() time.Time
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewProjectService creates a new instance of ProjectService
func NewProjectService(
	projectRepo repository.ProjectRepository,
	contractRepo repository.ContractRepository,
	taskRepo repository.TaskRepository,
	engine WorkflowEngine,
	generator TaskGenerator,
	dispatcher NotificationDispatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
) ProjectService {
	return &projectServiceImpl{
		projectRepo:  projectRepo,
		contractRepo: contractRepo,
		taskRepo:     taskRepo,
		engine:       engine,
		dispatcher:   dispatcher,
		stages: &stageEntry{
			projectRepo:  projectRepo,
			contractRepo: contractRepo,
			engine:       engine,
			generator:    generator,
			dispatcher:   dispatcher,
			metrics:      m,
			logger:       logger,
		},
		now:     time.Now,
		metrics: m,
		logger:  logger,
	}
}

// ListProjects retrieves every project, newest first
func (s *projectServiceImpl) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	projects, err := s.projectRepo.FindAll(ctx)
	if err != nil {
		return nil, internalError("Failed to fetch projects", err)
	}
	return projects, nil
}

// GetProject retrieves a project with its contract, tasks and current alerts
func (s *projectServiceImpl) GetProject(ctx context.Context, projectID uuid.UUID) (*dto.ProjectDetailResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, lookupError(err, "Project")
	}

	detail := &dto.ProjectDetailResponse{Project: project}
	if contract, err := s.contractRepo.FindByID(ctx, project.ContractID); err == nil {
		detail.Contract = contract
	} else {
		s.logger.Warn("Project contract not found",
			zap.String("project_id", project.ID.String()),
			zap.Error(err),
		)
	}

	tasks, err := s.taskRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, internalError("Failed to fetch project tasks", err)
	}
	detail.Tasks = tasks

	alerts, err := s.engine.DetectAlerts(ctx, projectID)
	if err != nil {
		return nil, internalError("Failed to detect alerts", err)
	}
	detail.Alerts = alerts
	return detail, nil
}

// UpdateProject applies a partial update. A stage change must pass the
// transition rule and the phase gate, and then behaves like entering the stage.
func (s *projectServiceImpl) UpdateProject(ctx context.Context, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.OperationResult, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, lookupError(err, "Project")
	}

	result := dto.NewOperation(ActionUpdateProject)
	stageChange := req.CurrentStage != nil && *req.CurrentStage != project.CurrentStage
	if stageChange {
		ok, reason, err := s.engine.ValidateStageTransition(ctx, project, *req.CurrentStage)
		if err != nil {
			return nil, internalError("Failed to validate stage transition", err)
		}
		if !ok {
			return block(result, reason, s.metrics, s.logger), nil
		}
	}

	if req.DeliveryDate != nil {
		project.DeliveryDate = req.DeliveryDate.UTC()
	}
	if req.AccountManager != nil {
		project.AccountManager = *req.AccountManager
	}
	if req.Designer != nil {
		project.Designer = *req.Designer
	}

	if stageChange {
		if err := s.stages.enter(ctx, project, nil, *req.CurrentStage, s.now(), result); err != nil {
			return nil, internalError("Failed to change project stage", err)
		}
		return result, nil
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, internalError("Failed to update project", err)
	}
	progress, risk, err := s.engine.RefreshProjectMetrics(ctx, project.ID)
	if err != nil {
		return nil, internalError("Failed to compute project metrics", err)
	}
	result.Log("Projeto atualizado")
	result.Set("project_id", project.ID).Set("progress", progress).Set("risk", risk)
	return result, nil
}

// AdvanceStage moves a project to the next stage once every task of the
// current stage is completed
func (s *projectServiceImpl) AdvanceStage(ctx context.Context, projectID uuid.UUID) (*dto.OperationResult, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, lookupError(err, "Project")
	}

	result := dto.NewOperation(ActionAdvanceStage)
	current := project.CurrentStage

	tasks, err := s.taskRepo.FindByProjectAndStage(ctx, projectID, current)
	if err != nil {
		return nil, internalError("Failed to fetch stage tasks", err)
	}
	if pending := PendingTasks(tasks); len(pending) > 0 {
		return block(result, fmt.Sprintf("Não é possível avançar da etapa '%s'. %s", current, DescribePending(pending)),
			s.metrics, s.logger), nil
	}

	next, ok := current.Next()
	if !ok {
		return block(result, "Projeto já está na última etapa", s.metrics, s.logger), nil
	}

	valid, reason, err := s.engine.ValidateStageTransition(ctx, project, next)
	if err != nil {
		return nil, internalError("Failed to validate stage transition", err)
	}
	if !valid {
		return block(result, reason, s.metrics, s.logger), nil
	}

	if err := s.stages.enter(ctx, project, nil, next, s.now(), result); err != nil {
		return nil, internalError("Failed to advance project stage", err)
	}

	s.logger.Info("Project stage advanced",
		zap.String("project_id", project.ID.String()),
		zap.String("from", string(current)),
		zap.String("to", string(next)),
	)
	return result, nil
}

// FinalizeProject closes a project with no pending task and notifies management
func (s *projectServiceImpl) FinalizeProject(ctx context.Context, projectID uuid.UUID) (*dto.OperationResult, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, lookupError(err, "Project")
	}

	result := dto.NewOperation(ActionFinalizeProject)
	tasks, err := s.taskRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, internalError("Failed to fetch project tasks", err)
	}
	if pending := PendingTasks(tasks); len(pending) > 0 {
		return block(result, "Não é possível finalizar o projeto. "+DescribePending(pending), s.metrics, s.logger), nil
	}

	contract, err := s.contractRepo.FindByID(ctx, project.ContractID)
	if err != nil {
		return nil, lookupError(err, "Contract")
	}

	project.MoveTo(domain.StageClosed)
	project.Progress = 100
	project.Risk = domain.RiskLow
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, internalError("Failed to finalize project", err)
	}
	if err := s.contractRepo.UpdateStatus(ctx, contract.ID, domain.ContractStatusFinalized); err != nil {
		return nil, internalError("Failed to finalize contract", err)
	}
	result.Log(fmt.Sprintf("Projeto do contrato %d finalizado", contract.Number))

	recipient, err := s.dispatcher.NotifyProjectFinalized(ctx, contract, project)
	if err != nil {
		s.logger.Warn("Failed to notify management", zap.Error(err))
	} else if recipient != "" {
		result.Notified(recipient)
	}

	result.Set("project_id", project.ID).
		Set("contract_id", contract.ID).
		Set("stage", project.CurrentStage).
		Set("progress", project.Progress).
		Set("risk", project.Risk)
	return result, nil
}

// pipeline columns in display order
var pipelineColumns = []struct {
	id, title, color string
}{
	{"PRE_PRODUCAO", "Pré-Produção", "#3b82f6"},
	{"PRODUCAO", "Produção", "#f59e0b"},
	{"POS_PRODUCAO", "Pós-Produção", "#10b981"},
}

// pipelineColumnIndex maps a macro-stage onto a pipeline column
func pipelineColumnIndex(macro domain.MacroStage) int {
	switch macro {
	case domain.MacroProduction:
		return 1
	case domain.MacroAfterSales:
		return 2
	default:
		return 0
	}
}

// GetPipeline groups every project into the three production phases
func (s *projectServiceImpl) GetPipeline(ctx context.Context) (*dto.PipelineResponse, error) {
	projects, err := s.projectRepo.FindAll(ctx)
	if err != nil {
		return nil, internalError("Failed to fetch projects", err)
	}
	contracts, err := s.contractRepo.FindAll(ctx)
	if err != nil {
		return nil, internalError("Failed to fetch contracts", err)
	}
	byID := make(map[uuid.UUID]*domain.Contract, len(contracts))
	for _, c := range contracts {
		byID[c.ID] = c
	}

	resp := &dto.PipelineResponse{Columns: make([]dto.PipelineColumn, len(pipelineColumns)), Total: len(projects)}
	for i, col := range pipelineColumns {
		resp.Columns[i] = dto.PipelineColumn{ID: col.id, Title: col.title, Color: col.color, Projects: []dto.PipelineProject{}}
	}

	for _, p := range projects {
		card := dto.PipelineProject{Project: p}
		if c, ok := byID[p.ContractID]; ok {
			card.Client = c.Client
			card.Institution = c.Institution
			card.Number = c.Number
			card.Value = c.Value
		}
		idx := pipelineColumnIndex(p.MacroStage)
		resp.Columns[idx].Projects = append(resp.Columns[idx].Projects, card)
	}
	return resp, nil
}

// GetAlerts computes the current alerts of a project
func (s *projectServiceImpl) GetAlerts(ctx context.Context, projectID uuid.UUID) ([]domain.Alert, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, lookupError(err, "Project")
	}
	alerts, err := s.engine.DetectAlerts(ctx, projectID)
	if err != nil {
		return nil, internalError("Failed to detect alerts", err)
	}
	return alerts, nil
}
