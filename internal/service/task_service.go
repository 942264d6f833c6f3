package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/metrics"
	"contract-workflow-api/internal/repository"
	"contract-workflow-api/internal/response"
)

// TaskService defines the interface for task business logic
type TaskService interface {
	CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.OperationResult, error)
	ListTasks(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error)
	GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)
	UpdateTask(ctx context.Context, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.OperationResult, error)
	MoveTask(ctx context.Context, taskID uuid.UUID, stage domain.Stage) (*dto.OperationResult, error)
	DeleteTask(ctx context.Context, taskID uuid.UUID) (*dto.OperationResult, error)
	GetKanban(ctx context.Context, projectID uuid.UUID) (*dto.KanbanResponse, error)
}

// taskServiceImpl is the implementation of TaskService
type taskServiceImpl struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	engine      WorkflowEngine
	dispatcher  NotificationDispatcher
	now         func() time.Time
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewTaskService creates a new instance of TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	engine WorkflowEngine,
	dispatcher NotificationDispatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
) TaskService {
	return &taskServiceImpl{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		engine:      engine,
		dispatcher:  dispatcher,
		now:         time.Now,
		metrics:     m,
		logger:      logger,
	}
}

// CreateTask adds a manual task to a project. The stage defaults to the
// project's current stage and the macro-stage is always derived from it.
func (s *taskServiceImpl) CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.OperationResult, error) {
	result := dto.NewOperation(ActionCreateTask)

	project, err := s.projectRepo.FindByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return block(result, "Projeto não encontrado", s.metrics, s.logger), nil
		}
		return nil, lookupError(err, "Project")
	}

	stage := req.Stage
	if stage == "" {
		stage = project.CurrentStage
	}
	if !stage.IsValid() {
		return nil, response.NewValidationError("Invalid stage", string(stage))
	}

	now := s.now()
	due := now.AddDate(0, 0, stage.OffsetDays())
	if req.DueDate != nil {
		due = *req.DueDate
	}

	deps := req.Dependencies
	if deps == nil {
		deps = []string{}
	}

	task := &domain.Task{
		ProjectID:    project.ID,
		Stage:        stage,
		MacroStage:   stage.Macro(),
		Activity:     req.Activity,
		Sector:       req.Sector,
		Title:        req.Title,
		Description:  req.Description,
		Responsible:  req.Responsible,
		DueDate:      due,
		Status:       domain.TaskStatusPending,
		Dependencies: deps,
		Critical:     req.Critical,
	}
	if task.Responsible == "" {
		task.Responsible = domain.ResponsibleForSector(task.Sector)
	}
	task.ApplyDefaults()

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, internalError("Failed to create task", err)
	}
	result.Log(fmt.Sprintf("Tarefa '%s' criada", task.Title))

	if recipient, err := s.dispatcher.NotifyTaskAssigned(ctx, task); err != nil {
		s.logger.Warn("Failed to notify assignee", zap.String("task_id", task.ID.String()), zap.Error(err))
	} else {
		result.Notified(recipient)
	}

	progress, risk, err := s.engine.RefreshProjectMetrics(ctx, project.ID)
	if err != nil {
		return nil, internalError("Failed to compute project metrics", err)
	}

	s.logger.Info("Task created",
		zap.String("task_id", task.ID.String()),
		zap.String("project_id", project.ID.String()),
	)
	result.Set("task_id", task.ID).
		Set("project_id", project.ID).
		Set("stage", task.Stage).
		Set("project_progress", progress).
		Set("project_risk", risk)
	return result, nil
}

// ListTasks retrieves tasks matching the filter
func (s *taskServiceImpl) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error) {
	if filter.Stage != "" && !filter.Stage.IsValid() {
		return nil, response.NewValidationError("Invalid stage", string(filter.Stage))
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, response.NewValidationError("Invalid status", string(filter.Status))
	}
	tasks, err := s.taskRepo.Find(ctx, filter)
	if err != nil {
		return nil, internalError("Failed to fetch tasks", err)
	}
	return tasks, nil
}

// GetTask retrieves a task by its ID
func (s *taskServiceImpl) GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, lookupError(err, "Task")
	}
	return task, nil
}

// UpdateTask applies a partial update. Starting or completing a task requires
// every dependency to be completed.
func (s *taskServiceImpl) UpdateTask(ctx context.Context, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.OperationResult, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, lookupError(err, "Task")
	}

	result := dto.NewOperation(ActionUpdateTask)
	if req.Status != nil && !req.Status.IsValid() {
		return nil, response.NewValidationError("Invalid status", string(*req.Status))
	}
	if req.Dependencies != nil {
		task.Dependencies = *req.Dependencies
	}

	if req.Status != nil && (*req.Status == domain.TaskStatusInProgress || *req.Status == domain.TaskStatusCompleted) {
		ok, reason, err := s.engine.ValidateTaskDependencies(ctx, task)
		if err != nil {
			return nil, internalError("Failed to validate task dependencies", err)
		}
		if !ok {
			return block(result, reason, s.metrics, s.logger), nil
		}
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Sector != nil {
		task.Sector = *req.Sector
	}
	if req.Responsible != nil {
		task.Responsible = *req.Responsible
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}
	if req.Status != nil && *req.Status != task.Status {
		task.Status = *req.Status
		if task.IsCompleted() {
			completed := s.now()
			task.CompletedAt = &completed
		} else {
			task.CompletedAt = nil
		}
		result.Log(fmt.Sprintf("Status alterado para '%s'", task.Status))
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, internalError("Failed to update task", err)
	}
	result.Log("Tarefa atualizada")

	progress, risk, err := s.engine.RefreshProjectMetrics(ctx, task.ProjectID)
	if err != nil {
		return nil, internalError("Failed to compute project metrics", err)
	}
	if risk == domain.RiskHigh {
		result.Alerts = append(result.Alerts, "Projeto classificado com RISCO ALTO")
	}

	result.Set("task_id", task.ID).
		Set("status", task.Status).
		Set("project_progress", progress).
		Set("project_risk", risk)
	return result, nil
}

// MoveTask moves a task to another stage. A task that changes stage is put in progress.
func (s *taskServiceImpl) MoveTask(ctx context.Context, taskID uuid.UUID, stage domain.Stage) (*dto.OperationResult, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, lookupError(err, "Task")
	}

	result := dto.NewOperation(ActionMoveTask)
	if !stage.IsValid() {
		return block(result, fmt.Sprintf("Etapa inválida: %s", stage), s.metrics, s.logger), nil
	}

	previous := task.Stage
	if stage != previous {
		task.Stage = stage
		task.MacroStage = stage.Macro()
		task.Status = domain.TaskStatusInProgress
		task.CompletedAt = nil
		if err := s.taskRepo.Update(ctx, task); err != nil {
			return nil, internalError("Failed to move task", err)
		}
	}
	result.Log(fmt.Sprintf("Tarefa movida de '%s' para '%s'", previous, stage))

	progress, _, err := s.engine.RefreshProjectMetrics(ctx, task.ProjectID)
	if err != nil {
		return nil, internalError("Failed to compute project metrics", err)
	}

	result.Set("task_id", task.ID).
		Set("previous_stage", previous).
		Set("new_stage", task.Stage).
		Set("macro_stage", task.MacroStage).
		Set("project_progress", progress)
	return result, nil
}

// DeleteTask removes a task. Critical tasks belong to the mandatory flow and
// cannot be deleted.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, taskID uuid.UUID) (*dto.OperationResult, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, lookupError(err, "Task")
	}

	result := dto.NewOperation(ActionDeleteTask)
	if task.Critical {
		return block(result, "Tarefa crítica não pode ser excluída. É obrigatória do fluxo.", s.metrics, s.logger), nil
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		return nil, internalError("Failed to delete task", err)
	}
	result.Log(fmt.Sprintf("Tarefa '%s' excluída", task.Title))

	if _, _, err := s.engine.RefreshProjectMetrics(ctx, task.ProjectID); err != nil {
		s.logger.Warn("Failed to refresh project metrics", zap.String("project_id", task.ProjectID.String()), zap.Error(err))
	}

	result.Set("task_id", task.ID).Set("project_id", task.ProjectID)
	return result, nil
}

type kanbanColumn struct {
	id, title, color string
}

// kanban columns in display order
var kanbanColumns = []kanbanColumn{
	{"LANCAMENTO", "Lançamento", "#6366f1"},
	{"ATIVACAO", "Ativação", "#8b5cf6"},
	{"REVISAO", "Revisão/Preparação", "#ec4899"},
	{"CRIACAO_1_2", "Criação (1ª/2ª)", "#f59e0b"},
	{"CRIACAO_3_4", "Criação (3ª/4ª)", "#f97316"},
	{"APROVACAO", "Aprovação Final", "#10b981"},
	{"PLANEJAMENTO", "Planejamento", "#3b82f6"},
	{"PRE_PRODUCAO", "Pré-Produção", "#06b6d4"},
	{"PRODUCAO", "Produção", "#14b8a6"},
	{"CONCLUIDO", "Concluído", "#22c55e"},
}

var kanbanStageColumns = map[domain.Stage]string{
	domain.StageContractLaunch:     "LANCAMENTO",
	domain.StageProjectActivation:  "ATIVACAO",
	domain.StageTextReview:         "REVISAO",
	domain.StageCreation12:         "CRIACAO_1_2",
	domain.StageLayoutReview:       "CRIACAO_1_2",
	domain.StageLayoutAdjustment:   "CRIACAO_1_2",
	domain.StageCreation34:         "CRIACAO_3_4",
	domain.StageFinalApproval:      "APROVACAO",
	domain.StageProductionPlanning: "PLANEJAMENTO",
	domain.StagePreProduction:      "PRE_PRODUCAO",
}

// KanbanColumnFor returns the board column of a task. Production stages and
// stages past them move to the done column once the task is completed.
func KanbanColumnFor(task *domain.Task) string {
	if col, ok := kanbanStageColumns[task.Stage]; ok {
		return col
	}
	if task.IsCompleted() {
		return "CONCLUIDO"
	}
	switch task.Stage {
	case domain.StageProduction, domain.StageQuality, domain.StageDelivery:
		return "PRODUCAO"
	}
	return "LANCAMENTO"
}

// GetKanban groups a project's tasks into the ten board columns
func (s *taskServiceImpl) GetKanban(ctx context.Context, projectID uuid.UUID) (*dto.KanbanResponse, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, lookupError(err, "Project")
	}
	tasks, err := s.taskRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, internalError("Failed to fetch project tasks", err)
	}

	resp := &dto.KanbanResponse{ProjectID: projectID, Columns: make([]dto.KanbanColumn, len(kanbanColumns))}
	index := make(map[string]int, len(kanbanColumns))
	for i, col := range kanbanColumns {
		resp.Columns[i] = dto.KanbanColumn{ID: col.id, Title: col.title, Color: col.color, Tasks: []*domain.Task{}}
		index[col.id] = i
	}
	for _, task := range tasks {
		i := index[KanbanColumnFor(task)]
		resp.Columns[i].Tasks = append(resp.Columns[i].Tasks, task)
	}
	return resp, nil
}
