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

// ContractService defines the interface for contract business logic
type ContractService interface {
	CreateContract(ctx context.Context, req *dto.CreateContractRequest) (*dto.OperationResult, error)
	GetContract(ctx context.Context, contractID uuid.UUID) (*domain.Contract, error)
	ListContracts(ctx context.Context) ([]*domain.Contract, error)
	UpdateContract(ctx context.Context, contractID uuid.UUID, req *dto.UpdateContractRequest) (*domain.Contract, error)
	ApproveContract(ctx context.Context, contractID uuid.UUID) (*dto.OperationResult, error)
	FinalizeContract(ctx context.Context, contractID uuid.UUID) (*dto.OperationResult, error)
	DeleteContract(ctx context.Context, contractID uuid.UUID) (*dto.OperationResult, error)
}

// contractServiceImpl is the implementation of ContractService
type contractServiceImpl struct {
	contractRepo repository.ContractRepository
	projectRepo  repository.ProjectRepository
	taskRepo     repository.TaskRepository
	engine       WorkflowEngine
	generator    TaskGenerator
	dispatcher   NotificationDispatcher
	stages       *stageEntry
	now          func() time.Time
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewContractService creates a new instance of ContractService
func NewContractService(
	contractRepo repository.ContractRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	engine WorkflowEngine,
	generator TaskGenerator,
	dispatcher NotificationDispatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
) ContractService {
	return &contractServiceImpl{
		contractRepo: contractRepo,
		projectRepo:  projectRepo,
		taskRepo:     taskRepo,
		engine:       engine,
		generator:    generator,
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

// CreateContract registers a contract together with its project and the
// first stage's tasks
func (s *contractServiceImpl) CreateContract(ctx context.Context, req *dto.CreateContractRequest) (*dto.OperationResult, error) {
	if err := validatePeriod(req.Value, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	result := dto.NewOperation(ActionCreateContract)

	number := req.Number
	if number <= 0 {
		next, err := s.contractRepo.NextNumber(ctx)
		if err != nil {
			return nil, internalError("Failed to assign contract number", err)
		}
		number = next
	}

	contract := &domain.Contract{
		Number:      number,
		Client:      req.Client,
		Institution: req.Institution,
		Term:        req.Term,
		Value:       req.Value,
		StartDate:   req.StartDate.UTC(),
		EndDate:     req.EndDate.UTC(),
		Status:      domain.ContractStatusActive,
	}
	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, internalError("Failed to create contract", err)
	}

	project := &domain.Project{
		ContractID:     contract.ID,
		Progress:       0,
		Risk:           domain.RiskLow,
		DeliveryDate:   contract.EndDate,
		AccountManager: domain.DefaultAccountManager,
		Designer:       domain.DefaultDesigner,
	}
	project.MoveTo(domain.StageContractLaunch)
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, internalError("Failed to create project", err)
	}

	contract.ProjectID = &project.ID
	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, internalError("Failed to link project to contract", err)
	}
	s.metrics.IncrementContractCreated()
	result.Log(fmt.Sprintf("Contrato %d criado para %s", contract.Number, contract.Client))

	tasks, err := s.generator.GenerateStageTasks(ctx, project.ID, domain.StageContractLaunch, contract.StartDate)
	if err != nil {
		return nil, internalError("Failed to generate tasks", err)
	}
	result.Log(fmt.Sprintf("%d tarefa(s) criada(s) para a etapa '%s'", len(tasks), domain.StageContractLaunch))
	s.stages.notifyAssignees(ctx, tasks, result)

	recipients, err := s.dispatcher.NotifyApprovalRequested(ctx, contract, project)
	if err != nil {
		s.logger.Warn("Failed to request contract approval", zap.Error(err))
	}
	result.Notified(recipients...)

	progress, risk, err := s.engine.RefreshProjectMetrics(ctx, project.ID)
	if err != nil {
		return nil, internalError("Failed to compute project metrics", err)
	}

	s.logger.Info("Contract created",
		zap.String("contract_id", contract.ID.String()),
		zap.String("project_id", project.ID.String()),
		zap.Int("tasks_created", len(tasks)),
	)

	result.Set("contract_id", contract.ID).
		Set("contract_number", contract.Number).
		Set("project_id", project.ID).
		Set("stage", project.CurrentStage).
		Set("tasks_created", len(tasks)).
		Set("progress", progress).
		Set("risk", risk)
	return result, nil
}

// GetContract retrieves a contract by ID
func (s *contractServiceImpl) GetContract(ctx context.Context, contractID uuid.UUID) (*domain.Contract, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, lookupError(err, "Contract")
	}
	return contract, nil
}

// ListContracts retrieves every contract, newest first
func (s *contractServiceImpl) ListContracts(ctx context.Context) ([]*domain.Contract, error) {
	contracts, err := s.contractRepo.FindAll(ctx)
	if err != nil {
		return nil, internalError("Failed to fetch contracts", err)
	}
	return contracts, nil
}

// UpdateContract applies a partial update and revalidates value and period
func (s *contractServiceImpl) UpdateContract(ctx context.Context, contractID uuid.UUID, req *dto.UpdateContractRequest) (*domain.Contract, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, lookupError(err, "Contract")
	}

	if req.Client != nil {
		contract.Client = *req.Client
	}
	if req.Institution != nil {
		contract.Institution = *req.Institution
	}
	if req.Term != nil {
		contract.Term = *req.Term
	}
	if req.Value != nil {
		contract.Value = *req.Value
	}
	if req.StartDate != nil {
		contract.StartDate = req.StartDate.UTC()
	}
	if req.EndDate != nil {
		contract.EndDate = req.EndDate.UTC()
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, response.NewValidationError("Invalid contract status", string(*req.Status))
		}
		contract.Status = *req.Status
	}

	if err := validatePeriod(contract.Value, contract.StartDate, contract.EndDate); err != nil {
		return nil, err
	}

	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, internalError("Failed to update contract", err)
	}
	return contract, nil
}

// ApproveContract starts production work: the contract moves to Em Andamento and
// a project still at launch enters project activation
func (s *contractServiceImpl) ApproveContract(ctx context.Context, contractID uuid.UUID) (*dto.OperationResult, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, lookupError(err, "Contract")
	}

	result := dto.NewOperation(ActionApproveContract)
	if contract.Status != domain.ContractStatusActive {
		return block(result, fmt.Sprintf("Somente contratos com status %s podem ser aprovados (status atual: %s)",
			domain.ContractStatusActive, contract.Status), s.metrics, s.logger), nil
	}

	project, err := s.projectForContract(ctx, contract)
	if err != nil {
		return nil, err
	}

	if err := s.contractRepo.UpdateStatus(ctx, contract.ID, domain.ContractStatusInProgress); err != nil {
		return nil, internalError("Failed to approve contract", err)
	}
	contract.Status = domain.ContractStatusInProgress
	result.Log(fmt.Sprintf("Contrato %d aprovado", contract.Number))
	result.Set("contract_id", contract.ID).Set("contract_status", contract.Status)

	if project.CurrentStage == domain.StageContractLaunch {
		if err := s.stages.enter(ctx, project, contract, domain.StageProjectActivation, s.now(), result); err != nil {
			return nil, internalError("Failed to activate project", err)
		}
	}
	return result, nil
}

// FinalizeContract closes a contract whose project has no pending task
func (s *contractServiceImpl) FinalizeContract(ctx context.Context, contractID uuid.UUID) (*dto.OperationResult, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, lookupError(err, "Contract")
	}
	project, err := s.projectForContract(ctx, contract)
	if err != nil {
		return nil, err
	}

	result := dto.NewOperation(ActionFinalizeContract)
	tasks, err := s.taskRepo.FindByProjectID(ctx, project.ID)
	if err != nil {
		return nil, internalError("Failed to fetch project tasks", err)
	}
	if pending := PendingTasks(tasks); len(pending) > 0 {
		return block(result, "Não é possível finalizar o contrato. "+DescribePending(pending), s.metrics, s.logger), nil
	}

	project.MoveTo(domain.StageClosed)
	project.Progress = 100
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, internalError("Failed to close project", err)
	}
	if err := s.contractRepo.UpdateStatus(ctx, contract.ID, domain.ContractStatusFinalized); err != nil {
		return nil, internalError("Failed to finalize contract", err)
	}

	result.Log(fmt.Sprintf("Contrato %d finalizado", contract.Number))
	result.Set("contract_id", contract.ID).
		Set("contract_status", domain.ContractStatusFinalized).
		Set("project_id", project.ID).
		Set("stage", project.CurrentStage).
		Set("progress", project.Progress)
	return result, nil
}

// DeleteContract removes a contract with its project and tasks unless
// production has started
func (s *contractServiceImpl) DeleteContract(ctx context.Context, contractID uuid.UUID) (*dto.OperationResult, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, lookupError(err, "Contract")
	}

	result := dto.NewOperation(ActionDeleteContract)
	var project *domain.Project
	if contract.ProjectID != nil {
		project, err = s.projectRepo.FindByID(ctx, *contract.ProjectID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, internalError("Failed to load Project", err)
			}
			project = nil
		}
	}

	if project != nil && productionStarted(project) {
		return block(result, fmt.Sprintf("Bloqueio absoluto: o projeto está em '%s' (%s) e não pode ser excluído",
			project.CurrentStage, project.MacroStage), s.metrics, s.logger), nil
	}

	if project != nil {
		if err := s.taskRepo.DeleteByProjectID(ctx, project.ID); err != nil {
			return nil, internalError("Failed to delete project tasks", err)
		}
		if err := s.projectRepo.Delete(ctx, project.ID); err != nil {
			return nil, internalError("Failed to delete project", err)
		}
		result.Set("project_id", project.ID)
	}
	if err := s.contractRepo.Delete(ctx, contract.ID); err != nil {
		return nil, internalError("Failed to delete contract", err)
	}

	s.logger.Info("Contract deleted", zap.String("contract_id", contract.ID.String()))
	result.Log(fmt.Sprintf("Contrato %d excluído", contract.Number))
	result.Set("contract_id", contract.ID)
	return result, nil
}

func (s *contractServiceImpl) projectForContract(ctx context.Context, contract *domain.Contract) (*domain.Project, error) {
	if contract.ProjectID == nil {
		return nil, response.NewNotFoundError("Project not found", "contract has no project")
	}
	project, err := s.projectRepo.FindByID(ctx, *contract.ProjectID)
	if err != nil {
		return nil, lookupError(err, "Project")
	}
	return project, nil
}

// productionStarted reports whether a project reached production or beyond
func productionStarted(p *domain.Project) bool {
	if p.CurrentStage.Index() >= domain.StageProduction.Index() {
		return true
	}
	return p.MacroStage == domain.MacroProduction || p.MacroStage == domain.MacroAfterSales
}
