package handler

import (
	"context"

	"github.com/google/uuid"

	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/repository"
)

// MockContractService is a mock implementation of ContractService
type MockContractService struct {
	CreateContractFunc   func(ctx context.Context, req *dto.CreateContractRequest) (*dto.OperationResult, error)
	GetContractFunc      func(ctx context.Context, contractID uuid.UUID) (*domain.Contract, error)
	ListContractsFunc    func(ctx context.Context) ([]*domain.Contract, error)
	UpdateContractFunc   func(ctx context.Context, contractID uuid.UUID, req *dto.UpdateContractRequest) (*domain.Contract, error)
	ApproveContractFunc  func(ctx context.Context, contractID uuid.UUID) (*dto.OperationResult, error)
	FinalizeContractFunc func(ctx context.Context, contractID uuid.UUID) (*dto.OperationResult, error)
	DeleteContractFunc   func(ctx context.Context, contractID uuid.UUID) (*dto.OperationResult, error)
}

func (m *MockContractService) CreateContract(ctx context.Context, req *dto.CreateContractRequest) (*dto.OperationResult, error) {
	if m.CreateContractFunc != nil {
		return m.CreateContractFunc(ctx, req)
	}
	return dto.NewOperation("lancar_contrato"), nil
}

func (m *MockContractService) GetContract(ctx context.Context, contractID uuid.UUID) (*domain.Contract, error) {
	if m.GetContractFunc != nil {
		return m.GetContractFunc(ctx, contractID)
	}
	return nil, nil
}

func (m *MockContractService) ListContracts(ctx context.Context) ([]*domain.Contract, error) {
	if m.ListContractsFunc != nil {
		return m.ListContractsFunc(ctx)
	}
	return []*domain.Contract{}, nil
}

func (m *MockContractService) UpdateContract(ctx context.Context, contractID uuid.UUID, req *dto.UpdateContractRequest) (*domain.Contract, error) {
	if m.UpdateContractFunc != nil {
		return m.UpdateContractFunc(ctx, contractID, req)
	}
	return nil, nil
}

func (m *MockContractService) ApproveContract(ctx context.Context, contractID uuid.UUID) (*dto.OperationResult, error) {
	if m.ApproveContractFunc != nil {
		return m.ApproveContractFunc(ctx, contractID)
	}
	return dto.NewOperation("aprovar_contrato"), nil
}

func (m *MockContractService) FinalizeContract(ctx context.Context, contractID uuid.UUID) (*dto.OperationResult, error) {
	if m.FinalizeContractFunc != nil {
		return m.FinalizeContractFunc(ctx, contractID)
	}
	return dto.NewOperation("finalizar_contrato"), nil
}

func (m *MockContractService) DeleteContract(ctx context.Context, contractID uuid.UUID) (*dto.OperationResult, error) {
	if m.DeleteContractFunc != nil {
		return m.DeleteContractFunc(ctx, contractID)
	}
	return dto.NewOperation("excluir_contrato"), nil
}

// MockProjectService is a mock implementation of ProjectService
type MockProjectService struct {
	ListProjectsFunc    func(ctx context.Context) ([]*domain.Project, error)
	GetProjectFunc      func(ctx context.Context, projectID uuid.UUID) (*dto.ProjectDetailResponse, error)
	UpdateProjectFunc   func(ctx context.Context, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.OperationResult, error)
	AdvanceStageFunc    func(ctx context.Context, projectID uuid.UUID) (*dto.OperationResult, error)
	FinalizeProjectFunc func(ctx context.Context, projectID uuid.UUID) (*dto.OperationResult, error)
	GetPipelineFunc     func(ctx context.Context) (*dto.PipelineResponse, error)
	GetAlertsFunc       func(ctx context.Context, projectID uuid.UUID) ([]domain.Alert, error)
}

func (m *MockProjectService) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	if m.ListProjectsFunc != nil {
		return m.ListProjectsFunc(ctx)
	}
	return []*domain.Project{}, nil
}

func (m *MockProjectService) GetProject(ctx context.Context, projectID uuid.UUID) (*dto.ProjectDetailResponse, error) {
	if m.GetProjectFunc != nil {
		return m.GetProjectFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockProjectService) UpdateProject(ctx context.Context, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.OperationResult, error) {
	if m.UpdateProjectFunc != nil {
		return m.UpdateProjectFunc(ctx, projectID, req)
	}
	return dto.NewOperation("atualizar_projeto"), nil
}

func (m *MockProjectService) AdvanceStage(ctx context.Context, projectID uuid.UUID) (*dto.OperationResult, error) {
	if m.AdvanceStageFunc != nil {
		return m.AdvanceStageFunc(ctx, projectID)
	}
	return dto.NewOperation("avancar_etapa"), nil
}

func (m *MockProjectService) FinalizeProject(ctx context.Context, projectID uuid.UUID) (*dto.OperationResult, error) {
	if m.FinalizeProjectFunc != nil {
		return m.FinalizeProjectFunc(ctx, projectID)
	}
	return dto.NewOperation("finalizar_projeto"), nil
}

func (m *MockProjectService) GetPipeline(ctx context.Context) (*dto.PipelineResponse, error) {
	if m.GetPipelineFunc != nil {
		return m.GetPipelineFunc(ctx)
	}
	return &dto.PipelineResponse{}, nil
}

func (m *MockProjectService) GetAlerts(ctx context.Context, projectID uuid.UUID) ([]domain.Alert, error) {
	if m.GetAlertsFunc != nil {
		return m.GetAlertsFunc(ctx, projectID)
	}
	return []domain.Alert{}, nil
}

// MockTaskService is a mock implementation of TaskService
type MockTaskService struct {
	CreateTaskFunc func(ctx context.Context, req *dto.CreateTaskRequest) (*dto.OperationResult, error)
	ListTasksFunc  func(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error)
	GetTaskFunc    func(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)
	UpdateTaskFunc func(ctx context.Context, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.OperationResult, error)
	MoveTaskFunc   func(ctx context.Context, taskID uuid.UUID, stage domain.Stage) (*dto.OperationResult, error)
	DeleteTaskFunc func(ctx context.Context, taskID uuid.UUID) (*dto.OperationResult, error)
	GetKanbanFunc  func(ctx context.Context, projectID uuid.UUID) (*dto.KanbanResponse, error)
}

func (m *MockTaskService) CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.OperationResult, error) {
	if m.CreateTaskFunc != nil {
		return m.CreateTaskFunc(ctx, req)
	}
	return dto.NewOperation("criar_tarefa"), nil
}

func (m *MockTaskService) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error) {
	if m.ListTasksFunc != nil {
		return m.ListTasksFunc(ctx, filter)
	}
	return []*domain.Task{}, nil
}

func (m *MockTaskService) GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetTaskFunc != nil {
		return m.GetTaskFunc(ctx, taskID)
	}
	return nil, nil
}

func (m *MockTaskService) UpdateTask(ctx context.Context, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.OperationResult, error) {
	if m.UpdateTaskFunc != nil {
		return m.UpdateTaskFunc(ctx, taskID, req)
	}
	return dto.NewOperation("atualizar_tarefa"), nil
}

func (m *MockTaskService) MoveTask(ctx context.Context, taskID uuid.UUID, stage domain.Stage) (*dto.OperationResult, error) {
	if m.MoveTaskFunc != nil {
		return m.MoveTaskFunc(ctx, taskID, stage)
	}
	return dto.NewOperation("mover_tarefa"), nil
}

func (m *MockTaskService) DeleteTask(ctx context.Context, taskID uuid.UUID) (*dto.OperationResult, error) {
	if m.DeleteTaskFunc != nil {
		return m.DeleteTaskFunc(ctx, taskID)
	}
	return dto.NewOperation("excluir_tarefa"), nil
}

func (m *MockTaskService) GetKanban(ctx context.Context, projectID uuid.UUID) (*dto.KanbanResponse, error) {
	if m.GetKanbanFunc != nil {
		return m.GetKanbanFunc(ctx, projectID)
	}
	return &dto.KanbanResponse{ProjectID: projectID}, nil
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	RegisterFunc      func(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	LoginFunc         func(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	CurrentUserFunc   func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	ValidateTokenFunc func(ctx context.Context, tokenStr string) (uuid.UUID, error)
}

func (m *MockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return &dto.AuthResponse{}, nil
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return &dto.AuthResponse{}, nil
}

func (m *MockAuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx, userID)
	}
	return &domain.User{}, nil
}

func (m *MockAuthService) ValidateToken(ctx context.Context, tokenStr string) (uuid.UUID, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, tokenStr)
	}
	return uuid.Nil, nil
}

// MockNotificationService is a mock implementation of NotificationService
type MockNotificationService struct {
	ListNotificationsFunc func(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
	UnreadCountFunc       func(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkReadFunc          func(ctx context.Context, notificationID, userID uuid.UUID) error
	MarkAllReadFunc       func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (m *MockNotificationService) ListNotifications(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	if m.ListNotificationsFunc != nil {
		return m.ListNotificationsFunc(ctx, userID)
	}
	return []*domain.Notification{}, nil
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.UnreadCountFunc != nil {
		return m.UnreadCountFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockNotificationService) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, notificationID, userID)
	}
	return nil
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.MarkAllReadFunc != nil {
		return m.MarkAllReadFunc(ctx, userID)
	}
	return 0, nil
}
