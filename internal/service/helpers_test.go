package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"contract-workflow-api/internal/database"
	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/metrics"
	"contract-workflow-api/internal/repository"
	"contract-workflow-api/internal/response"
)

// clockNow is the fixed instant every scenario runs at
var clockNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

const testManagementEmail = "gerencia@example.com"

// testEnv wires real repositories over an in-memory database to the services
type testEnv struct {
	db               *gorm.DB
	contractRepo     repository.ContractRepository
	projectRepo      repository.ProjectRepository
	taskRepo         repository.TaskRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	metrics          *metrics.Metrics

	engine    WorkflowEngine
	generator TaskGenerator
	contracts ContractService
	projects  ProjectService
	tasks     TaskService
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "Failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := setupTestDB(t)
	logger := zap.NewNop()
	clock := func() time.Time { return clockNow }

	env := &testEnv{
		db:               db,
		contractRepo:     repository.NewContractRepository(db),
		projectRepo:      repository.NewProjectRepository(db),
		taskRepo:         repository.NewTaskRepository(db),
		userRepo:         repository.NewUserRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		metrics:          metrics.NewWithRegistry(prometheus.NewRegistry(), logger),
	}

	env.engine = NewWorkflowEngine(env.projectRepo, env.taskRepo, clock, logger)
	env.generator = NewTaskGenerator(env.taskRepo, env.metrics, logger)
	dispatcher := NewNotificationDispatcher(env.notificationRepo, env.userRepo, nil, testManagementEmail, env.metrics, logger)

	contracts := NewContractService(env.contractRepo, env.projectRepo, env.taskRepo, env.engine, env.generator, dispatcher, env.metrics, logger)
	contracts.(*contractServiceImpl).now = clock
	projects := NewProjectService(env.projectRepo, env.contractRepo, env.taskRepo, env.engine, env.generator, dispatcher, env.metrics, logger)
	projects.(*projectServiceImpl).now = clock
	tasks := NewTaskService(env.taskRepo, env.projectRepo, env.engine, dispatcher, env.metrics, logger)
	tasks.(*taskServiceImpl).now = clock

	env.contracts, env.projects, env.tasks = contracts, projects, tasks
	return env
}

// addAdmin stores an active administrator that receives approval requests
func (e *testEnv) addAdmin(t *testing.T, email string) *domain.User {
	user := &domain.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: "x",
		Role:         domain.RoleAdmin,
		Active:       true,
		Permissions:  datatypes.NewJSONType(domain.DefaultPermissions(true)),
	}
	require.NoError(t, e.userRepo.Create(context.Background(), user))
	return user
}

// createContract runs the create use case and returns the new contract and project
func (e *testEnv) createContract(t *testing.T) (*domain.Contract, *domain.Project) {
	ctx := context.Background()
	result, err := e.contracts.CreateContract(ctx, &dto.CreateContractRequest{
		Client:      "Formandos Medicina UFMG 2025",
		Institution: "UFMG",
		Term:        "2025/1",
		Value:       45000,
		StartDate:   clockNow,
		EndDate:     clockNow.AddDate(0, 0, 90),
	})
	require.NoError(t, err)
	require.Equal(t, dto.OperationSuccess, result.Status, result.Reason)

	contract, err := e.contractRepo.FindByID(ctx, result.AffectedData["contract_id"].(uuid.UUID))
	require.NoError(t, err)
	project, err := e.projectRepo.FindByID(ctx, result.AffectedData["project_id"].(uuid.UUID))
	require.NoError(t, err)
	return contract, project
}

// completeStage marks every task of the project's stage as completed
func (e *testEnv) completeStage(t *testing.T, projectID uuid.UUID, stage domain.Stage) {
	ctx := context.Background()
	tasks, err := e.taskRepo.FindByProjectAndStage(ctx, projectID, stage)
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	if len(ids) > 0 {
		require.NoError(t, e.taskRepo.UpdateStatus(ctx, ids, domain.TaskStatusCompleted))
	}
}

// placeProject moves a project directly to stage, bypassing the workflow rules
func (e *testEnv) placeProject(t *testing.T, project *domain.Project, stage domain.Stage) {
	project.MoveTo(stage)
	require.NoError(t, e.projectRepo.Update(context.Background(), project))
}

func requireAppError(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *response.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code)
}
