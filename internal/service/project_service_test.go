package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/response"
)

func TestProjectService_AdvanceStage_BlockedByPendingTasks(t *testing.T) {
	env := newTestEnv(t)
	_, project := env.createContract(t)

	result, err := env.projects.AdvanceStage(context.Background(), project.ID)
	require.NoError(t, err)
	assert.True(t, result.IsBlocked())
	assert.Equal(t, ActionAdvanceStage, result.ActionName)
	assert.Equal(t,
		"Não é possível avançar da etapa '1 - Lançamento do Contrato'. Existem 1 tarefa(s) pendente(s): Lançamento do Contrato",
		result.Reason)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.BlockedOperationsTotal.WithLabelValues(ActionAdvanceStage)))

	stored, err := env.projectRepo.FindByID(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageContractLaunch, stored.CurrentStage)
	assert.Equal(t, domain.MacroService, stored.MacroStage)
}

func TestProjectService_AdvanceStage_NextStage(t *testing.T) {
	tests := []struct {
		from domain.Stage
		want domain.Stage
	}{
		{domain.StageContractLaunch, domain.StageProjectActivation},
		{domain.StageTextReview, domain.StageCreation12},
		{domain.StageCreation12, domain.StageLayoutReview},
		{domain.StageLayoutReview, domain.StageLayoutAdjustment},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			_, project := env.createContract(t)
			env.completeStage(t, project.ID, domain.StageContractLaunch)
			env.placeProject(t, project, tt.from)
			_, err := env.generator.GenerateStageTasks(ctx, project.ID, tt.from, clockNow)
			require.NoError(t, err)
			env.completeStage(t, project.ID, tt.from)

			result, err := env.projects.AdvanceStage(ctx, project.ID)
			require.NoError(t, err)
			require.Equal(t, dto.OperationSuccess, result.Status, result.Reason)
			assert.Equal(t, tt.from, result.AffectedData["previous_stage"])
			assert.Equal(t, tt.want, result.AffectedData["new_stage"])

			stored, err := env.projectRepo.FindByID(ctx, project.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored.CurrentStage)
			assert.Equal(t, tt.want.Macro(), stored.MacroStage)
		})
	}
}

func TestProjectService_AdvanceStage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, project := env.createContract(t)
	env.completeStage(t, project.ID, domain.StageContractLaunch)

	result, err := env.projects.AdvanceStage(ctx, project.ID)
	require.NoError(t, err)
	require.Equal(t, dto.OperationSuccess, result.Status, result.Reason)
	assert.Equal(t, domain.StageContractLaunch, result.AffectedData["previous_stage"])
	assert.Equal(t, domain.StageProjectActivation, result.AffectedData["new_stage"])
	assert.Equal(t, 3, result.AffectedData["tasks_created"])
	assert.Equal(t, 25.0, result.AffectedData["progress"])

	stored, err := env.projectRepo.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageProjectActivation, stored.CurrentStage)
	assert.Equal(t, 25.0, stored.Progress)

	tasks, err := env.taskRepo.FindByProjectAndStage(ctx, project.ID, domain.StageProjectActivation)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	for i, task := range tasks {
		assert.Equal(t, 2+i, task.CatalogNumber)
		assert.True(t, task.DueDate.Equal(clockNow.AddDate(0, 0, domain.StageProjectActivation.OffsetDays()+i)))
	}
	assert.True(t, tasks[2].Critical, "Reunião de Criação is critical")
}

func TestProjectService_AdvanceStage_LastStage(t *testing.T) {
	env := newTestEnv(t)
	_, project := env.createContract(t)
	env.completeStage(t, project.ID, domain.StageContractLaunch)
	env.placeProject(t, project, domain.StageClosed)

	result, err := env.projects.AdvanceStage(context.Background(), project.ID)
	require.NoError(t, err)
	assert.True(t, result.IsBlocked())
	assert.Equal(t, "Projeto já está na última etapa", result.Reason)
}

func TestProjectService_AdvanceStage_PhaseGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, project := env.createContract(t)
	env.completeStage(t, project.ID, domain.StageContractLaunch)
	env.placeProject(t, project, domain.StageFinalApproval)

	leftover := &domain.Task{
		ProjectID:   project.ID,
		Stage:       domain.StageCreation34,
		MacroStage:  domain.MacroCreation,
		Title:       "4º Ajuste",
		Responsible: "Marcos Letro",
		DueDate:     clockNow.AddDate(0, 0, 2),
		Status:      domain.TaskStatusInProgress,
	}
	require.NoError(t, env.taskRepo.Create(ctx, leftover))

	result, err := env.projects.AdvanceStage(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, result.IsBlocked())
	assert.Contains(t, result.Reason, "Para entrar em Pré-Produção todas as tarefas de Criação devem estar concluídas")
	assert.Contains(t, result.Reason, "4º Ajuste")

	stored, err := env.projectRepo.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageFinalApproval, stored.CurrentStage)
}

func TestProjectService_AdvanceStage_IntoProductionStartsContract(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	contract, project := env.createContract(t)
	env.completeStage(t, project.ID, domain.StageContractLaunch)
	env.placeProject(t, project, domain.StagePreProduction)

	result, err := env.projects.AdvanceStage(ctx, project.ID)
	require.NoError(t, err)
	require.Equal(t, dto.OperationSuccess, result.Status, result.Reason)
	assert.Equal(t, domain.MacroProduction, result.AffectedData["macro_stage"])

	stored, err := env.contractRepo.FindByID(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContractStatusInProgress, stored.Status)
}

func TestProjectService_AdvanceStage_FinalApprovalRequestsApproval(t *testing.T) {
	env := newTestEnv(t)
	env.addAdmin(t, "diretoria@example.com")
	_, project := env.createContract(t)
	env.completeStage(t, project.ID, domain.StageContractLaunch)
	env.placeProject(t, project, domain.StageCreation34)

	result, err := env.projects.AdvanceStage(context.Background(), project.ID)
	require.NoError(t, err)
	require.Equal(t, dto.OperationSuccess, result.Status, result.Reason)
	assert.Contains(t, result.NotificationsSent, "diretoria@example.com")
}

func TestProjectService_UpdateProject_StageRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, project := env.createContract(t)

	skip := domain.StageCreation12
	result, err := env.projects.UpdateProject(ctx, project.ID, &dto.UpdateProjectRequest{CurrentStage: &skip})
	require.NoError(t, err)
	assert.True(t, result.IsBlocked())
	assert.Contains(t, result.Reason, "Não é permitido pular etapas")

	next := domain.StageProjectActivation
	designer := "Larissa Elias"
	result, err = env.projects.UpdateProject(ctx, project.ID, &dto.UpdateProjectRequest{CurrentStage: &next, Designer: &designer})
	require.NoError(t, err)
	require.Equal(t, dto.OperationSuccess, result.Status, result.Reason)

	stored, err := env.projectRepo.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageProjectActivation, stored.CurrentStage)
	assert.Equal(t, designer, stored.Designer)
}

func TestProjectService_UpdateProject_FieldsOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, project := env.createContract(t)

	delivery := clockNow.AddDate(0, 0, 3)
	result, err := env.projects.UpdateProject(ctx, project.ID, &dto.UpdateProjectRequest{DeliveryDate: &delivery})
	require.NoError(t, err)
	require.Equal(t, dto.OperationSuccess, result.Status)
	assert.Equal(t, domain.RiskMedium, result.AffectedData["risk"])
}

func TestProjectService_FinalizeProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	contract, project := env.createContract(t)

	blocked, err := env.projects.FinalizeProject(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked())
	assert.Contains(t, blocked.Reason, "Não é possível finalizar o projeto.")

	env.completeStage(t, project.ID, domain.StageContractLaunch)
	result, err := env.projects.FinalizeProject(ctx, project.ID)
	require.NoError(t, err)
	require.Equal(t, dto.OperationSuccess, result.Status, result.Reason)
	assert.Equal(t, []string{testManagementEmail}, result.NotificationsSent)

	stored, err := env.contractRepo.FindByID(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContractStatusFinalized, stored.Status)

	closed, err := env.projectRepo.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageClosed, closed.CurrentStage)
	assert.Equal(t, 100.0, closed.Progress)
	assert.Equal(t, domain.RiskLow, closed.Risk)
}

func TestProjectService_GetProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	contract, project := env.createContract(t)

	detail, err := env.projects.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, detail.Project.ID)
	require.NotNil(t, detail.Contract)
	assert.Equal(t, contract.ID, detail.Contract.ID)
	assert.Len(t, detail.Tasks, 1)
	assert.Empty(t, detail.Alerts)

	_, err = env.projects.GetProject(ctx, uuid.New())
	requireAppError(t, err, response.ErrCodeNotFound)
}

func TestProjectService_GetAlerts_OverdueCritical(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, project := env.createContract(t)

	tasks, err := env.taskRepo.FindByProjectID(ctx, project.ID)
	require.NoError(t, err)
	tasks[0].DueDate = clockNow.AddDate(0, 0, -2)
	require.NoError(t, env.taskRepo.Update(ctx, tasks[0]))

	alerts, err := env.projects.GetAlerts(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, domain.AlertOverdueTask, alerts[0].Type)
	assert.Equal(t, domain.RiskHigh, alerts[0].Severity)
	assert.Equal(t, domain.AlertHighRisk, alerts[1].Type)
}

func TestProjectService_GetPipeline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	contract, _ := env.createContract(t)
	_, inProduction := env.createContract(t)
	env.placeProject(t, inProduction, domain.StageQuality)

	pipeline, err := env.projects.GetPipeline(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, pipeline.Total)
	require.Len(t, pipeline.Columns, 3)

	require.Len(t, pipeline.Columns[0].Projects, 1)
	assert.Equal(t, contract.Client, pipeline.Columns[0].Projects[0].Client)
	assert.Equal(t, contract.Number, pipeline.Columns[0].Projects[0].Number)
	assert.Len(t, pipeline.Columns[1].Projects, 1)
	assert.Empty(t, pipeline.Columns[2].Projects)
}

func TestWorkflowEngine_MissingProjectFallsBack(t *testing.T) {
	env := newTestEnv(t)

	progress, risk, err := env.engine.RefreshProjectMetrics(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, progress)
	assert.Equal(t, domain.RiskLow, risk)

	alerts, err := env.engine.DetectAlerts(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, alerts)
}
