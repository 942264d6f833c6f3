package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/dto"
)

func TestOnTimePercent(t *testing.T) {
	assert.Equal(t, 0.0, OnTimePercent(0, 0))
	assert.Equal(t, 100.0, OnTimePercent(4, 4))
	assert.Equal(t, 66.67, OnTimePercent(2, 3))
}

func TestBottlenecks(t *testing.T) {
	task := func(responsible string, status domain.TaskStatus) *domain.Task {
		return &domain.Task{Responsible: responsible, Status: status}
	}
	open := []*domain.Task{
		task("Marcos Letro", domain.TaskStatusPending),
		task("Marcos Letro", domain.TaskStatusInProgress),
		task("Marcos Letro", domain.TaskStatusOverdue),
		task("Carlos Augusto", domain.TaskStatusPending),
		task("Ricardo Mayrink", domain.TaskStatusPending),
		task("", domain.TaskStatusWaiting),
		task("Larissa Elias", domain.TaskStatusCompleted),
	}

	got := Bottlenecks(open, 3)
	assert.Equal(t, []dto.Bottleneck{
		{Responsible: "Marcos Letro", OpenTasks: 3},
		{Responsible: "Carlos Augusto", OpenTasks: 1},
		{Responsible: "Não atribuído", OpenTasks: 1},
	}, got)

	assert.Empty(t, Bottlenecks(nil, 5))
}

func newDashboardTest(t *testing.T) (*testEnv, DashboardService) {
	env := newTestEnv(t)
	svc := NewDashboardService(env.contractRepo, env.projectRepo, env.taskRepo, nil, time.Minute, zap.NewNop())
	svc.(*dashboardServiceImpl).now = func() time.Time { return clockNow }
	return env, svc
}

func TestDashboardService_GetDashboard(t *testing.T) {
	env, svc := newDashboardTest(t)
	ctx := context.Background()

	env.createContract(t)
	_, late := env.createContract(t)
	task := launchTask(t, env, late.ID)
	task.DueDate = clockNow.AddDate(0, 0, -4)
	require.NoError(t, env.taskRepo.Update(ctx, task))
	_, _, err := env.engine.RefreshProjectMetrics(ctx, late.ID)
	require.NoError(t, err)

	resp, err := svc.GetDashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.KPIs.TotalProjects)
	assert.Equal(t, int64(1), resp.KPIs.HighRiskCount)
	assert.Equal(t, 50.0, resp.KPIs.OnTimePercent)
	assert.Equal(t, 1, resp.KPIs.OverdueTasks)
	assert.Equal(t, int64(2), resp.ContractsByStatus[string(domain.ContractStatusActive)])

	require.Len(t, resp.OverdueTasks, 1)
	assert.Equal(t, task.ID, resp.OverdueTasks[0].TaskID)
	assert.Equal(t, 4, resp.OverdueTasks[0].DaysOverdue)
	assert.True(t, resp.OverdueTasks[0].Critical)

	require.NotEmpty(t, resp.Bottlenecks)
	assert.Equal(t, dto.Bottleneck{Responsible: "Keyla Nascimento", OpenTasks: 2}, resp.Bottlenecks[0])
}

func TestDashboardService_GetOverdueTasks(t *testing.T) {
	env, svc := newDashboardTest(t)
	ctx := context.Background()
	_, project := env.createContract(t)

	task := launchTask(t, env, project.ID)
	task.DueDate = clockNow.AddDate(0, 0, -1)
	require.NoError(t, env.taskRepo.Update(ctx, task))

	resp, err := svc.GetOverdueTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, map[string]int{"Keyla Nascimento": 1}, resp.ByResponsible)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, project.ID, resp.Tasks[0].ProjectID)
}

func TestDashboardService_GetDueSoon(t *testing.T) {
	env, svc := newDashboardTest(t)
	ctx := context.Background()

	resp, err := svc.GetDueSoon(ctx)
	require.NoError(t, err)
	assert.Zero(t, resp.Total)
	assert.NotNil(t, resp.Tasks)

	_, project := env.createContract(t)
	task := launchTask(t, env, project.ID)
	task.DueDate = clockNow.Add(12 * time.Hour)
	require.NoError(t, env.taskRepo.Update(ctx, task))

	resp, err = svc.GetDueSoon(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, project.ID, resp.Tasks[0].ProjectID)
}

func TestNotificationService_Inbox(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addAdmin(t, "admin@example.com")
	svc := NewNotificationService(env.notificationRepo, zap.NewNop())

	env.createContract(t)
	env.createContract(t)

	count, err := svc.UnreadCount(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	inbox, err := svc.ListNotifications(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, domain.NotificationApproval, inbox[0].Type)

	require.NoError(t, svc.MarkRead(ctx, inbox[0].ID, admin.ID))
	count, err = svc.UnreadCount(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	err = svc.MarkRead(ctx, inbox[1].ID, uuid.New())
	assert.Error(t, err)

	updated, err := svc.MarkAllRead(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)
}
