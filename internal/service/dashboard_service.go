package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/repository"
)

const (
	dashboardCacheKey       = "dashboard:overview"
	dashboardTopOverdue     = 10
	dashboardTopBottlenecks = 5
	dueSoonWindow           = 24 * time.Hour
)

// DashboardService builds the management overview
type DashboardService interface {
	GetDashboard(ctx context.Context) (*dto.DashboardResponse, error)
	GetOverdueTasks(ctx context.Context) (*dto.OverdueStatsResponse, error)
	GetDueSoon(ctx context.Context) (*dto.DueSoonResponse, error)
}

// dashboardServiceImpl is the implementation of DashboardService
type dashboardServiceImpl struct {
	contractRepo repository.ContractRepository
	projectRepo  repository.ProjectRepository
	taskRepo     repository.TaskRepository
	redis        *redis.Client
	cacheTTL     time.Duration
	now          func() time.Time
	logger       *zap.Logger
}

// NewDashboardService creates a new instance of DashboardService. redis may be
// nil, in which case every call is computed from the database.
func NewDashboardService(
	contractRepo repository.ContractRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	redis *redis.Client,
	cacheTTL time.Duration,
	logger *zap.Logger,
) DashboardService {
	return &dashboardServiceImpl{
		contractRepo: contractRepo,
		projectRepo:  projectRepo,
		taskRepo:     taskRepo,
		redis:        redis,
		cacheTTL:     cacheTTL,
		now:          time.Now,
		logger:       logger,
	}
}

func (s *dashboardServiceImpl) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	if cached := s.cached(ctx); cached != nil {
		return cached, nil
	}

	total, err := s.projectRepo.Count(ctx)
	if err != nil {
		return nil, internalError("Failed to count projects", err)
	}
	byRisk, err := s.projectRepo.CountByRisk(ctx)
	if err != nil {
		return nil, internalError("Failed to count projects by risk", err)
	}
	byStatus, err := s.contractRepo.CountByStatus(ctx)
	if err != nil {
		return nil, internalError("Failed to count contracts", err)
	}

	now := s.now()
	overdue, err := s.taskRepo.FindOpenDueBefore(ctx, now)
	if err != nil {
		return nil, internalError("Failed to fetch overdue tasks", err)
	}
	open, err := s.taskRepo.FindOpen(ctx)
	if err != nil {
		return nil, internalError("Failed to fetch open tasks", err)
	}

	resp := &dto.DashboardResponse{
		KPIs: dto.DashboardKPIs{
			TotalProjects:   total,
			OnTimePercent:   OnTimePercent(byRisk[domain.RiskLow], total),
			HighRiskCount:   byRisk[domain.RiskHigh],
			MediumRiskCount: byRisk[domain.RiskMedium],
			OverdueTasks:    len(overdue),
		},
		ContractsByStatus: make(map[string]int64, len(byStatus)),
		OverdueTasks:      overdueItems(overdue, now),
		Bottlenecks:       Bottlenecks(open, dashboardTopBottlenecks),
		GeneratedAt:       now.UTC(),
	}
	for status, n := range byStatus {
		resp.ContractsByStatus[string(status)] = n
	}
	if len(resp.OverdueTasks) > dashboardTopOverdue {
		resp.OverdueTasks = resp.OverdueTasks[:dashboardTopOverdue]
	}

	s.store(ctx, resp)
	return resp, nil
}

func (s *dashboardServiceImpl) GetOverdueTasks(ctx context.Context) (*dto.OverdueStatsResponse, error) {
	now := s.now()
	tasks, err := s.taskRepo.FindOpenDueBefore(ctx, now)
	if err != nil {
		return nil, internalError("Failed to fetch overdue tasks", err)
	}

	resp := &dto.OverdueStatsResponse{
		Total:         len(tasks),
		ByResponsible: make(map[string]int),
		Tasks:         overdueItems(tasks, now),
	}
	for _, t := range tasks {
		resp.ByResponsible[responsibleOrUnassigned(t.Responsible)]++
	}
	return resp, nil
}

func (s *dashboardServiceImpl) GetDueSoon(ctx context.Context) (*dto.DueSoonResponse, error) {
	now := s.now()
	tasks, err := s.taskRepo.FindOpenDueBetween(ctx, now, now.Add(dueSoonWindow))
	if err != nil {
		return nil, internalError("Failed to fetch tasks due soon", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return &dto.DueSoonResponse{Total: len(tasks), Tasks: tasks}, nil
}

func (s *dashboardServiceImpl) cached(ctx context.Context) *dto.DashboardResponse {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("Failed to read dashboard cache", zap.Error(err))
		}
		return nil
	}
	var resp dto.DashboardResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		s.logger.Warn("Discarding malformed dashboard cache entry", zap.Error(err))
		return nil
	}
	return &resp
}

func (s *dashboardServiceImpl) store(ctx context.Context, resp *dto.DashboardResponse) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, dashboardCacheKey, data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("Failed to write dashboard cache", zap.Error(err))
	}
}

// OnTimePercent is the share of low-risk projects, rounded to two decimals
func OnTimePercent(lowRisk, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return round2(float64(lowRisk) / float64(total) * 100)
}

// Bottlenecks ranks responsible parties by open task count, keeping the top n.
// Ties are broken by name.
func Bottlenecks(open []*domain.Task, n int) []dto.Bottleneck {
	counts := make(map[string]int)
	for _, t := range open {
		if t.IsCompleted() {
			continue
		}
		counts[responsibleOrUnassigned(t.Responsible)]++
	}

	out := make([]dto.Bottleneck, 0, len(counts))
	for name, c := range counts {
		out = append(out, dto.Bottleneck{Responsible: name, OpenTasks: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OpenTasks != out[j].OpenTasks {
			return out[i].OpenTasks > out[j].OpenTasks
		}
		return out[i].Responsible < out[j].Responsible
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func overdueItems(tasks []*domain.Task, now time.Time) []dto.OverdueTaskItem {
	items := make([]dto.OverdueTaskItem, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, dto.OverdueTaskItem{
			TaskID:      t.ID,
			ProjectID:   t.ProjectID,
			Title:       t.Title,
			Stage:       t.Stage,
			Responsible: t.Responsible,
			DueDate:     t.DueDate,
			DaysOverdue: t.DaysOverdue(now),
			Critical:    t.Critical,
		})
	}
	return items
}

func responsibleOrUnassigned(name string) string {
	if name == "" {
		return "Não atribuído"
	}
	return name
}
