package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/response"
	"contract-workflow-api/internal/service"
)

// DashboardHandler serves the management overview and the workflow catalog
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new instance of DashboardHandler
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard godoc
// @Summary      Management dashboard
// @Description  KPIs, contracts by status, top overdue tasks and bottleneck owners
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.DashboardResponse}
// @Router       /dashboard [get]
// @Security     BearerAuth
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.GetDashboard(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, dashboard)
}

// GetOverdueTasks godoc
// @Summary      Overdue task statistics
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.OverdueStatsResponse}
// @Router       /dashboard/overdue-tasks [get]
// @Security     BearerAuth
func (h *DashboardHandler) GetOverdueTasks(c *gin.Context) {
	stats, err := h.dashboardService.GetOverdueTasks(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, stats)
}

// GetDueSoon godoc
// @Summary      Tasks due within a day
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.DueSoonResponse}
// @Router       /dashboard/due-soon [get]
// @Security     BearerAuth
func (h *DashboardHandler) GetDueSoon(c *gin.Context) {
	due, err := h.dashboardService.GetDueSoon(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, due)
}

// GetCatalog godoc
// @Summary      Workflow catalog
// @Description  Stages with their macro stage and due-date offset, and the activity catalog
// @Tags         catalog
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.CatalogResponse}
// @Router       /catalog [get]
func (h *DashboardHandler) GetCatalog(c *gin.Context) {
	response.SendSuccess(c, http.StatusOK, dto.NewCatalogResponse())
}
