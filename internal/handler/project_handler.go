package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/response"
	"contract-workflow-api/internal/service"
)

// ProjectHandler handles project workflow requests
type ProjectHandler struct {
	projectService service.ProjectService
}

// NewProjectHandler creates a new instance of ProjectHandler
func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects godoc
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]domain.Project}
// @Router       /projects [get]
// @Security     BearerAuth
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, projects)
}

// GetProject godoc
// @Summary      Get a project
// @Description  Project with its contract, tasks and live alerts
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ProjectDetailResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /projects/{projectId} [get]
// @Security     BearerAuth
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := parseID(c, "projectId", "project")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, project)
}

// UpdateProject godoc
// @Summary      Update a project
// @Description  A stage change must pass the transition rule and the phase gate
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        request body dto.UpdateProjectRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=dto.OperationResult}
// @Failure      422 {object} response.SuccessResponse{data=dto.OperationResult}
// @Router       /projects/{projectId} [put]
// @Security     BearerAuth
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, ok := parseID(c, "projectId", "project")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.projectService.UpdateProject(c.Request.Context(), projectID, &req)
	sendOperation(c, service.ActionUpdateProject, http.StatusOK, result, err)
}

// AdvanceStage godoc
// @Summary      Advance to the next stage
// @Description  Requires every task of the current stage to be Concluído
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.OperationResult}
// @Failure      422 {object} response.SuccessResponse{data=dto.OperationResult}
// @Router       /projects/{projectId}/advance [post]
// @Security     BearerAuth
func (h *ProjectHandler) AdvanceStage(c *gin.Context) {
	projectID, ok := parseID(c, "projectId", "project")
	if !ok {
		return
	}

	result, err := h.projectService.AdvanceStage(c.Request.Context(), projectID)
	sendOperation(c, service.ActionAdvanceStage, http.StatusOK, result, err)
}

// FinalizeProject godoc
// @Summary      Finalize a project
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.OperationResult}
// @Failure      422 {object} response.SuccessResponse{data=dto.OperationResult}
// @Router       /projects/{projectId}/finalize [post]
// @Security     BearerAuth
func (h *ProjectHandler) FinalizeProject(c *gin.Context) {
	projectID, ok := parseID(c, "projectId", "project")
	if !ok {
		return
	}

	result, err := h.projectService.FinalizeProject(c.Request.Context(), projectID)
	sendOperation(c, service.ActionFinalizeProject, http.StatusOK, result, err)
}

// GetPipeline godoc
// @Summary      Project pipeline
// @Description  Projects grouped into pre-production, production and post-production columns
// @Tags         projects
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.PipelineResponse}
// @Router       /projects/pipeline [get]
// @Security     BearerAuth
func (h *ProjectHandler) GetPipeline(c *gin.Context) {
	pipeline, err := h.projectService.GetPipeline(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, pipeline)
}

// GetAlerts godoc
// @Summary      Project alerts
// @Description  Overdue tasks, critical tasks due soon and high risk
// @Tags         alerts
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]domain.Alert}
// @Failure      404 {object} response.ErrorResponse
// @Router       /alerts/{projectId} [get]
// @Security     BearerAuth
func (h *ProjectHandler) GetAlerts(c *gin.Context) {
	projectID, ok := parseID(c, "projectId", "project")
	if !ok {
		return
	}

	alerts, err := h.projectService.GetAlerts(c.Request.Context(), projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, alerts)
}
