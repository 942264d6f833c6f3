package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/repository"
	"contract-workflow-api/internal/response"
	"contract-workflow-api/internal/service"
)

// TaskHandler handles task and kanban requests
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new instance of TaskHandler
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask godoc
// @Summary      Add a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateTaskRequest true "Task"
// @Success      201 {object} response.SuccessResponse{data=dto.OperationResult}
// @Failure      400 {object} response.ErrorResponse
// @Failure      422 {object} response.SuccessResponse{data=dto.OperationResult}
// @Router       /tasks [post]
// @Security     BearerAuth
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.taskService.CreateTask(c.Request.Context(), &req)
	sendOperation(c, service.ActionCreateTask, http.StatusCreated, result, err)
}

// ListTasks godoc
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Param        project_id  query string false "Project ID (UUID)"
// @Param        stage       query string false "Stage"
// @Param        status      query string false "Status"
// @Param        responsible query string false "Responsible"
// @Success      200 {object} response.SuccessResponse{data=[]domain.Task}
// @Failure      400 {object} response.ErrorResponse
// @Router       /tasks [get]
// @Security     BearerAuth
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var query dto.TaskListFilter
	if err := c.ShouldBindQuery(&query); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid query parameters")
		return
	}

	filter := repository.TaskFilter{
		Stage:       domain.Stage(query.Stage),
		Status:      domain.TaskStatus(query.Status),
		Responsible: query.Responsible,
	}
	if query.ProjectID != "" {
		projectID, err := uuid.Parse(query.ProjectID)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid project ID")
			return
		}
		filter.ProjectID = &projectID
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, tasks)
}

// GetTask godoc
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        taskId path string true "Task ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=domain.Task}
// @Failure      404 {object} response.ErrorResponse
// @Router       /tasks/{taskId} [get]
// @Security     BearerAuth
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := parseID(c, "taskId", "task")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, task)
}

// UpdateTask godoc
// @Summary      Update a task
// @Description  Starting or completing a task requires its dependencies to be Concluído
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        taskId path string true "Task ID (UUID)"
// @Param        request body dto.UpdateTaskRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=dto.OperationResult}
// @Failure      422 {object} response.SuccessResponse{data=dto.OperationResult}
// @Router       /tasks/{taskId} [put]
// @Security     BearerAuth
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, ok := parseID(c, "taskId", "task")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.taskService.UpdateTask(c.Request.Context(), taskID, &req)
	sendOperation(c, service.ActionUpdateTask, http.StatusOK, result, err)
}

// MoveTask godoc
// @Summary      Move a task to another stage
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        taskId path string true "Task ID (UUID)"
// @Param        request body dto.MoveTaskRequest true "Target stage"
// @Success      200 {object} response.SuccessResponse{data=dto.OperationResult}
// @Failure      422 {object} response.SuccessResponse{data=dto.OperationResult}
// @Router       /tasks/{taskId}/move [put]
// @Security     BearerAuth
func (h *TaskHandler) MoveTask(c *gin.Context) {
	taskID, ok := parseID(c, "taskId", "task")
	if !ok {
		return
	}

	var req dto.MoveTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.taskService.MoveTask(c.Request.Context(), taskID, req.Stage)
	sendOperation(c, service.ActionMoveTask, http.StatusOK, result, err)
}

// DeleteTask godoc
// @Summary      Delete a task
// @Description  Critical tasks cannot be deleted
// @Tags         tasks
// @Produce      json
// @Param        taskId path string true "Task ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.OperationResult}
// @Failure      422 {object} response.SuccessResponse{data=dto.OperationResult}
// @Router       /tasks/{taskId} [delete]
// @Security     BearerAuth
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := parseID(c, "taskId", "task")
	if !ok {
		return
	}

	result, err := h.taskService.DeleteTask(c.Request.Context(), taskID)
	sendOperation(c, service.ActionDeleteTask, http.StatusOK, result, err)
}

// GetKanban godoc
// @Summary      Project kanban board
// @Tags         tasks
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.KanbanResponse}
// @Router       /tasks/kanban/{projectId} [get]
// @Security     BearerAuth
func (h *TaskHandler) GetKanban(c *gin.Context) {
	projectID, ok := parseID(c, "projectId", "project")
	if !ok {
		return
	}

	board, err := h.taskService.GetKanban(c.Request.Context(), projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, board)
}
