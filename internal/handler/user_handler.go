package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/response"
	"contract-workflow-api/internal/service"
)

// UserHandler handles user administration
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new instance of UserHandler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers godoc
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]domain.User}
// @Failure      403 {object} response.ErrorResponse
// @Router       /admin/users [get]
// @Security     BearerAuth
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, users)
}

// CreateUser godoc
// @Summary      Create a user
// @Description  Permissions default to the role's set when omitted
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateUserRequest true "User"
// @Success      201 {object} response.SuccessResponse{data=domain.User}
// @Failure      400 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "Email already registered"
// @Router       /admin/users [post]
// @Security     BearerAuth
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        userId path string true "User ID (UUID)"
// @Param        request body dto.UpdateUserRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=domain.User}
// @Failure      404 {object} response.ErrorResponse
// @Router       /admin/users/{userId} [put]
// @Security     BearerAuth
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := parseID(c, "userId", "user")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, user)
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Param        userId path string true "User ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=map[string]string}
// @Failure      404 {object} response.ErrorResponse
// @Router       /admin/users/{userId} [delete]
// @Security     BearerAuth
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseID(c, "userId", "user")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), userID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"message": "User deleted successfully"})
}
