package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/response"
	"contract-workflow-api/internal/service"
)

// AuthHandler handles registration, login and the current-user lookup
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new instance of AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register godoc
// @Summary      Register a user
// @Description  Creates an account and returns a bearer token. The first account becomes Administrador.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "Registration"
// @Success      201 {object} response.SuccessResponse{data=dto.AuthResponse}
// @Failure      400 {object} response.ErrorResponse "Invalid request"
// @Failure      409 {object} response.ErrorResponse "Email already registered"
// @Failure      500 {object} response.ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, resp)
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Credentials"
// @Success      200 {object} response.SuccessResponse{data=dto.AuthResponse}
// @Failure      401 {object} response.ErrorResponse "Invalid email or password"
// @Failure      403 {object} response.ErrorResponse "User is inactive"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, resp)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=domain.User}
// @Failure      401 {object} response.ErrorResponse
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, user)
}
