package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/middleware"
	"contract-workflow-api/internal/response"
)

// handleServiceError maps service layer errors to HTTP responses
func handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Resource not found")
		return
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		response.SendError(c, mapErrorCodeToHTTPStatus(appErr.Code), appErr.Code, appErr.Message)
		return
	}

	_ = c.Error(err)
	response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case response.ErrCodeNotFound:
		return http.StatusNotFound
	case response.ErrCodeAlreadyExists:
		return http.StatusConflict
	case response.ErrCodeValidation:
		return http.StatusBadRequest
	case response.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case response.ErrCodeForbidden:
		return http.StatusForbidden
	case response.ErrCodeBlocked:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// sendOperation writes a workflow envelope. Blocked outcomes are 422 and
// failures 500; the envelope is the body in every case. Client errors
// (validation, not found, conflict) keep the plain error body.
func sendOperation(c *gin.Context, action string, successStatus int, result *dto.OperationResult, err error) {
	if err != nil {
		reason, internal := internalFailure(err)
		if !internal {
			handleServiceError(c, err)
			return
		}
		_ = c.Error(err)
		result = dto.NewOperation(action).Fail(reason)
	}

	status := successStatus
	switch result.Status {
	case dto.OperationBlocked:
		status = http.StatusUnprocessableEntity
	case dto.OperationError:
		status = http.StatusInternalServerError
	}
	response.SendSuccess(c, status, result)
}

// internalFailure reports whether err belongs to the error tier and the
// reason safe to expose for it
func internalFailure(err error) (string, bool) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false
	}
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr.Message, appErr.Code == response.ErrCodeInternal
	}
	return "Internal server error", true
}

// parseID reads a UUID path parameter, writing a 400 when it is malformed
func parseID(c *gin.Context, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the request body, writing a 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return false
	}
	return true
}

// currentUserID returns the authenticated caller, writing a 401 when absent
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	return userID, true
}
