package response

import (
	"github.com/gin-gonic/gin"
)

// SuccessResponse is the envelope of successful responses
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"requestId,omitempty"`
}

// ErrorResponse is the envelope of failed responses
type ErrorResponse struct {
	Error     interface{} `json:"error"`
	RequestID string      `json:"requestId,omitempty"`
}

// ErrorBody is the content of ErrorResponse.Error
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SendSuccess writes a success envelope
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Data:      data,
		RequestID: c.GetHeader("X-Request-ID"),
	})
}

// SendError writes an error envelope
func SendError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
		},
		RequestID: c.GetHeader("X-Request-ID"),
	})
}
