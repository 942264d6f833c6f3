package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contract-workflow-api/internal/response"
)

// Recovery turns a panic in a workflow handler into an INTERNAL_ERROR body.
// The log entry carries the matched route and, once Auth has run, the caller.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			fields := []zap.Field{
				zap.String("panic", fmt.Sprintf("%v", r)),
				zap.String("method", c.Request.Method),
				zap.String("route", c.FullPath()),
				zap.String("path", c.Request.URL.Path),
				zap.Stack("stacktrace"),
			}
			if userID, ok := UserID(c); ok {
				fields = append(fields, zap.String("user_id", userID.String()))
			}
			logger.Error("Panic recovered", fields...)

			if !c.Writer.Written() {
				response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
			}
			c.Abort()
		}()

		c.Next()
	}
}
