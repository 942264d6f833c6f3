package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"contract-workflow-api/internal/response"
)

// Context keys set by Auth
const (
	ContextUserID = "user_id"
	ContextToken  = "jwtToken"
)

// TokenValidator resolves a bearer token to the ID of an active user
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenStr string) (uuid.UUID, error)
}

// PermissionChecker reports whether a user holds a permission key
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uuid.UUID, key string) (bool, error)
}

// Auth returns a middleware that validates the bearer token through validator
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abort(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid authorization header format")
			return
		}
		tokenString := parts[1]

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		userID, err := validator.ValidateToken(ctx, tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextToken, tokenString)
		c.Next()
	}
}

// RequirePermission rejects users holding none of keys. It must run after Auth.
func RequirePermission(checker PermissionChecker, keys ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			abort(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User ID not found in context")
			return
		}

		for _, key := range keys {
			allowed, err := checker.HasPermission(c.Request.Context(), userID, key)
			if err == nil && allowed {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, response.ErrCodeForbidden, "Permission denied: "+strings.Join(keys, ", "))
	}
}

// UserID returns the authenticated user's ID
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func abort(c *gin.Context, status int, code, message string) {
	response.SendError(c, status, code, message)
	c.Abort()
}
