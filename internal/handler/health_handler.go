package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// HealthHandler reports liveness and dependency readiness
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler creates a new instance of HealthHandler. redis may be nil.
func NewHealthHandler(db *gorm.DB, redis *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redis,
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "contract-workflow-api",
	})
}

func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	connections := make(map[string]string)

	if h.db == nil {
		connections["database"] = "error: not initialized"
	} else if sqlDB, err := h.db.DB(); err != nil {
		connections["database"] = "error: " + err.Error()
	} else if err := sqlDB.PingContext(ctx); err != nil {
		connections["database"] = "error: " + err.Error()
	} else {
		connections["database"] = "connected"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			connections["redis"] = "error: " + err.Error()
		} else {
			connections["redis"] = "connected"
		}
	} else {
		connections["redis"] = "not configured"
	}

	status := http.StatusOK
	statusText := "ready"
	for _, s := range connections {
		if s != "connected" && s != "not configured" {
			status = http.StatusServiceUnavailable
			statusText = "not ready"
			break
		}
	}

	c.JSON(status, gin.H{
		"status":      statusText,
		"connections": connections,
	})
}
