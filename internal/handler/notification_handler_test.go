package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/middleware"
	"contract-workflow-api/internal/response"
)

func notificationRouter(svc *MockNotificationService, userID uuid.UUID) *gin.Engine {
	h := NewNotificationHandler(svc)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	})
	router.GET("/notifications", h.ListNotifications)
	router.GET("/notifications/unread-count", h.UnreadCount)
	router.PUT("/notifications/read-all", h.MarkAllRead)
	router.PUT("/notifications/:notificationId/read", h.MarkRead)
	return router
}

func TestNotificationHandler_UnreadCount(t *testing.T) {
	userID := uuid.New()
	router := notificationRouter(&MockNotificationService{
		UnreadCountFunc: func(ctx context.Context, id uuid.UUID) (int64, error) {
			assert.Equal(t, userID, id)
			return 4, nil
		},
	}, userID)

	w := doJSON(router, http.MethodGet, "/notifications/unread-count", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data dto.UnreadCountResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, int64(4), env.Data.Count)
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	userID := uuid.New()
	notificationID := uuid.New()

	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
	}{
		{"marked", "/notifications/" + notificationID.String() + "/read", nil, http.StatusOK},
		{"not found", "/notifications/" + notificationID.String() + "/read", response.NewNotFoundError("Notification not found", ""), http.StatusNotFound},
		{"invalid id", "/notifications/xyz/read", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := notificationRouter(&MockNotificationService{
				MarkReadFunc: func(ctx context.Context, nid, uid uuid.UUID) error {
					assert.Equal(t, notificationID, nid)
					assert.Equal(t, userID, uid)
					return tt.err
				},
			}, userID)

			w := doJSON(router, http.MethodPut, tt.path, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestNotificationHandler_MarkAllRead(t *testing.T) {
	router := notificationRouter(&MockNotificationService{
		MarkAllReadFunc: func(ctx context.Context, id uuid.UUID) (int64, error) {
			return 7, nil
		},
	}, uuid.New())

	w := doJSON(router, http.MethodPut, "/notifications/read-all", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data dto.MarkAllReadResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, int64(7), env.Data.Updated)
}
