package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"contract-workflow-api/internal/metrics"
	"contract-workflow-api/internal/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator struct {
	userID uuid.UUID
	err    error
}

func (s stubValidator) ValidateToken(ctx context.Context, tokenStr string) (uuid.UUID, error) {
	if tokenStr != "good-token" {
		return uuid.Nil, errors.New("invalid token")
	}
	return s.userID, s.err
}

type stubChecker map[string]bool

func (s stubChecker) HasPermission(ctx context.Context, userID uuid.UUID, key string) (bool, error) {
	return s[key], nil
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error response.ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestAuth(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good-token", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"invalid token", "Bearer bad-token", http.StatusUnauthorized},
		{"valid token", "Bearer good-token", http.StatusOK},
		{"lowercase scheme", "bearer good-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/me", Auth(stubValidator{userID: userID}), func(c *gin.Context) {
				id, ok := UserID(c)
				require.True(t, ok)
				assert.Equal(t, userID, id)
				assert.Equal(t, "good-token", c.GetString(ContextToken))
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, response.ErrCodeUnauthorized, errorCode(t, w))
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	checker := stubChecker{"contratos": true}
	router := gin.New()
	auth := Auth(stubValidator{userID: uuid.New()})
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.GET("/contracts", auth, RequirePermission(checker, "contratos"), ok)
	router.GET("/users", auth, RequirePermission(checker, "usuarios"), ok)
	router.GET("/open", RequirePermission(checker, "contratos"), ok)
	router.GET("/either", auth, RequirePermission(checker, "usuarios", "contratos"), ok)

	call := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer good-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, call("/contracts").Code)

	w := call("/users")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.ErrCodeForbidden, errorCode(t, w))

	assert.Equal(t, http.StatusOK, call("/either").Code)
	assert.Equal(t, http.StatusUnauthorized, call("/open").Code)
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"https://app.example.com"}))
	router.GET("/api/contracts", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/contracts", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORS_Wildcard(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"*"}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery(zap.NewNop()))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, response.ErrCodeInternal, errorCode(t, w))
}

func TestRecovery_LogsRouteAndCaller(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	userID := uuid.New()
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.Use(func(c *gin.Context) { c.Set(ContextUserID, userID) })
	router.PUT("/api/tasks/:taskId/move", func(c *gin.Context) { panic("nil task") })
	router.GET("/partial", func(c *gin.Context) {
		c.String(http.StatusAccepted, "partial")
		panic("after write")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/tasks/"+uuid.NewString()+"/move", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/api/tasks/:taskId/move", fields["route"])
	assert.Equal(t, userID.String(), fields["user_id"])
	assert.Equal(t, "nil task", fields["panic"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/partial", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestMetrics_RecordsRoutePattern(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
	router := gin.New()
	router.Use(Metrics(m))
	router.GET("/api/contracts/:contractId", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/api/contracts", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/contracts/"+uuid.NewString(), nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/contracts", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/contracts/:contractId", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/api/contracts", "4xx")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/health", "2xx")))
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
	router := gin.New()
	router.Use(Metrics(m))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "4xx")))
}
