package metrics

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// getTestMetrics returns metrics bound to a private registry
func getTestMetrics() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}

func TestMetricsInitialization(t *testing.T) {
	m := getTestMetrics()

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.DBQueryDuration)
	assert.NotNil(t, m.DBQueryErrors)
	assert.NotNil(t, m.ExternalAPIRequestsTotal)
	assert.NotNil(t, m.ContractsTotal)
	assert.NotNil(t, m.ProjectsTotal)
	assert.NotNil(t, m.ProjectsByRisk)
	assert.NotNil(t, m.OverdueTasks)
	assert.NotNil(t, m.ContractCreatedTotal)
	assert.NotNil(t, m.StageAdvancesTotal)
	assert.NotNil(t, m.TasksGeneratedTotal)
	assert.NotNil(t, m.BlockedOperationsTotal)
	assert.NotNil(t, m.NotificationsTotal)
}

// Every registered family carries the service namespace, a snake_case name and a help text
func TestMetricFamiliesNamingAndHelp(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, zap.NewNop())

	// Vector metrics only show up once a label set has been observed
	m.RecordHTTPRequest("GET", "/api/contracts", 200, 0)
	m.RecordDBQuery("select", "tasks", 0, nil)
	m.RecordExternalAPICall("http://noti/api", "POST", 500, 0, nil)
	m.RecordStageAdvance("Criação")
	m.RecordBlockedOperation("avancar_etapa")
	m.RecordNotification("atribuicao")
	m.SetProjectsByRisk(map[string]int64{"Alto": 1})
	m.RecordDBQuery("insert", "tasks", 0, assert.AnError)

	families, err := registry.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	snake := regexp.MustCompile(`^workflow_service_[a-z0-9_]+$`)
	for _, f := range families {
		assert.Regexp(t, snake, f.GetName())
		assert.NotEmpty(t, f.GetHelp(), "metric %s has no help text", f.GetName())
	}
}

func TestShouldSkipEndpoint(t *testing.T) {
	tests := []struct {
		path string
		skip bool
	}{
		{"/metrics", true},
		{"/health", true},
		{"/ready", true},
		{"/swagger/index.html", true},
		{"/workflow/v1/health", true},
		{"/api/ready", true},
		{"/api/dashboard", false},
		{"/api/contracts", false},
		{"/api/projects/123/advance", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.skip, ShouldSkipEndpoint(tt.path))
		})
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	got := normalizeEndpoint("/api/projects/123e4567-e89b-12d3-a456-426614174000/advance")
	assert.Equal(t, "/api/projects/{id}/advance", got)
}

func TestCategorizeStatus(t *testing.T) {
	assert.Equal(t, "2xx", categorizeStatus(201))
	assert.Equal(t, "3xx", categorizeStatus(304))
	assert.Equal(t, "4xx", categorizeStatus(422))
	assert.Equal(t, "5xx", categorizeStatus(503))
	assert.Equal(t, "unknown", categorizeStatus(0))
}

func TestUpdateDBStats_WaitCountersFollowPoolTotals(t *testing.T) {
	m := getTestMetrics()

	m.UpdateDBStats(sql.DBStats{OpenConnections: 4, InUse: 3, Idle: 1, MaxOpenConnections: 25, WaitCount: 3, WaitDuration: 2 * time.Second})
	m.UpdateDBStats(sql.DBStats{OpenConnections: 4, InUse: 3, Idle: 1, MaxOpenConnections: 25, WaitCount: 5, WaitDuration: 3 * time.Second})

	assert.Equal(t, 5.0, testutil.ToFloat64(m.DBConnectionWaitTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DBConnectionWaitDuration))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DBConnectionsInUse))
	assert.Equal(t, 25.0, testutil.ToFloat64(m.DBConnectionsMax))

	// a fresh pool starts its totals again
	m.UpdateDBStats(sql.DBStats{WaitCount: 1, WaitDuration: time.Second})
	assert.Equal(t, 6.0, testutil.ToFloat64(m.DBConnectionWaitTotal))
}

func TestRecordDBQuery_EmptyTableLabel(t *testing.T) {
	m := getTestMetrics()

	m.RecordDBQuery("SELECT", "", time.Millisecond, assert.AnError)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("select", "unknown")))
}
