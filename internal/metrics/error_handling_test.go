package metrics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetricOperationsDoNotPanic(t *testing.T) {
	tests := []struct {
		name      string
		operation func(*Metrics)
	}{
		{"RecordHTTPRequest", func(m *Metrics) { m.RecordHTTPRequest("GET", "/test", 200, time.Second) }},
		{"RecordDBQuery", func(m *Metrics) { m.RecordDBQuery("select", "tasks", time.Millisecond, nil) }},
		{"RecordExternalAPICall", func(m *Metrics) {
			m.RecordExternalAPICall("/api/test", "POST", 0, time.Second, errors.New("connection refused"))
		}},
		{"IncrementContractCreated", func(m *Metrics) { m.IncrementContractCreated() }},
		{"RecordStageAdvance", func(m *Metrics) { m.RecordStageAdvance("Produção") }},
		{"SetProjectsByRisk", func(m *Metrics) { m.SetProjectsByRisk(map[string]int64{"Médio": 1}) }},
		{"UpdateDBStats", func(m *Metrics) {
			m.UpdateDBStats(sql.DBStats{OpenConnections: 10, InUse: 5, Idle: 5})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
			assert.NotPanics(t, func() { tt.operation(m) })
		})
	}
}

func TestNilMetricsAreIgnored(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/test", 200, time.Second)
		m.IncrementContractCreated()
		m.AddTasksGenerated(2)
		m.RecordBlockedOperation("avancar_etapa")
		m.SetOverdueTasks(3)
	})
}

func TestSafeExecuteWithPanic(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())

	assert.NotPanics(t, func() {
		m.safeExecute("test_panic", func() {
			panic("intentional panic for testing")
		})
	})
}

func TestMetricsWithNilLogger(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), nil)

	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/test", 200, time.Second)
		m.RecordDBQuery("select", "test", time.Millisecond, nil)
		m.IncrementContractCreated()
	})
}

func TestCollectorPanicRecovery(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())

	collector := &BusinessMetricsCollector{
		db:      nil,
		metrics: m,
		logger:  zap.NewNop(),
	}

	assert.NotPanics(t, func() {
		collector.collect()
	})
}

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		name   string
		status int
		err    error
		want   string
	}{
		{"missing route", 404, nil, "not_found"},
		{"bad api key", 401, nil, "auth_rejected"},
		{"notification service down", 503, nil, "service_unavailable"},
		{"refused", 0, fmt.Errorf("dial tcp 10.0.0.1:8080: %w", syscall.ECONNREFUSED), "connection_refused"},
		{"request deadline", 0, fmt.Errorf("post notification: %w", context.DeadlineExceeded), "timeout"},
		{"broker channel closed", 0, fmt.Errorf("publish: %w", amqp.ErrClosed), "broker_closed"},
		{"dns", 0, &net.DNSError{Err: "no such host", Name: "noti"}, "dns_error"},
		{"other", 0, errors.New("boom"), "network_error"},
		{"success", 200, nil, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getErrorType(tt.status, tt.err))
		})
	}
}
