package metrics

import (
	"database/sql"
	"strings"
	"sync"
	"time"
)

// poolWaits remembers the last sql.DBStats wait totals so the prometheus
// counters only grow by the difference between two collections
type poolWaits struct {
	mu       sync.Mutex
	count    int64
	duration time.Duration
}

// delta stores the new totals and returns how much they grew. A total lower
// than the previous one means the pool was replaced; it is counted from zero.
func (w *poolWaits) delta(count int64, duration time.Duration) (int64, time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	dc, dd := count-w.count, duration-w.duration
	if dc < 0 || dd < 0 {
		dc, dd = count, duration
	}
	w.count, w.duration = count, duration
	return dc, dd
}

// UpdateDBStats publishes the connection pool state collected from sql.DB
func (m *Metrics) UpdateDBStats(statsInterface interface{}) {
	m.safeExecute("UpdateDBStats", func() {
		stats, ok := statsInterface.(sql.DBStats)
		if !ok {
			return
		}
		m.DBConnectionsOpen.Set(float64(stats.OpenConnections))
		m.DBConnectionsInUse.Set(float64(stats.InUse))
		m.DBConnectionsIdle.Set(float64(stats.Idle))
		m.DBConnectionsMax.Set(float64(stats.MaxOpenConnections))

		waits, waited := m.poolWaits.delta(stats.WaitCount, stats.WaitDuration)
		m.DBConnectionWaitTotal.Add(float64(waits))
		m.DBConnectionWaitDuration.Add(waited.Seconds())
	})
}

// RecordDBQuery times one statement against a workflow table
// (contracts, projects, tasks, users, notifications)
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.safeExecute("RecordDBQuery", func() {
		operation = strings.ToLower(operation)
		if table == "" {
			table = "unknown"
		}
		m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())

		if err != nil {
			m.DBQueryErrors.WithLabelValues(operation, table).Inc()
		}
	})
}
