package database

import (
	"time"

	"gorm.io/gorm"
)

// MetricsRecorder is an interface for recording database metrics
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats interface{})
}

const startTimeKey = "metrics:start_time"

// RegisterMetricsCallbacks registers GORM callbacks timing every
// select/insert/update/delete statement
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) {
	markStart := func(tx *gorm.DB) {
		tx.InstanceSet(startTimeKey, time.Now())
	}
	record := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			start, ok := tx.InstanceGet(startTimeKey)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			recorder.RecordDBQuery(operation, table, time.Since(start.(time.Time)), tx.Error)
		}
	}

	cb := db.Callback()
	cb.Query().Before("gorm:query").Register("metrics:query_before", markStart)
	cb.Query().After("gorm:query").Register("metrics:query_after", record("select"))
	cb.Create().Before("gorm:create").Register("metrics:create_before", markStart)
	cb.Create().After("gorm:create").Register("metrics:create_after", record("insert"))
	cb.Update().Before("gorm:update").Register("metrics:update_before", markStart)
	cb.Update().After("gorm:update").Register("metrics:update_after", record("update"))
	cb.Delete().Before("gorm:delete").Register("metrics:delete_before", markStart)
	cb.Delete().After("gorm:delete").Register("metrics:delete_after", record("delete"))
}

// StartDBStatsCollector starts periodic DB stats collection; close the
// returned channel to stop it
func StartDBStatsCollector(db *gorm.DB, recorder MetricsRecorder, interval time.Duration) chan struct{} {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					continue
				}
				recorder.UpdateDBStats(sqlDB.Stats())
			case <-done:
				return
			}
		}
	}()

	return done
}
