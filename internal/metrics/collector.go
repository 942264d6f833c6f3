package metrics

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BusinessMetricsCollector refreshes the workflow gauges periodically
type BusinessMetricsCollector struct {
	db      *gorm.DB
	metrics *Metrics
	logger  *zap.Logger
	ticker  *time.Ticker
	done    chan bool
}

// NewBusinessMetricsCollector creates a new collector
func NewBusinessMetricsCollector(db *gorm.DB, metrics *Metrics, logger *zap.Logger) *BusinessMetricsCollector {
	return &BusinessMetricsCollector{
		db:      db,
		metrics: metrics,
		logger:  logger,
		ticker:  time.NewTicker(60 * time.Second),
		done:    make(chan bool),
	}
}

// Start begins collecting metrics
func (c *BusinessMetricsCollector) Start() {
	go func() {
		c.collect()

		for {
			select {
			case <-c.ticker.C:
				c.collect()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *BusinessMetricsCollector) Stop() {
	c.ticker.Stop()
	c.done <- true
}

// collect gathers business metrics
func (c *BusinessMetricsCollector) collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in business metrics collection",
				zap.Any("panic", r),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var contractCount int64
	if err := c.db.WithContext(ctx).Table("contracts").Count(&contractCount).Error; err != nil {
		c.logger.Error("Failed to count contracts", zap.Error(err))
	} else {
		c.metrics.SetContractsTotal(contractCount)
	}

	var projectCount int64
	if err := c.db.WithContext(ctx).Table("projects").Count(&projectCount).Error; err != nil {
		c.logger.Error("Failed to count projects", zap.Error(err))
	} else {
		c.metrics.SetProjectsTotal(projectCount)
	}

	var riskRows []struct {
		Risk  string
		Total int64
	}
	if err := c.db.WithContext(ctx).Table("projects").
		Select("risk, COUNT(*) AS total").
		Group("risk").
		Scan(&riskRows).Error; err != nil {
		c.logger.Error("Failed to count projects by risk", zap.Error(err))
	} else {
		counts := make(map[string]int64, len(riskRows))
		for _, row := range riskRows {
			counts[row.Risk] = row.Total
		}
		c.metrics.SetProjectsByRisk(counts)
	}

	var overdueCount int64
	if err := c.db.WithContext(ctx).Table("tasks").
		Where("status <> ? AND due_date < ?", "Concluído", time.Now().UTC()).
		Count(&overdueCount).Error; err != nil {
		c.logger.Error("Failed to count overdue tasks", zap.Error(err))
	} else {
		c.metrics.SetOverdueTasks(int(overdueCount))
	}
}
