package client

import (
	"go.uber.org/zap"

	"contract-workflow-api/internal/config"
	"contract-workflow-api/internal/metrics"
)

// NewFromConfig picks the relay: AMQP when a broker URL is set, the HTTP
// notification service when its URL is set, otherwise a no-op client.
// A broker that cannot be reached falls back to the next option.
func NewFromConfig(cfg config.NotificationConfig, logger *zap.Logger, m *metrics.Metrics) NotificationClient {
	if cfg.AMQPURL != "" {
		publisher, err := NewAMQPPublisher(cfg.AMQPURL, cfg.Exchange, logger, m)
		if err == nil {
			return publisher
		}
		logger.Warn("RabbitMQ unavailable, falling back", zap.Error(err))
	}

	if cfg.ServiceURL != "" {
		logger.Info("Notification relay using HTTP service", zap.String("url", cfg.ServiceURL))
		return NewNotificationClient(cfg.ServiceURL, cfg.APIKey, cfg.Timeout, logger, m)
	}

	logger.Info("Notification relay disabled")
	return NewNoOpNotificationClient()
}
