package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"contract-workflow-api/internal/metrics"
)

// routingKeyPrefix is prepended to the notification type to form the routing key
const routingKeyPrefix = "notification."

// amqpChannel is the subset of *amqp.Channel the publisher needs
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// amqpPublisher publishes notification events to a topic exchange
type amqpPublisher struct {
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewAMQPPublisher dials the broker and declares a durable topic exchange
func NewAMQPPublisher(url, exchange string, logger *zap.Logger, m *metrics.Metrics) (NotificationClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Info("Notification relay connected to RabbitMQ", zap.String("exchange", exchange))
	return newAMQPPublisherWithChannel(conn, ch, exchange, logger, m), nil
}

func newAMQPPublisherWithChannel(conn *amqp.Connection, ch amqpChannel, exchange string, logger *zap.Logger, m *metrics.Metrics) *amqpPublisher {
	return &amqpPublisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		logger:   logger,
		metrics:  m,
	}
}

func (p *amqpPublisher) SendNotification(ctx context.Context, event NotificationEvent) error {
	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	startTime := time.Now()
	err = p.channel.PublishWithContext(ctx, p.exchange, routingKeyPrefix+event.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Timestamp:    startTime,
		Body:         body,
	})

	statusCode := 200
	if err != nil {
		statusCode = 0
	}
	p.metrics.RecordExternalAPICall("amqp://"+p.exchange, "PUBLISH", statusCode, time.Since(startTime), err)

	if err != nil {
		p.logger.Warn("Failed to publish notification",
			zap.Error(err),
			zap.String("type", event.Type),
			zap.String("recipient", event.Recipient),
		)
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

func (p *amqpPublisher) SendBulkNotifications(ctx context.Context, events []NotificationEvent) error {
	var firstErr error
	for _, event := range events {
		if err := p.SendNotification(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p *amqpPublisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
