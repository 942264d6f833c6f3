package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contract-workflow-api/internal/metrics"
)

// NotificationEvent is the outbound copy of a stored notification record
type NotificationEvent struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	Recipient  string     `json:"recipient"`
	UserID     *uuid.UUID `json:"userId,omitempty"`
	ProjectID  *uuid.UUID `json:"projectId,omitempty"`
	TaskID     *uuid.UUID `json:"taskId,omitempty"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	OccurredAt string     `json:"occurredAt,omitempty"`
}

// BulkNotificationRequest represents a bulk notification request
type BulkNotificationRequest struct {
	Notifications []NotificationEvent `json:"notifications"`
}

// NotificationClient relays notification records to a delivery channel.
// A returned error means the event was not handed over; the record itself
// is already stored, so callers only log it.
type NotificationClient interface {
	SendNotification(ctx context.Context, event NotificationEvent) error
	SendBulkNotifications(ctx context.Context, events []NotificationEvent) error
	Close() error
}

// notificationClient posts events to the notification service over HTTP
type notificationClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewNotificationClient creates a new notification service client
func NewNotificationClient(baseURL string, apiKey string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) NotificationClient {
	return &notificationClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

// SendNotification sends a single notification to the notification service
func (c *notificationClient) SendNotification(ctx context.Context, event NotificationEvent) error {
	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	url := fmt.Sprintf("%s/api/internal/notifications", c.baseURL)
	return c.post(ctx, url, event, 1)
}

// SendBulkNotifications sends multiple notifications at once
func (c *notificationClient) SendBulkNotifications(ctx context.Context, events []NotificationEvent) error {
	if len(events) == 0 {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for i := range events {
		if events[i].OccurredAt == "" {
			events[i].OccurredAt = now
		}
	}
	url := fmt.Sprintf("%s/api/internal/notifications/bulk", c.baseURL)
	return c.post(ctx, url, BulkNotificationRequest{Notifications: events}, len(events))
}

func (c *notificationClient) post(ctx context.Context, url string, payload interface{}, count int) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	c.metrics.RecordExternalAPICall(url, http.MethodPost, statusCode, duration, err)

	if err != nil {
		c.logger.Warn("Failed to reach notification service",
			zap.Error(err),
			zap.Int("count", count),
			zap.Duration("duration", duration),
		)
		return fmt.Errorf("notification service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Notification service returned non-success status",
			zap.Int("status_code", resp.StatusCode),
			zap.Int("count", count),
			zap.Duration("duration", duration),
		)
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}

	c.logger.Debug("Notifications relayed",
		zap.Int("count", count),
		zap.Duration("duration", duration),
	)
	return nil
}

func (c *notificationClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// NoOpNotificationClient is used when no delivery channel is configured
type NoOpNotificationClient struct{}

func NewNoOpNotificationClient() NotificationClient {
	return &NoOpNotificationClient{}
}

func (c *NoOpNotificationClient) SendNotification(ctx context.Context, event NotificationEvent) error {
	return nil
}

func (c *NoOpNotificationClient) SendBulkNotifications(ctx context.Context, events []NotificationEvent) error {
	return nil
}

func (c *NoOpNotificationClient) Close() error {
	return nil
}
