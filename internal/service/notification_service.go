package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/repository"
	"contract-workflow-api/internal/response"
)

// notificationListLimit caps the notifications returned to a user
const notificationListLimit = 100

// NotificationService exposes a user's notification inbox
type NotificationService interface {
	ListNotifications(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// notificationServiceImpl is the implementation of NotificationService
type notificationServiceImpl struct {
	notificationRepo repository.NotificationRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new instance of NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository, logger *zap.Logger) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// ListNotifications returns the user's newest notifications first
func (s *notificationServiceImpl) ListNotifications(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	notifications, err := s.notificationRepo.FindByUserID(ctx, userID, notificationListLimit)
	if err != nil {
		return nil, internalError("Failed to fetch notifications", err)
	}
	return notifications, nil
}

func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, internalError("Failed to count notifications", err)
	}
	return count, nil
}

// MarkRead flags one of the user's notifications as read
func (s *notificationServiceImpl) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	found, err := s.notificationRepo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return internalError("Failed to update notification", err)
	}
	if !found {
		return response.NewNotFoundError("Notification not found", "")
	}
	return nil
}

func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	updated, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, internalError("Failed to update notifications", err)
	}
	s.logger.Debug("Notifications marked read", zap.String("user_id", userID.String()), zap.Int64("updated", updated))
	return updated, nil
}
