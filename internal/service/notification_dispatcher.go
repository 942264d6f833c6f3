package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"contract-workflow-api/internal/client"
	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/metrics"
	"contract-workflow-api/internal/repository"
)

const dueDateLayout = "02/01/2006"

// NotificationDispatcher records notifications and offers them to the outbound relay.
// Every method returns the recipients of the records it created.
type NotificationDispatcher interface {
	NotifyTaskAssigned(ctx context.Context, task *domain.Task) (string, error)
	NotifyTaskOverdue(ctx context.Context, task *domain.Task, daysOverdue int) (string, error)
	NotifyApprovalRequested(ctx context.Context, contract *domain.Contract, project *domain.Project) ([]string, error)
	NotifyProjectFinalized(ctx context.Context, contract *domain.Contract, project *domain.Project) (string, error)
}

// notificationDispatcherImpl is the implementation of NotificationDispatcher
type notificationDispatcherImpl struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	relay            client.NotificationClient
	managementEmail  string
	metrics          *metrics.Metrics
	logger           *zap.Logger
}

// NewNotificationDispatcher creates a new instance of NotificationDispatcher
func NewNotificationDispatcher(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	relay client.NotificationClient,
	managementEmail string,
	m *metrics.Metrics,
	logger *zap.Logger,
) NotificationDispatcher {
	if relay == nil {
		relay = client.NewNoOpNotificationClient()
	}
	return &notificationDispatcherImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		relay:            relay,
		managementEmail:  managementEmail,
		metrics:          m,
		logger:           logger,
	}
}

func (d *notificationDispatcherImpl) NotifyTaskAssigned(ctx context.Context, task *domain.Task) (string, error) {
	recipient, userID := d.resolveByName(ctx, task.Responsible)
	projectID, taskID := task.ProjectID, task.ID

	n := &domain.Notification{
		Recipient: recipient,
		UserID:    userID,
		ProjectID: &projectID,
		TaskID:    &taskID,
		Subject:   fmt.Sprintf("Nova tarefa atribuída: %s", task.Title),
		Body: fmt.Sprintf("Você foi designado(a) para a tarefa '%s' na etapa %s. Prazo: %s.",
			task.Title, task.Stage, task.DueDate.Format(dueDateLayout)),
		Type: domain.NotificationAssignment,
	}
	if err := d.dispatch(ctx, n); err != nil {
		return "", err
	}
	return recipient, nil
}

func (d *notificationDispatcherImpl) NotifyTaskOverdue(ctx context.Context, task *domain.Task, daysOverdue int) (string, error) {
	recipient, userID := d.resolveByName(ctx, task.Responsible)
	projectID, taskID := task.ProjectID, task.ID

	n := &domain.Notification{
		Recipient: recipient,
		UserID:    userID,
		ProjectID: &projectID,
		TaskID:    &taskID,
		Subject:   fmt.Sprintf("Tarefa atrasada: %s", task.Title),
		Body: fmt.Sprintf("A tarefa '%s' está atrasada em %d dia(s). Prazo era %s.",
			task.Title, daysOverdue, task.DueDate.Format(dueDateLayout)),
		Type: domain.NotificationOverdue,
	}
	if err := d.dispatch(ctx, n); err != nil {
		return "", err
	}
	return recipient, nil
}

func (d *notificationDispatcherImpl) NotifyApprovalRequested(ctx context.Context, contract *domain.Contract, project *domain.Project) ([]string, error) {
	admins, err := d.userRepo.FindByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to load administrators: %w", err)
	}

	recipients := make([]string, 0, len(admins))
	for _, admin := range admins {
		userID, projectID := admin.ID, project.ID
		n := &domain.Notification{
			Recipient: admin.Email,
			UserID:    &userID,
			ProjectID: &projectID,
			Subject:   fmt.Sprintf("Aprovação necessária: contrato %d - %s", contract.Number, contract.Client),
			Body: fmt.Sprintf("O projeto do contrato %d (%s) aguarda aprovação na etapa %s.",
				contract.Number, contract.Client, project.CurrentStage),
			Type: domain.NotificationApproval,
		}
		if err := d.dispatch(ctx, n); err != nil {
			return recipients, err
		}
		recipients = append(recipients, admin.Email)
	}
	return recipients, nil
}

func (d *notificationDispatcherImpl) NotifyProjectFinalized(ctx context.Context, contract *domain.Contract, project *domain.Project) (string, error) {
	if d.managementEmail == "" {
		return "", nil
	}

	var userID *uuid.UUID
	if user, err := d.userRepo.FindByEmail(ctx, d.managementEmail); err == nil {
		userID = &user.ID
	}
	projectID := project.ID

	n := &domain.Notification{
		Recipient: d.managementEmail,
		UserID:    userID,
		ProjectID: &projectID,
		Subject:   fmt.Sprintf("Projeto finalizado: contrato %d - %s", contract.Number, contract.Client),
		Body: fmt.Sprintf("O projeto do contrato %d (%s, %s) foi finalizado.",
			contract.Number, contract.Client, contract.Institution),
		Type: domain.NotificationFinalization,
	}
	if err := d.dispatch(ctx, n); err != nil {
		return "", err
	}
	return d.managementEmail, nil
}

// dispatch stores the record and offers it to the relay. Relay failures only
// leave the record unsent.
func (d *notificationDispatcherImpl) dispatch(ctx context.Context, n *domain.Notification) error {
	if err := d.notificationRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	d.metrics.RecordNotification(string(n.Type))

	event := client.NotificationEvent{
		ID:        n.ID,
		Type:      string(n.Type),
		Recipient: n.Recipient,
		UserID:    n.UserID,
		ProjectID: n.ProjectID,
		TaskID:    n.TaskID,
		Subject:   n.Subject,
		Body:      n.Body,
	}
	if err := d.relay.SendNotification(ctx, event); err != nil {
		d.logger.Warn("Notification stored but not relayed",
			zap.String("notification_id", n.ID.String()),
			zap.String("type", string(n.Type)),
			zap.Error(err),
		)
		return nil
	}

	if err := d.notificationRepo.MarkSent(ctx, n.ID); err != nil {
		d.logger.Warn("Failed to flag notification as sent",
			zap.String("notification_id", n.ID.String()),
			zap.Error(err),
		)
		return nil
	}
	n.Sent = true
	return nil
}

// resolveByName maps a responsible party to a registered user when one has
// that exact name; otherwise the name itself is the recipient
func (d *notificationDispatcherImpl) resolveByName(ctx context.Context, name string) (string, *uuid.UUID) {
	user, err := d.userRepo.FindByName(ctx, name)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			d.logger.Warn("Failed to resolve notification recipient",
				zap.String("name", name),
				zap.Error(err),
			)
		}
		return name, nil
	}
	return user.Email, &user.ID
}
