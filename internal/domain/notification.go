package domain

import (
	"github.com/google/uuid"
)

// NotificationType represents why a notification was created
type NotificationType string

const (
	NotificationAssignment   NotificationType = "atribuicao"
	NotificationOverdue      NotificationType = "atraso"
	NotificationApproval     NotificationType = "aprovacao"
	NotificationFinalization NotificationType = "finalizacao"
)

// Notification is a write-once message addressed to a person
type Notification struct {
	BaseModel
	Recipient string           `gorm:"type:varchar(255);not null;index:idx_notifications_recipient" json:"recipient"`
	UserID    *uuid.UUID       `gorm:"type:uuid;index:idx_notifications_user_read,priority:1" json:"user_id,omitempty"`
	ProjectID *uuid.UUID       `gorm:"type:uuid;index:idx_notifications_project_id" json:"project_id,omitempty"`
	TaskID    *uuid.UUID       `gorm:"type:uuid;index:idx_notifications_task_type,priority:1" json:"task_id,omitempty"`
	Subject   string           `gorm:"type:varchar(255);not null" json:"subject"`
	Body      string           `gorm:"type:text" json:"body"`
	Type      NotificationType `gorm:"type:varchar(50);not null;index:idx_notifications_task_type,priority:2" json:"type"`
	Sent      bool             `gorm:"not null;default:false" json:"sent"`
	Read      bool             `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2" json:"read"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
