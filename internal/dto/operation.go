package dto

import (
	"time"
)

// OperationStatus is the outcome tier of a mutating use case
type OperationStatus string

const (
	OperationSuccess OperationStatus = "success"
	OperationBlocked OperationStatus = "blocked"
	OperationError   OperationStatus = "error"
)

// LogEntry is one step recorded while an operation ran
type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// OperationResult is the envelope returned by every workflow mutation
// @Description status is success, blocked (business rule rejected the request) or error
type OperationResult struct {
	Status            OperationStatus        `json:"status" example:"success"`
	ActionName        string                 `json:"action_name" example:"avancar_etapa"`
	Reason            string                 `json:"reason,omitempty"`
	AffectedData      map[string]interface{} `json:"affected_data"`
	Alerts            []string               `json:"alerts"`
	NotificationsSent []string               `json:"notifications_sent"`
	Logs              []LogEntry             `json:"logs"`
}

// NewOperation starts an envelope for the named action
func NewOperation(action string) *OperationResult {
	return &OperationResult{
		Status:            OperationSuccess,
		ActionName:        action,
		AffectedData:      map[string]interface{}{},
		Alerts:            []string{},
		NotificationsSent: []string{},
		Logs:              []LogEntry{},
	}
}

// Log appends an info entry
func (r *OperationResult) Log(message string) {
	r.Logs = append(r.Logs, LogEntry{Time: time.Now().UTC(), Level: "info", Message: message})
}

// Set records an affected value
func (r *OperationResult) Set(key string, value interface{}) *OperationResult {
	r.AffectedData[key] = value
	return r
}

// Notified records the recipients of dispatched notifications
func (r *OperationResult) Notified(recipients ...string) {
	r.NotificationsSent = append(r.NotificationsSent, recipients...)
}

// Block marks the operation as rejected by a business rule
func (r *OperationResult) Block(reason string) *OperationResult {
	r.Status = OperationBlocked
	r.Reason = reason
	r.Logs = append(r.Logs, LogEntry{Time: time.Now().UTC(), Level: "warning", Message: reason})
	return r
}

// Fail marks the operation as failed by an unexpected error
func (r *OperationResult) Fail(reason string) *OperationResult {
	r.Status = OperationError
	r.Reason = reason
	r.Logs = append(r.Logs, LogEntry{Time: time.Now().UTC(), Level: "error", Message: reason})
	return r
}

// IsBlocked reports whether a business rule rejected the operation
func (r *OperationResult) IsBlocked() bool {
	return r.Status == OperationBlocked
}
