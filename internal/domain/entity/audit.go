package entity

import "time"

// Audit action kinds recorded by the workflow
const (
	AuditActionCreateRequest   = "CREATE_REQUEST"
	AuditActionAdvanceStatus   = "ADVANCE_STATUS"
	AuditActionSubmitQuote     = "SUBMIT_QUOTE"
	AuditActionSelectQuote     = "SELECT_QUOTE"
	AuditActionCompleteRequest = "COMPLETE_REQUEST"
)

// AuditLog is an immutable record of a workflow-affecting action.
// UserID is nil for system-triggered actions.
type AuditLog struct {
	ID           int64     `json:"id"`
	UserID       *int64    `json:"user_id,omitempty"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   int64     `json:"resource_id"`
	Details      string    `json:"details,omitempty"` // JSON payload
	Timestamp    time.Time `json:"timestamp"`
}
