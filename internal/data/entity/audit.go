package entity

import (
	"github.com/google/uuid"
)

// Audit actions are dotted verbs: <actor scope>.<resource>.<verb>.
const (
	ActionBookingCreate       = "customer.booking.create"
	ActionBookingCancel       = "customer.booking.cancel"
	ActionBookingUpdateStatus = "provider.booking.update_status"
	ActionBookingAdminUpdate  = "admin.booking.update"
	ActionBookingExpire       = "system.booking.expire"
	ActionPaymentRecord       = "customer.payment.record"
	ActionBookingConfirm      = "customer.booking.confirm"
	ActionReviewCreate        = "customer.review.create"
)

// AuditLogEntry is an append-only fact. Rows are never updated or removed.
type AuditLogEntry struct {
	BaseSimple
	TenantID     uuid.UUID      `db:"tenant_id"`
	UserID       *uuid.UUID     `db:"user_id"` // nil for system and guest actions
	Action       string         `db:"action"`
	ResourceType string         `db:"resource_type"`
	ResourceID   uuid.UUID      `db:"resource_id"`
	Changes      map[string]any `db:"changes"`
	IPAddress    *string        `db:"ip_address"`
	UserAgent    *string        `db:"user_agent"`
}
