package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// statusOrder positions the forward path pending -> confirmed ->
// in_progress -> completed. Cancelled sits outside the path.
var statusOrder = map[BookingStatus]int{
	BookingStatusPending:    0,
	BookingStatusConfirmed:  1,
	BookingStatusInProgress: 2,
	BookingStatusCompleted:  3,
}

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s BookingStatus) bool {
	if s == BookingStatusCancelled {
		return true
	}
	_, ok := statusOrder[s]
	return ok
}

// IsTerminal reports whether no further transition is permitted from s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// IsForwardStep reports whether to is strictly later than s on the forward
// path. Cancellation is not a forward step.
func (s BookingStatus) IsForwardStep(to BookingStatus) bool {
	from, okFrom := statusOrder[s]
	target, okTo := statusOrder[to]
	return okFrom && okTo && target > from
}

type PaymentState string

const (
	PaymentStatePending PaymentState = "pending"
	PaymentStatePaid    PaymentState = "paid"
)

type Booking struct {
	Base
	TenantID           uuid.UUID       `db:"tenant_id"`
	CustomerID         *uuid.UUID      `db:"customer_id"` // nil for guest bookings
	ProviderID         uuid.UUID       `db:"provider_id"`
	ServiceID          uuid.UUID       `db:"service_id"`
	Status             BookingStatus   `db:"status"`
	PaymentStatus      PaymentState    `db:"payment_status"`
	ScheduledAt        time.Time       `db:"scheduled_at"`
	TotalAmount        decimal.Decimal `db:"total_amount"`
	CommissionAmount   decimal.Decimal `db:"commission_amount"`
	Currency           string          `db:"currency"`
	CancellationReason *string         `db:"cancellation_reason"`
	CancelledBy        *uuid.UUID      `db:"cancelled_by"`
	Notes              *string         `db:"notes"`
	Metadata           map[string]any  `db:"metadata"`
	CompletedAt        *time.Time      `db:"completed_at"`
}

// IsGuest reports whether the booking was created without an account.
func (b *Booking) IsGuest() bool {
	return b.CustomerID == nil
}
