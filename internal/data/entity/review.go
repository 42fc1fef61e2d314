package entity

import (
	"github.com/google/uuid"
)

// Review is bound 1:1 to a completed booking.
type Review struct {
	BaseSimple
	TenantID   uuid.UUID `db:"tenant_id"`
	BookingID  uuid.UUID `db:"booking_id"`
	ProviderID uuid.UUID `db:"provider_id"`
	CustomerID uuid.UUID `db:"customer_id"`
	Rating     int       `db:"rating"` // 1-5
	Comment    *string   `db:"comment"`
}
