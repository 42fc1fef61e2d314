package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceProvider holds the commission rate plus derived counters. Rating,
// TotalReviews and TotalBookings are maintained inside the transactions
// that change them, never recomputed at read time.
type ServiceProvider struct {
	Base
	TenantID       uuid.UUID       `db:"tenant_id"`
	UserID         uuid.UUID       `db:"user_id"`
	DisplayName    string          `db:"display_name"`
	CommissionRate decimal.Decimal `db:"commission_rate"`
	Rating         decimal.Decimal `db:"rating"`
	TotalReviews   int             `db:"total_reviews"`
	TotalBookings  int             `db:"total_bookings"`
	IsActive       bool            `db:"is_active"`
}
