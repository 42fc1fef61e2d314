package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is one settlement attempt. Settlement is synchronous: a row is
// inserted already completed, no gateway callback is involved.
type Payment struct {
	BaseSimple
	TenantID         uuid.UUID       `db:"tenant_id"`
	BookingID        uuid.UUID       `db:"booking_id"`
	UserID           *uuid.UUID      `db:"user_id"`
	Amount           decimal.Decimal `db:"amount"`
	Currency         string          `db:"currency"`
	PaymentMethod    string          `db:"payment_method"`
	GatewayReference string          `db:"gateway_reference"`
	Status           PaymentStatus   `db:"status"`
	Metadata         map[string]any  `db:"metadata"`
}
