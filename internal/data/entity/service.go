package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	Base
	TenantID        uuid.UUID       `db:"tenant_id"`
	ProviderID      uuid.UUID       `db:"provider_id"`
	Name            string          `db:"name"`
	BasePrice       decimal.Decimal `db:"base_price"`
	Currency        string          `db:"currency"`
	DurationMinutes int             `db:"duration_minutes"`
	IsActive        bool            `db:"is_active"`
}
