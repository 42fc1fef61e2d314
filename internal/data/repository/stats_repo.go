package repository

import (
	"context"
	"fmt"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MoneyTotals are paid-booking sums for a tenant or a single provider.
type MoneyTotals struct {
	Revenue      decimal.Decimal
	Commission   decimal.Decimal
	PaymentCount int64
}

type StatsRepository interface {
	CountBookingsByStatus(ctx context.Context, tenantID uuid.UUID) (map[entity.BookingStatus]int64, error)
	CountProviderBookingsByStatus(ctx context.Context, tenantID, providerID uuid.UUID) (map[entity.BookingStatus]int64, error)
	TenantTotals(ctx context.Context, tenantID uuid.UUID) (*MoneyTotals, error)
	ProviderTotals(ctx context.Context, tenantID, providerID uuid.UUID) (*MoneyTotals, error)
}

type statsRepository struct {
	db  database.Executor
	log *zap.Logger
}

func NewStatsRepository(db database.Executor, log *zap.Logger) StatsRepository {
	return &statsRepository{
		db:  db,
		log: log.With(zap.String("repository", "stats")),
	}
}

func (r *statsRepository) CountBookingsByStatus(ctx context.Context, tenantID uuid.UUID) (map[entity.BookingStatus]int64, error) {
	query := `
		SELECT status, COUNT(*)
		FROM bookings
		WHERE tenant_id = $1
		GROUP BY status
	`

	return r.countByStatus(ctx, query, tenantID)
}

func (r *statsRepository) CountProviderBookingsByStatus(ctx context.Context, tenantID, providerID uuid.UUID) (map[entity.BookingStatus]int64, error) {
	query := `
		SELECT status, COUNT(*)
		FROM bookings
		WHERE tenant_id = $1 AND provider_id = $2
		GROUP BY status
	`

	return r.countByStatus(ctx, query, tenantID, providerID)
}

func (r *statsRepository) countByStatus(ctx context.Context, query string, args ...any) (map[entity.BookingStatus]int64, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to count bookings by status", zap.Error(err))
		return nil, fmt.Errorf("count bookings by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.BookingStatus]int64)
	for rows.Next() {
		var status entity.BookingStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count row: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status count rows: %w", err)
	}

	return counts, nil
}

func (r *statsRepository) TenantTotals(ctx context.Context, tenantID uuid.UUID) (*MoneyTotals, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0),
		       COALESCE(SUM(commission_amount), 0),
		       COUNT(*)
		FROM bookings
		WHERE tenant_id = $1 AND payment_status = 'paid'
	`

	return r.queryTotals(ctx, query, tenantID)
}

func (r *statsRepository) ProviderTotals(ctx context.Context, tenantID, providerID uuid.UUID) (*MoneyTotals, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0),
		       COALESCE(SUM(commission_amount), 0),
		       COUNT(*)
		FROM bookings
		WHERE tenant_id = $1 AND provider_id = $2 AND payment_status = 'paid'
	`

	return r.queryTotals(ctx, query, tenantID, providerID)
}

func (r *statsRepository) queryTotals(ctx context.Context, query string, args ...any) (*MoneyTotals, error) {
	var totals MoneyTotals
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&totals.Revenue,
		&totals.Commission,
		&totals.PaymentCount,
	)
	if err != nil {
		r.log.Error("Failed to query money totals", zap.Error(err))
		return nil, fmt.Errorf("query money totals: %w", err)
	}

	return &totals, nil
}
