package repository

import (
	"context"
	"fmt"
	"time"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BookingPatch enumerates exactly the fields a booking update may touch.
// Nil fields are left untouched by the single parameterized UPDATE.
type BookingPatch struct {
	Status             *entity.BookingStatus
	PaymentStatus      *entity.PaymentState
	Notes              *string
	CancellationReason *string
	CancelledBy        *uuid.UUID
	CompletedAt        *time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.Booking, error)

	// FindByIDForUpdate locks the booking row for the rest of the
	// transaction; concurrent transitions serialize here.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*entity.Booking, error)

	FindByCustomerID(ctx context.Context, tenantID, customerID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByCustomerID(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error)
	FindByProviderID(ctx context.Context, tenantID, providerID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByProviderID(ctx context.Context, tenantID, providerID uuid.UUID) (int64, error)

	ApplyPatch(ctx context.Context, tenantID, id uuid.UUID, patch BookingPatch) error

	// FindStalePending returns unpaid pending bookings created before the
	// cutoff, across all tenants. Used by the expiry worker.
	FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.Executor
	log *zap.Logger
}

func NewBookingRepository(db database.Executor, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, tenant_id, customer_id, provider_id, service_id, status,
	       payment_status, scheduled_at, total_amount, commission_amount, currency,
	       cancellation_reason, cancelled_by, notes, metadata, completed_at,
	       created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.TenantID,
		&booking.CustomerID,
		&booking.ProviderID,
		&booking.ServiceID,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.ScheduledAt,
		&booking.TotalAmount,
		&booking.CommissionAmount,
		&booking.Currency,
		&booking.CancellationReason,
		&booking.CancelledBy,
		&booking.Notes,
		&booking.Metadata,
		&booking.CompletedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, tenant_id, customer_id, provider_id, service_id, status,
		                      payment_status, scheduled_at, total_amount, commission_amount,
		                      currency, notes, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.TenantID,
		booking.CustomerID,
		booking.ProviderID,
		booking.ServiceID,
		booking.Status,
		booking.PaymentStatus,
		booking.ScheduledAt,
		booking.TotalAmount,
		booking.CommissionAmount,
		booking.Currency,
		booking.Notes,
		booking.Metadata,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("service_id", booking.ServiceID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1 AND tenant_id = $2
	`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id, tenantID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1 AND tenant_id = $2
		FOR UPDATE
	`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id, tenantID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("lock booking %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByCustomerID(ctx context.Context, tenantID, customerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE customer_id = $1 AND tenant_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	return r.queryBookings(ctx, query, customerID, tenantID, limit, offset)
}

func (r *bookingRepository) CountByCustomerID(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE customer_id = $1 AND tenant_id = $2`

	var count int64
	err := r.db.QueryRow(ctx, query, customerID, tenantID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by customer ID",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
		)
		return 0, fmt.Errorf("count bookings by customer ID %s: %w", customerID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindByProviderID(ctx context.Context, tenantID, providerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE provider_id = $1 AND tenant_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	return r.queryBookings(ctx, query, providerID, tenantID, limit, offset)
}

func (r *bookingRepository) CountByProviderID(ctx context.Context, tenantID, providerID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE provider_id = $1 AND tenant_id = $2`

	var count int64
	err := r.db.QueryRow(ctx, query, providerID, tenantID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by provider ID",
			zap.Error(err),
			zap.String("provider_id", providerID.String()),
		)
		return 0, fmt.Errorf("count bookings by provider ID %s: %w", providerID.String(), err)
	}

	return count, nil
}

// ApplyPatch applies only the non-nil fields in one parameterized statement.
func (r *bookingRepository) ApplyPatch(ctx context.Context, tenantID, id uuid.UUID, patch BookingPatch) error {
	query := `
		UPDATE bookings
		SET status = COALESCE($3, status),
		    payment_status = COALESCE($4, payment_status),
		    notes = COALESCE($5, notes),
		    cancellation_reason = COALESCE($6, cancellation_reason),
		    cancelled_by = COALESCE($7, cancelled_by),
		    completed_at = COALESCE($8, completed_at),
		    updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
	`

	tag, err := r.db.Exec(ctx, query,
		id,
		tenantID,
		patch.Status,
		patch.PaymentStatus,
		patch.Notes,
		patch.CancellationReason,
		patch.CancelledBy,
		patch.CompletedAt,
	)

	if err != nil {
		r.log.Error("Failed to patch booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("patch booking %s: %w", id.String(), err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'pending' AND payment_status = 'pending' AND created_at < $1
		ORDER BY created_at
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, cutoff, limit)
	if err != nil {
		r.log.Error("Failed to find stale pending bookings", zap.Error(err))
		return nil, fmt.Errorf("find stale pending bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query bookings", zap.Error(err))
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}
