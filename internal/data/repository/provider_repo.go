package repository

import (
	"context"
	"fmt"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProviderRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.ServiceProvider, error)
	FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*entity.ServiceProvider, error)

	// Counter updates; must run inside the transaction of the operation
	// that causes them.
	IncrementTotalBookings(ctx context.Context, tenantID, id uuid.UUID) error
	RecomputeRating(ctx context.Context, tenantID, id uuid.UUID) error
}

type providerRepository struct {
	db  database.Executor
	log *zap.Logger
}

func NewProviderRepository(db database.Executor, log *zap.Logger) ProviderRepository {
	return &providerRepository{
		db:  db,
		log: log.With(zap.String("repository", "provider")),
	}
}

const providerColumns = `id, tenant_id, user_id, display_name, commission_rate, rating,
	       total_reviews, total_bookings, is_active, created_at, updated_at`

func scanProvider(row pgx.Row) (*entity.ServiceProvider, error) {
	var provider entity.ServiceProvider
	err := row.Scan(
		&provider.ID,
		&provider.TenantID,
		&provider.UserID,
		&provider.DisplayName,
		&provider.CommissionRate,
		&provider.Rating,
		&provider.TotalReviews,
		&provider.TotalBookings,
		&provider.IsActive,
		&provider.CreatedAt,
		&provider.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *providerRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.ServiceProvider, error) {
	query := `
		SELECT ` + providerColumns + `
		FROM service_providers
		WHERE id = $1 AND tenant_id = $2
	`

	provider, err := scanProvider(r.db.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		r.log.Error("Failed to find provider by ID",
			zap.Error(err),
			zap.String("provider_id", id.String()),
		)
		return nil, fmt.Errorf("find provider by ID %s: %w", id.String(), err)
	}

	return provider, nil
}

func (r *providerRepository) FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*entity.ServiceProvider, error) {
	query := `
		SELECT ` + providerColumns + `
		FROM service_providers
		WHERE user_id = $1 AND tenant_id = $2
	`

	provider, err := scanProvider(r.db.QueryRow(ctx, query, userID, tenantID))
	if err != nil {
		r.log.Error("Failed to find provider by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find provider by user ID %s: %w", userID.String(), err)
	}

	return provider, nil
}

func (r *providerRepository) IncrementTotalBookings(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `
		UPDATE service_providers
		SET total_bookings = total_bookings + 1, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
	`

	tag, err := r.db.Exec(ctx, query, id, tenantID)
	if err != nil {
		r.log.Error("Failed to increment provider bookings",
			zap.Error(err),
			zap.String("provider_id", id.String()),
		)
		return fmt.Errorf("increment bookings for provider %s: %w", id.String(), err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("provider %s not found", id.String())
	}

	return nil
}

// RecomputeRating rewrites the provider's rating and review count from the
// committed reviews. Ran inside the review-insert transaction so concurrent
// submissions serialize on the provider row.
func (r *providerRepository) RecomputeRating(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `
		UPDATE service_providers sp
		SET rating = agg.avg_rating,
		    total_reviews = agg.review_count,
		    updated_at = NOW()
		FROM (
			SELECT COALESCE(ROUND(AVG(rating), 2), 0) AS avg_rating,
			       COUNT(*) AS review_count
			FROM reviews
			WHERE provider_id = $1 AND tenant_id = $2
		) agg
		WHERE sp.id = $1 AND sp.tenant_id = $2
	`

	tag, err := r.db.Exec(ctx, query, id, tenantID)
	if err != nil {
		r.log.Error("Failed to recompute provider rating",
			zap.Error(err),
			zap.String("provider_id", id.String()),
		)
		return fmt.Errorf("recompute rating for provider %s: %w", id.String(), err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("provider %s not found", id.String())
	}

	return nil
}
