package repository

import (
	"context"
	"errors"
	"fmt"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrDuplicateReview surfaces the unique index on reviews.booking_id. The
// index is the real arbiter under concurrent submissions; the service's
// pre-check only produces the friendlier path.
var ErrDuplicateReview = errors.New("booking already reviewed")

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByBookingID(ctx context.Context, tenantID, bookingID uuid.UUID) (*entity.Review, error)
	FindByProviderID(ctx context.Context, tenantID, providerID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	CountByProviderID(ctx context.Context, tenantID, providerID uuid.UUID) (int64, error)
}

type reviewRepository struct {
	db  database.Executor
	log *zap.Logger
}

func NewReviewRepository(db database.Executor, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, tenant_id, booking_id, provider_id, customer_id,
		                     rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.TenantID,
		review.BookingID,
		review.ProviderID,
		review.CustomerID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateReview
		}

		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("booking_id", review.BookingID.String()),
		)
		return fmt.Errorf("create review for booking %s: %w", review.BookingID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByBookingID(ctx context.Context, tenantID, bookingID uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, tenant_id, booking_id, provider_id, customer_id, rating, comment, created_at
		FROM reviews
		WHERE booking_id = $1 AND tenant_id = $2
	`

	var review entity.Review
	err := r.db.QueryRow(ctx, query, bookingID, tenantID).Scan(
		&review.ID,
		&review.TenantID,
		&review.BookingID,
		&review.ProviderID,
		&review.CustomerID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find review by booking ID %s: %w", bookingID.String(), err)
	}

	return &review, nil
}

func (r *reviewRepository) FindByProviderID(ctx context.Context, tenantID, providerID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := `
		SELECT id, tenant_id, booking_id, provider_id, customer_id, rating, comment, created_at
		FROM reviews
		WHERE provider_id = $1 AND tenant_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, providerID, tenantID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews by provider ID",
			zap.Error(err),
			zap.String("provider_id", providerID.String()),
		)
		return nil, fmt.Errorf("find reviews by provider ID %s: %w", providerID.String(), err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		var review entity.Review
		err := rows.Scan(
			&review.ID,
			&review.TenantID,
			&review.BookingID,
			&review.ProviderID,
			&review.CustomerID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, &review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) CountByProviderID(ctx context.Context, tenantID, providerID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE provider_id = $1 AND tenant_id = $2`

	var count int64
	err := r.db.QueryRow(ctx, query, providerID, tenantID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count reviews by provider ID",
			zap.Error(err),
			zap.String("provider_id", providerID.String()),
		)
		return 0, fmt.Errorf("count reviews by provider ID %s: %w", providerID.String(), err)
	}

	return count, nil
}
