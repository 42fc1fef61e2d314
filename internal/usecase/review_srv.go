package usecase

import (
	"context"
	"errors"
	"time"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/internal/dto/request"
	"marketplace-booking/internal/dto/response"
	"marketplace-booking/pkg/apperr"
	"marketplace-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	// CreateReview submits the single review a customer may leave on a
	// completed booking they own. The provider's rating aggregate moves in
	// the same transaction.
	CreateReview(ctx context.Context, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	ListProviderReviews(ctx context.Context, providerID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
}

type reviewService struct {
	repo     *repository.Repository
	audit    AuditService
	notifier *Notifier
	log      *zap.Logger
}

func NewReviewService(repo *repository.Repository, audit AuditService, notifier *Notifier, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		log:      log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}

	// Guest bookings have no account to tie the review to.
	if roleFrom(ctx) != entity.RoleCustomer {
		return nil, apperr.Authorization("customer_required", "only customers can submit reviews")
	}
	actorID, ok := actorFrom(ctx)
	if !ok {
		return nil, apperr.Authorization("authentication_required", "authentication required")
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create review validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("invalid_request", utils.FormatValidationErrors(errs))
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperr.Validation("invalid_booking_id", "booking_id must be a UUID")
	}

	var review *entity.Review

	err = s.repo.InTx(ctx, func(tx *repository.Repository) error {
		booking, err := tx.Booking.FindByIDForUpdate(ctx, tenantID, bookingID)
		if err != nil {
			return apperr.Dependency("lock booking", err)
		}
		if booking == nil {
			return apperr.NotFound("booking_not_found", "booking not found")
		}
		if booking.CustomerID == nil || *booking.CustomerID != actorID {
			return apperr.Authorization("not_owner", "not your booking")
		}
		if booking.Status != entity.BookingStatusCompleted {
			return apperr.Conflict("booking_not_completed", "only completed bookings can be reviewed")
		}

		review = &entity.Review{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: time.Now(),
			},
			TenantID:   tenantID,
			BookingID:  booking.ID,
			ProviderID: booking.ProviderID,
			CustomerID: actorID,
			Rating:     req.Rating,
			Comment:    req.Comment,
		}

		// The unique index on booking_id is the real duplicate guard; any
		// pre-check here would still race.
		if err := tx.Review.Create(ctx, review); err != nil {
			if errors.Is(err, repository.ErrDuplicateReview) {
				return apperr.Conflict("already_reviewed", "booking already has a review")
			}
			return apperr.Dependency("create review", err)
		}

		if err := tx.Provider.RecomputeRating(ctx, tenantID, booking.ProviderID); err != nil {
			return apperr.Dependency("recompute provider rating", err)
		}
		return nil
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		s.log.Error("Failed to create review", zap.Error(err), zap.String("booking_id", req.BookingID))
		return nil, apperr.Dependency("create review", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("booking_id", review.BookingID.String()),
		zap.Int("rating", review.Rating),
	)

	s.audit.Record(ctx, entity.ActionReviewCreate, "review", review.ID, map[string]any{
		"booking_id":  review.BookingID.String(),
		"provider_id": review.ProviderID.String(),
		"rating":      review.Rating,
	})

	if provider, err := s.repo.Provider.FindByID(ctx, tenantID, review.ProviderID); err == nil && provider != nil {
		s.notifier.DispatchAsync(&entity.Notification{
			TenantID:  tenantID,
			UserID:    provider.UserID,
			Type:      entity.NotificationNewReview,
			TitleEn:   "New review",
			TitleAr:   "تقييم جديد",
			MessageEn: "A customer reviewed a completed booking.",
			MessageAr: "قام عميل بتقييم حجز مكتمل.",
			Data: map[string]any{
				"booking_id": review.BookingID.String(),
				"rating":     review.Rating,
			},
		}, "", nil)
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) ListProviderReviews(ctx context.Context, providerID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(providerID)
	if err != nil {
		return nil, apperr.Validation("invalid_provider_id", "provider id must be a UUID")
	}

	reviews, err := s.repo.Review.FindByProviderID(ctx, tenantID, id, req.Limit(), req.Offset())
	if err != nil {
		return nil, apperr.Dependency("list reviews", err)
	}

	total, err := s.repo.Review.CountByProviderID(ctx, tenantID, id)
	if err != nil {
		return nil, apperr.Dependency("count reviews", err)
	}

	reviewResponses := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		reviewResponses[i] = response.ReviewToResponse(review)
	}
	return response.NewPaginatedResponse(reviewResponses, req.Page, req.Limit(), total), nil
}
