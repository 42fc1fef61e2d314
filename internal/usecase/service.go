package usecase

import (
	"time"

	"marketplace-booking/internal/data/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Service bundles every usecase behind one constructor for wiring.
type Service struct {
	Booking BookingService
	Payment PaymentService
	Review  ReviewService
	Stats   StatsService
	Audit   AuditService
}

func NewService(repo *repository.Repository, pub EventPublisher, cache *redis.Client, statsTTL time.Duration, log *zap.Logger) *Service {
	audit := NewAuditService(repo, log)
	notifier := NewNotifier(repo, pub, log)
	bookings := newBookingService(repo, audit, notifier, log)

	return &Service{
		Booking: bookings,
		Payment: NewPaymentService(repo, bookings, audit, notifier, log),
		Review:  NewReviewService(repo, audit, notifier, log),
		Stats:   NewStatsService(repo, cache, statsTTL, log),
		Audit:   audit,
	}
}
