package adaptor

import (
	"marketplace-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Booking *BookingHandler
	Payment *PaymentHandler
	Review  *ReviewHandler
	Stats   *StatsHandler
	Audit   *AuditHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking: NewBookingHandler(service.Booking, log),
		Payment: NewPaymentHandler(service.Payment, log),
		Review:  NewReviewHandler(service.Review, log),
		Stats:   NewStatsHandler(service.Stats, log),
		Audit:   NewAuditHandler(service.Audit, log),
	}
}
