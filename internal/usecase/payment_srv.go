package usecase

import (
	"context"
	"time"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/internal/dto/request"
	"marketplace-booking/internal/dto/response"
	"marketplace-booking/internal/events"
	"marketplace-booking/pkg/apperr"
	"marketplace-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PaymentService interface {
	// RecordPayment settles a booking in full. Settlement is synchronous:
	// the payment row lands as completed and the booking flips to paid in
	// the same transaction, at most once per booking.
	RecordPayment(ctx context.Context, bookingID string, req *request.RecordPaymentRequest) (*response.PaymentResponse, error)

	// ConfirmBooking moves a paid pending booking to confirmed.
	ConfirmBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
}

// bookingTransitioner is the lifecycle entry point the reconciler delegates
// to; satisfied by bookingService.
type bookingTransitioner interface {
	transition(ctx context.Context, role entity.UserRole, bookingID uuid.UUID, target entity.BookingStatus, reason *string, auditAction string) (*entity.Booking, error)
}

type paymentService struct {
	repo     *repository.Repository
	bookings bookingTransitioner
	audit    AuditService
	notifier *Notifier
	log      *zap.Logger
}

func NewPaymentService(repo *repository.Repository, bookings bookingTransitioner, audit AuditService, notifier *Notifier, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:     repo,
		bookings: bookings,
		audit:    audit,
		notifier: notifier,
		log:      log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) RecordPayment(ctx context.Context, bookingID string, req *request.RecordPaymentRequest) (*response.PaymentResponse, error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Record payment validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("invalid_request", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.Validation("invalid_booking_id", "booking id must be a UUID")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, apperr.Validation("invalid_amount", "amount must be a positive decimal")
	}

	var payment *entity.Payment
	var booking *entity.Booking

	err = s.repo.InTx(ctx, func(tx *repository.Repository) error {
		b, err := tx.Booking.FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return apperr.Dependency("lock booking", err)
		}
		if b == nil {
			return apperr.NotFound("booking_not_found", "booking not found")
		}

		if b.PaymentStatus == entity.PaymentStatePaid {
			return apperr.Conflict("already_paid", "booking is already paid")
		}
		if b.Status.IsTerminal() {
			return apperr.Conflict("booking_terminal", "booking is no longer payable")
		}

		// Partial settlement is not modeled: the amount must match the
		// frozen total exactly.
		if !amount.Equal(b.TotalAmount) {
			return apperr.Validation("amount_mismatch", "amount must equal the booking total")
		}

		var userID *uuid.UUID
		if actorID, ok := actorFrom(ctx); ok {
			userID = &actorID
		}

		payment = &entity.Payment{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: time.Now(),
			},
			TenantID:         tenantID,
			BookingID:        b.ID,
			UserID:           userID,
			Amount:           amount,
			Currency:         b.Currency,
			PaymentMethod:    req.PaymentMethod,
			GatewayReference: utils.GenerateGatewayReference(),
			Status:           entity.PaymentStatusCompleted,
		}

		if err := tx.Payment.Create(ctx, payment); err != nil {
			return apperr.Dependency("create payment", err)
		}

		paid := entity.PaymentStatePaid
		if err := tx.Booking.ApplyPatch(ctx, tenantID, b.ID, repository.BookingPatch{PaymentStatus: &paid}); err != nil {
			return apperr.Dependency("mark booking paid", err)
		}

		b.PaymentStatus = paid
		booking = b
		return nil
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		s.log.Error("Failed to record payment", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, apperr.Dependency("record payment", err)
	}

	s.log.Info("Payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", booking.ID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("method", payment.PaymentMethod),
	)

	s.audit.Record(ctx, entity.ActionPaymentRecord, "payment", payment.ID, map[string]any{
		"booking_id": booking.ID.String(),
		"amount":     payment.Amount.String(),
		"method":     payment.PaymentMethod,
	})

	s.notifier.DispatchAsync(nil, events.RKPaymentPaid, events.PaymentEvent{
		TenantID:  tenantID.String(),
		BookingID: booking.ID.String(),
		PaymentID: payment.ID.String(),
		Amount:    payment.Amount.String(),
		Currency:  payment.Currency,
	})

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

func (s *paymentService) ConfirmBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.Validation("invalid_booking_id", "booking id must be a UUID")
	}

	// Confirmation runs as the system role regardless of the caller: the
	// paid check and the pending->confirmed rule decide, not ownership.
	booking, err := s.bookings.transition(ctx, entity.RoleSystem, id, entity.BookingStatusConfirmed, nil, entity.ActionBookingConfirm)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}
