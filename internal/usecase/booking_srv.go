package usecase

import (
	"context"
	"fmt"
	"time"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/internal/dto/request"
	"marketplace-booking/internal/dto/response"
	"marketplace-booking/internal/events"
	"marketplace-booking/pkg/apperr"
	"marketplace-booking/pkg/metrics"
	"marketplace-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	CreateGuestBooking(ctx context.Context, req *request.CreateGuestBookingRequest) (*response.BookingResponse, error)

	// TransitionBooking applies a status change as the caller's role.
	TransitionBooking(ctx context.Context, bookingID string, req *request.TransitionBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error)
	AdminUpdateBooking(ctx context.Context, bookingID string, req *request.AdminUpdateBookingRequest) (*response.BookingResponse, error)

	GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	ListMyBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	ListProviderBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// ExpireStalePending cancels unpaid pending bookings older than the
	// payment window. Called by the cron worker.
	ExpireStalePending(ctx context.Context, window time.Duration, limit int) (int, error)
}

type bookingService struct {
	repo     *repository.Repository
	audit    AuditService
	notifier *Notifier
	log      *zap.Logger
}

func NewBookingService(repo *repository.Repository, audit AuditService, notifier *Notifier, log *zap.Logger) BookingService {
	return newBookingService(repo, audit, notifier, log)
}

func newBookingService(repo *repository.Repository, audit AuditService, notifier *Notifier, log *zap.Logger) *bookingService {
	return &bookingService{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("invalid_request", utils.FormatValidationErrors(errs))
	}

	actorID, ok := actorFrom(ctx)
	if !ok {
		return nil, apperr.Authorization("authentication_required", "authentication required")
	}

	return s.create(ctx, &actorID, req.ServiceID, req.ScheduledAt, req.AmountOverride, req.Notes, nil)
}

func (s *bookingService) CreateGuestBooking(ctx context.Context, req *request.CreateGuestBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create guest booking validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("invalid_request", utils.FormatValidationErrors(errs))
	}

	metadata := map[string]any{
		"guest_name":  req.GuestName,
		"guest_email": req.GuestEmail,
	}
	if req.GuestPhone != nil {
		metadata["guest_phone"] = *req.GuestPhone
	}

	return s.create(ctx, nil, req.ServiceID, req.ScheduledAt, req.AmountOverride, req.Notes, metadata)
}

func (s *bookingService) create(ctx context.Context, customerID *uuid.UUID, serviceID, scheduledAt string, amountOverride, notes *string, metadata map[string]any) (*response.BookingResponse, error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}

	svcID, err := uuid.Parse(serviceID)
	if err != nil {
		return nil, apperr.Validation("invalid_service_id", "service_id must be a UUID")
	}

	schedule, err := time.Parse(time.RFC3339, scheduledAt)
	if err != nil {
		return nil, apperr.Validation("invalid_scheduled_at", "scheduled_at must be RFC3339")
	}
	if schedule.Before(time.Now()) {
		return nil, apperr.Validation("scheduled_in_past", "cannot book in the past")
	}

	var override *decimal.Decimal
	if amountOverride != nil {
		amount, err := decimal.NewFromString(*amountOverride)
		if err != nil || !amount.IsPositive() {
			return nil, apperr.Validation("invalid_amount", "amount_override must be a positive decimal")
		}
		override = &amount
	}

	var booking *entity.Booking
	var providerUserID uuid.UUID

	err = s.repo.InTx(ctx, func(tx *repository.Repository) error {
		service, err := tx.Service.FindByID(ctx, tenantID, svcID)
		if err != nil {
			return apperr.Dependency("load service", err)
		}
		if service == nil || !service.IsActive {
			return apperr.NotFound("service_not_found", "service not found")
		}

		// The commission rate is read inside this transaction so a
		// concurrent rate change cannot split the snapshot.
		provider, err := tx.Provider.FindByID(ctx, tenantID, service.ProviderID)
		if err != nil {
			return apperr.Dependency("load provider", err)
		}
		if provider == nil || !provider.IsActive {
			return apperr.NotFound("service_not_found", "service not found")
		}
		providerUserID = provider.UserID

		total := service.BasePrice
		if override != nil {
			total = *override
		}

		now := time.Now()
		booking = &entity.Booking{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			TenantID:         tenantID,
			CustomerID:       customerID,
			ProviderID:       provider.ID,
			ServiceID:        service.ID,
			Status:           entity.BookingStatusPending,
			PaymentStatus:    entity.PaymentStatePending,
			ScheduledAt:      schedule,
			TotalAmount:      total,
			CommissionAmount: Commission(total, provider.CommissionRate, service.Currency),
			Currency:         service.Currency,
			Notes:            notes,
			Metadata:         metadata,
		}

		return tx.Booking.Create(ctx, booking)
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		s.log.Error("Failed to create booking", zap.Error(err))
		return nil, apperr.Dependency("create booking", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("provider_id", booking.ProviderID.String()),
		zap.String("total_amount", booking.TotalAmount.String()),
		zap.String("commission_amount", booking.CommissionAmount.String()),
		zap.Bool("guest", booking.IsGuest()),
	)

	s.audit.Record(ctx, entity.ActionBookingCreate, "booking", booking.ID, map[string]any{
		"status":            string(booking.Status),
		"total_amount":      booking.TotalAmount.String(),
		"commission_amount": booking.CommissionAmount.String(),
	})

	s.notifier.DispatchAsync(nil, events.RKBookingCreated, bookingEvent(booking))
	_ = providerUserID // provider is notified on confirmation, not on request

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) TransitionBooking(ctx context.Context, bookingID string, req *request.TransitionBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("invalid_request", utils.FormatValidationErrors(errs))
	}

	role := roleFrom(ctx)
	auditAction := entity.ActionBookingUpdateStatus
	if role == entity.RoleCustomer {
		auditAction = entity.ActionBookingCancel
	}

	return s.transitionByID(ctx, role, bookingID, entity.BookingStatus(req.Status), req.Reason, auditAction)
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	return s.transitionByID(ctx, roleFrom(ctx), bookingID, entity.BookingStatusCancelled, req.Reason, entity.ActionBookingCancel)
}

func (s *bookingService) transitionByID(ctx context.Context, role entity.UserRole, bookingID string, target entity.BookingStatus, reason *string, auditAction string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.Validation("invalid_booking_id", "booking id must be a UUID")
	}

	booking, err := s.transition(ctx, role, id, target, reason, auditAction)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// transition is the single path every status change goes through,
// including payment confirmation and system expiry. The booking row stays
// locked from rule evaluation to the final write.
func (s *bookingService) transition(ctx context.Context, role entity.UserRole, bookingID uuid.UUID, target entity.BookingStatus, reason *string, auditAction string) (*entity.Booking, error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}

	var booking *entity.Booking
	var previous entity.BookingStatus
	var providerUserID uuid.UUID

	err = s.repo.InTx(ctx, func(tx *repository.Repository) error {
		b, err := tx.Booking.FindByIDForUpdate(ctx, tenantID, bookingID)
		if err != nil {
			return apperr.Dependency("lock booking", err)
		}
		if b == nil {
			return apperr.NotFound("booking_not_found", "booking not found")
		}

		if err := s.checkOwnership(ctx, tx, role, b); err != nil {
			return err
		}

		if err := authorizeTransition(role, b.Status, target); err != nil {
			return err
		}

		// A booking is never confirmed unpaid, whoever asks.
		if target == entity.BookingStatusConfirmed && b.PaymentStatus != entity.PaymentStatePaid {
			return apperr.PaymentRequired("payment_required", "booking must be paid before confirmation")
		}

		previous = b.Status
		patch := repository.BookingPatch{Status: &target}

		now := time.Now()
		switch target {
		case entity.BookingStatusCompleted:
			patch.CompletedAt = &now
		case entity.BookingStatusCancelled:
			patch.CancellationReason = reason
			if actorID, ok := actorFrom(ctx); ok {
				patch.CancelledBy = &actorID
			}
		}

		if err := tx.Booking.ApplyPatch(ctx, tenantID, b.ID, patch); err != nil {
			return apperr.Dependency("apply booking transition", err)
		}

		// The counter moves with the status or not at all.
		if target == entity.BookingStatusConfirmed {
			if err := tx.Provider.IncrementTotalBookings(ctx, tenantID, b.ProviderID); err != nil {
				return apperr.Dependency("increment provider bookings", err)
			}
		}

		provider, err := tx.Provider.FindByID(ctx, tenantID, b.ProviderID)
		if err != nil {
			return apperr.Dependency("load provider", err)
		}
		if provider != nil {
			providerUserID = provider.UserID
		}

		b.Status = target
		b.UpdatedAt = now
		if patch.CompletedAt != nil {
			b.CompletedAt = patch.CompletedAt
		}
		if target == entity.BookingStatusCancelled {
			b.CancellationReason = reason
			b.CancelledBy = patch.CancelledBy
		}
		booking = b
		return nil
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		s.log.Error("Booking transition failed",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("target", string(target)),
		)
		return nil, apperr.Dependency("booking transition", err)
	}

	metrics.BookingTransitions.WithLabelValues(string(target)).Inc()

	s.log.Info("Booking transitioned",
		zap.String("booking_id", booking.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(target)),
		zap.String("role", string(role)),
	)

	changes := map[string]any{
		"status":          string(target),
		"previous_status": string(previous),
	}
	if reason != nil {
		changes["reason"] = *reason
	}
	s.audit.Record(ctx, auditAction, "booking", booking.ID, changes)

	s.notifyTransition(booking, providerUserID, target)

	return booking, nil
}

func (s *bookingService) checkOwnership(ctx context.Context, tx *repository.Repository, role entity.UserRole, b *entity.Booking) error {
	switch role {
	case entity.RoleCustomer:
		actorID, ok := actorFrom(ctx)
		if !ok {
			return apperr.Authorization("authentication_required", "authentication required")
		}
		if b.CustomerID == nil || *b.CustomerID != actorID {
			return apperr.Authorization("not_owner", "not your booking")
		}
	case entity.RoleProvider:
		actorID, ok := actorFrom(ctx)
		if !ok {
			return apperr.Authorization("authentication_required", "authentication required")
		}
		provider, err := tx.Provider.FindByUserID(ctx, b.TenantID, actorID)
		if err != nil {
			return apperr.Dependency("load provider profile", err)
		}
		if provider == nil || provider.ID != b.ProviderID {
			return apperr.Authorization("not_owner", "not your booking")
		}
	case entity.RoleAdmin, entity.RoleSuperAdmin, entity.RoleSystem:
		// Tenant scoping already happened on the lookup.
	default:
		return apperr.Authorization("role_forbidden", "this role may not modify bookings")
	}
	return nil
}

func (s *bookingService) AdminUpdateBooking(ctx context.Context, bookingID string, req *request.AdminUpdateBookingRequest) (*response.BookingResponse, error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}

	if !roleFrom(ctx).IsAdmin() {
		return nil, apperr.Authorization("admin_required", "administrative override is admin only")
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("invalid_request", utils.FormatValidationErrors(errs))
	}
	if req.Status == nil && req.PaymentStatus == nil && req.Notes == nil {
		return nil, apperr.Validation("empty_patch", "nothing to update")
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.Validation("invalid_booking_id", "booking id must be a UUID")
	}

	// Status changes go through the same transition path as everyone
	// else's, so side effects and guards stay in one place.
	if req.Status != nil {
		if _, err := s.transition(ctx, roleFrom(ctx), id, entity.BookingStatus(*req.Status), nil, entity.ActionBookingAdminUpdate); err != nil {
			return nil, err
		}
	}

	var booking *entity.Booking
	changes := map[string]any{}

	err = s.repo.InTx(ctx, func(tx *repository.Repository) error {
		b, err := tx.Booking.FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return apperr.Dependency("lock booking", err)
		}
		if b == nil {
			return apperr.NotFound("booking_not_found", "booking not found")
		}

		patch := repository.BookingPatch{}

		if req.PaymentStatus != nil {
			next := entity.PaymentState(*req.PaymentStatus)
			// paid is immutable once reached
			if b.PaymentStatus == entity.PaymentStatePaid && next != entity.PaymentStatePaid {
				return apperr.Conflict("already_paid", "payment status is final")
			}
			if next != b.PaymentStatus {
				patch.PaymentStatus = &next
				changes["payment_status"] = string(next)
				b.PaymentStatus = next
			}
		}

		if req.Notes != nil {
			patch.Notes = req.Notes
			changes["notes"] = *req.Notes
			b.Notes = req.Notes
		}

		if patch.PaymentStatus != nil || patch.Notes != nil {
			if err := tx.Booking.ApplyPatch(ctx, tenantID, b.ID, patch); err != nil {
				return apperr.Dependency("apply admin patch", err)
			}
		}

		booking = b
		return nil
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		s.log.Error("Admin booking update failed", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, apperr.Dependency("admin booking update", err)
	}

	if len(changes) > 0 {
		s.audit.Record(ctx, entity.ActionBookingAdminUpdate, "booking", booking.ID, changes)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.Validation("invalid_booking_id", "booking id must be a UUID")
	}

	booking, err := s.repo.Booking.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, apperr.Dependency("load booking", err)
	}
	if booking == nil {
		return nil, apperr.NotFound("booking_not_found", "booking not found")
	}

	role := roleFrom(ctx)
	if !role.IsAdmin() {
		if err := s.checkReadAccess(ctx, role, booking); err != nil {
			return nil, err
		}
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) checkReadAccess(ctx context.Context, role entity.UserRole, b *entity.Booking) error {
	actorID, ok := actorFrom(ctx)
	if !ok {
		return apperr.NotFound("booking_not_found", "booking not found")
	}

	switch role {
	case entity.RoleCustomer:
		if b.CustomerID != nil && *b.CustomerID == actorID {
			return nil
		}
	case entity.RoleProvider:
		provider, err := s.repo.Provider.FindByUserID(ctx, b.TenantID, actorID)
		if err != nil {
			return apperr.Dependency("load provider profile", err)
		}
		if provider != nil && provider.ID == b.ProviderID {
			return nil
		}
	}

	return apperr.NotFound("booking_not_found", "booking not found")
}

func (s *bookingService) ListMyBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}

	actorID, ok := actorFrom(ctx)
	if !ok {
		return nil, apperr.Authorization("authentication_required", "authentication required")
	}

	bookings, err := s.repo.Booking.FindByCustomerID(ctx, tenantID, actorID, req.Limit(), req.Offset())
	if err != nil {
		return nil, apperr.Dependency("list bookings", err)
	}

	total, err := s.repo.Booking.CountByCustomerID(ctx, tenantID, actorID)
	if err != nil {
		return nil, apperr.Dependency("count bookings", err)
	}

	return paginateBookings(bookings, req, total), nil
}

func (s *bookingService) ListProviderBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}

	actorID, ok := actorFrom(ctx)
	if !ok {
		return nil, apperr.Authorization("authentication_required", "authentication required")
	}

	provider, err := s.repo.Provider.FindByUserID(ctx, tenantID, actorID)
	if err != nil {
		return nil, apperr.Dependency("load provider profile", err)
	}
	if provider == nil {
		return nil, apperr.Authorization("no_provider_profile", "caller has no provider profile")
	}

	bookings, err := s.repo.Booking.FindByProviderID(ctx, tenantID, provider.ID, req.Limit(), req.Offset())
	if err != nil {
		return nil, apperr.Dependency("list bookings", err)
	}

	total, err := s.repo.Booking.CountByProviderID(ctx, tenantID, provider.ID)
	if err != nil {
		return nil, apperr.Dependency("count bookings", err)
	}

	return paginateBookings(bookings, req, total), nil
}

func (s *bookingService) ExpireStalePending(ctx context.Context, window time.Duration, limit int) (int, error) {
	cutoff := time.Now().Add(-window)

	stale, err := s.repo.Booking.FindStalePending(ctx, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("find stale pending bookings: %w", err)
	}

	reason := "payment window expired"
	expired := 0
	for _, b := range stale {
		// Each booking runs under its own tenant scope; the shared
		// transition path re-checks state under lock, so a booking paid
		// meanwhile is skipped with a conflict.
		bookingCtx := utils.SetTenantContext(ctx, b.TenantID)
		if _, err := s.transition(bookingCtx, entity.RoleSystem, b.ID, entity.BookingStatusCancelled, &reason, entity.ActionBookingExpire); err != nil {
			if _, ok := apperr.As(err); !ok {
				s.log.Error("Failed to expire booking", zap.Error(err), zap.String("booking_id", b.ID.String()))
			}
			continue
		}
		expired++
	}

	if expired > 0 {
		s.log.Info("Stale pending bookings expired", zap.Int("count", expired))
	}
	return expired, nil
}

func (s *bookingService) notifyTransition(b *entity.Booking, providerUserID uuid.UUID, target entity.BookingStatus) {
	event := bookingEvent(b)

	switch target {
	case entity.BookingStatusConfirmed:
		s.notifier.DispatchAsync(&entity.Notification{
			TenantID:  b.TenantID,
			UserID:    providerUserID,
			Type:      entity.NotificationNewBooking,
			TitleEn:   "New booking",
			TitleAr:   "حجز جديد",
			MessageEn: "A booking has been paid and confirmed.",
			MessageAr: "تم دفع الحجز وتأكيده.",
			Data:      map[string]any{"booking_id": b.ID.String()},
		}, events.RKBookingConfirmed, event)
	case entity.BookingStatusInProgress:
		s.notifier.DispatchAsync(nil, events.RKBookingStarted, event)
	case entity.BookingStatusCompleted:
		if b.CustomerID != nil {
			s.notifier.DispatchAsync(&entity.Notification{
				TenantID:  b.TenantID,
				UserID:    *b.CustomerID,
				Type:      entity.NotificationBookingCompleted,
				TitleEn:   "Booking completed",
				TitleAr:   "اكتمل الحجز",
				MessageEn: "Your booking has been completed. You can now leave a review.",
				MessageAr: "اكتمل حجزك. يمكنك الآن كتابة تقييم.",
				Data:      map[string]any{"booking_id": b.ID.String()},
			}, events.RKBookingCompleted, event)
		} else {
			s.notifier.DispatchAsync(nil, events.RKBookingCompleted, event)
		}
	case entity.BookingStatusCancelled:
		s.notifier.DispatchAsync(&entity.Notification{
			TenantID:  b.TenantID,
			UserID:    providerUserID,
			Type:      entity.NotificationBookingCancelled,
			TitleEn:   "Booking cancelled",
			TitleAr:   "تم إلغاء الحجز",
			MessageEn: "A booking has been cancelled.",
			MessageAr: "تم إلغاء أحد الحجوزات.",
			Data:      map[string]any{"booking_id": b.ID.String()},
		}, events.RKBookingCancelled, event)
	}
}

func bookingEvent(b *entity.Booking) events.BookingEvent {
	event := events.BookingEvent{
		TenantID:   b.TenantID.String(),
		BookingID:  b.ID.String(),
		ProviderID: b.ProviderID.String(),
		Status:     string(b.Status),
	}
	if b.CustomerID != nil {
		event.CustomerID = b.CustomerID.String()
	}
	return event
}

func paginateBookings(bookings []*entity.Booking, req *request.PaginatedRequest, total int64) *response.PaginatedResponse[response.BookingResponse] {
	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}
	return response.NewPaginatedResponse(bookingResponses, req.Page, req.Limit(), total)
}
