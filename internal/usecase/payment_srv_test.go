package usecase

import (
	"context"
	"testing"
	"time"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/internal/dto/request"
	"marketplace-booking/pkg/apperr"
	"marketplace-booking/pkg/utils"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *repository.Repository) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, repository.NewRepository(mock, zap.NewNop())
}

func authedCtx(tenantID, userID uuid.UUID, role entity.UserRole) context.Context {
	ctx := utils.SetTenantContext(context.Background(), tenantID)
	return utils.SetUserContext(ctx, userID, string(role))
}

var bookingCols = []string{
	"id", "tenant_id", "customer_id", "provider_id", "service_id", "status",
	"payment_status", "scheduled_at", "total_amount", "commission_amount", "currency",
	"cancellation_reason", "cancelled_by", "notes", "metadata", "completed_at",
	"created_at", "updated_at",
}

func bookingRows(b *entity.Booking) *pgxmock.Rows {
	return pgxmock.NewRows(bookingCols).AddRow(
		b.ID, b.TenantID, b.CustomerID, b.ProviderID, b.ServiceID, b.Status,
		b.PaymentStatus, b.ScheduledAt, b.TotalAmount, b.CommissionAmount, b.Currency,
		b.CancellationReason, b.CancelledBy, b.Notes, b.Metadata, b.CompletedAt,
		b.CreatedAt, b.UpdatedAt,
	)
}

var providerCols = []string{
	"id", "tenant_id", "user_id", "display_name", "commission_rate", "rating",
	"total_reviews", "total_bookings", "is_active", "created_at", "updated_at",
}

func providerRows(p *entity.ServiceProvider) *pgxmock.Rows {
	return pgxmock.NewRows(providerCols).AddRow(
		p.ID, p.TenantID, p.UserID, p.DisplayName, p.CommissionRate, p.Rating,
		p.TotalReviews, p.TotalBookings, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
}

func testBooking(tenantID uuid.UUID, customerID *uuid.UUID, status entity.BookingStatus, paymentStatus entity.PaymentState) *entity.Booking {
	now := time.Now()
	return &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID:         tenantID,
		CustomerID:       customerID,
		ProviderID:       uuid.New(),
		ServiceID:        uuid.New(),
		Status:           status,
		PaymentStatus:    paymentStatus,
		ScheduledAt:      now.Add(24 * time.Hour),
		TotalAmount:      decimal.RequireFromString("100"),
		CommissionAmount: decimal.RequireFromString("10"),
		Currency:         "USD",
	}
}

func testProvider(tenantID, providerID uuid.UUID) *entity.ServiceProvider {
	now := time.Now()
	return &entity.ServiceProvider{
		Base: entity.Base{
			ID:        providerID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID:       tenantID,
		UserID:         uuid.New(),
		DisplayName:    "Test Provider",
		CommissionRate: decimal.RequireFromString("10"),
		Rating:         decimal.Zero,
		IsActive:       true,
	}
}

func newTestServices(repo *repository.Repository) (*bookingService, PaymentService, ReviewService) {
	log := zap.NewNop()
	audit := NewAuditService(repo, log)
	notifier := NewNotifier(repo, nil, log)
	bookings := newBookingService(repo, audit, notifier, log)
	payments := NewPaymentService(repo, bookings, audit, notifier, log)
	reviews := NewReviewService(repo, audit, notifier, log)
	return bookings, payments, reviews
}

func TestRecordPaymentSettlesBookingInOneTransaction(t *testing.T) {
	mock, repo := newMockRepo(t)
	_, payments, _ := newTestServices(repo)

	tenantID := uuid.New()
	customerID := uuid.New()
	booking := testBooking(tenantID, &customerID, entity.BookingStatusPending, entity.PaymentStatePending)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings`).WillReturnRows(bookingRows(booking))
	mock.ExpectExec(`INSERT INTO payments`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE bookings`).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_logs`).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	ctx := authedCtx(tenantID, customerID, entity.RoleCustomer)
	payment, err := payments.RecordPayment(ctx, booking.ID.String(), &request.RecordPaymentRequest{
		Amount:        "100",
		PaymentMethod: "card",
	})

	require.NoError(t, err)
	assert.Equal(t, "100", payment.Amount)
	assert.Equal(t, string(entity.PaymentStatusCompleted), payment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentAlreadyPaidConflicts(t *testing.T) {
	mock, repo := newMockRepo(t)
	_, payments, _ := newTestServices(repo)

	tenantID := uuid.New()
	customerID := uuid.New()
	booking := testBooking(tenantID, &customerID, entity.BookingStatusConfirmed, entity.PaymentStatePaid)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings`).WillReturnRows(bookingRows(booking))
	mock.ExpectRollback()

	ctx := authedCtx(tenantID, customerID, entity.RoleCustomer)
	_, err := payments.RecordPayment(ctx, booking.ID.String(), &request.RecordPaymentRequest{
		Amount:        "100",
		PaymentMethod: "card",
	})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	appErr, _ := apperr.As(err)
	assert.Equal(t, "already_paid", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentAmountMustMatchTotal(t *testing.T) {
	mock, repo := newMockRepo(t)
	_, payments, _ := newTestServices(repo)

	tenantID := uuid.New()
	customerID := uuid.New()
	booking := testBooking(tenantID, &customerID, entity.BookingStatusPending, entity.PaymentStatePending)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings`).WillReturnRows(bookingRows(booking))
	mock.ExpectRollback()

	ctx := authedCtx(tenantID, customerID, entity.RoleCustomer)
	_, err := payments.RecordPayment(ctx, booking.ID.String(), &request.RecordPaymentRequest{
		Amount:        "99.99",
		PaymentMethod: "card",
	})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	appErr, _ := apperr.As(err)
	assert.Equal(t, "amount_mismatch", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentUnknownBookingNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)
	_, payments, _ := newTestServices(repo)

	tenantID := uuid.New()
	customerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings`).WillReturnRows(pgxmock.NewRows(bookingCols))
	mock.ExpectRollback()

	ctx := authedCtx(tenantID, customerID, entity.RoleCustomer)
	_, err := payments.RecordPayment(ctx, uuid.New().String(), &request.RecordPaymentRequest{
		Amount:        "100",
		PaymentMethod: "card",
	})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmBookingRequiresPaid(t *testing.T) {
	mock, repo := newMockRepo(t)
	_, payments, _ := newTestServices(repo)

	tenantID := uuid.New()
	customerID := uuid.New()
	booking := testBooking(tenantID, &customerID, entity.BookingStatusPending, entity.PaymentStatePending)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings`).WillReturnRows(bookingRows(booking))
	mock.ExpectRollback()

	ctx := authedCtx(tenantID, customerID, entity.RoleCustomer)
	_, err := payments.ConfirmBooking(ctx, booking.ID.String())

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindPaymentRequired))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmBookingIncrementsProviderCounter(t *testing.T) {
	mock, repo := newMockRepo(t)
	_, payments, _ := newTestServices(repo)

	tenantID := uuid.New()
	customerID := uuid.New()
	booking := testBooking(tenantID, &customerID, entity.BookingStatusPending, entity.PaymentStatePaid)
	provider := testProvider(tenantID, booking.ProviderID)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings`).WillReturnRows(bookingRows(booking))
	mock.ExpectExec(`UPDATE bookings`).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`total_bookings \+ 1`).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`FROM service_providers`).WillReturnRows(providerRows(provider))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_logs`).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	ctx := authedCtx(tenantID, customerID, entity.RoleCustomer)
	confirmed, err := payments.ConfirmBooking(ctx, booking.ID.String())

	require.NoError(t, err)
	assert.Equal(t, string(entity.BookingStatusConfirmed), confirmed.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
