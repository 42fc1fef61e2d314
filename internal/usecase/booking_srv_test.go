package usecase

import (
	"testing"
	"time"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/dto/request"
	"marketplace-booking/pkg/apperr"
	"marketplace-booking/pkg/utils"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serviceCols = []string{
	"id", "tenant_id", "provider_id", "name", "base_price", "currency",
	"duration_minutes", "is_active", "created_at", "updated_at",
}

func serviceRows(s *entity.Service) *pgxmock.Rows {
	return pgxmock.NewRows(serviceCols).AddRow(
		s.ID, s.TenantID, s.ProviderID, s.Name, s.BasePrice, s.Currency,
		s.DurationMinutes, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
}

func TestCreateBookingFreezesCommission(t *testing.T) {
	mock, repo := newMockRepo(t)
	bookings, _, _ := newTestServices(repo)

	tenantID := uuid.New()
	customerID := uuid.New()
	provider := testProvider(tenantID, uuid.New())

	now := time.Now()
	svc := &entity.Service{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TenantID:        tenantID,
		ProviderID:      provider.ID,
		Name:            "Deep cleaning",
		BasePrice:       decimal.RequireFromString("100"),
		Currency:        "USD",
		DurationMinutes: 120,
		IsActive:        true,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM services`).WillReturnRows(serviceRows(svc))
	mock.ExpectQuery(`FROM service_providers`).WillReturnRows(providerRows(provider))
	mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_logs`).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	ctx := authedCtx(tenantID, customerID, entity.RoleCustomer)
	booking, err := bookings.CreateBooking(ctx, &request.CreateBookingRequest{
		ServiceID:   svc.ID.String(),
		ScheduledAt: time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})

	require.NoError(t, err)
	assert.Equal(t, "100", booking.TotalAmount)

	commission := decimal.RequireFromString(booking.CommissionAmount)
	assert.True(t, commission.Equal(decimal.RequireFromString("10")),
		"want commission 10, got %s", booking.CommissionAmount)
	assert.Equal(t, string(entity.BookingStatusPending), booking.Status)
	assert.Equal(t, string(entity.PaymentStatePending), booking.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGuestBookingKeepsContactInMetadata(t *testing.T) {
	mock, repo := newMockRepo(t)
	bookings, _, _ := newTestServices(repo)

	tenantID := uuid.New()
	provider := testProvider(tenantID, uuid.New())

	now := time.Now()
	svc := &entity.Service{
		Base:            entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		TenantID:        tenantID,
		ProviderID:      provider.ID,
		Name:            "Haircut",
		BasePrice:       decimal.RequireFromString("35"),
		Currency:        "USD",
		DurationMinutes: 30,
		IsActive:        true,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM services`).WillReturnRows(serviceRows(svc))
	mock.ExpectQuery(`FROM service_providers`).WillReturnRows(providerRows(provider))
	mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_logs`).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	ctx := utils.SetTenantContext(t.Context(), tenantID)
	booking, err := bookings.CreateGuestBooking(ctx, &request.CreateGuestBookingRequest{
		ServiceID:   svc.ID.String(),
		ScheduledAt: time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		GuestName:   "Jamie Doe",
		GuestEmail:  "jamie@example.com",
	})

	require.NoError(t, err)
	assert.Nil(t, booking.CustomerID)
	assert.Equal(t, "Jamie Doe", booking.Metadata["guest_name"])
	assert.Equal(t, "jamie@example.com", booking.Metadata["guest_email"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingSchedulingInPastRejected(t *testing.T) {
	_, repo := newMockRepo(t)
	bookings, _, _ := newTestServices(repo)

	ctx := authedCtx(uuid.New(), uuid.New(), entity.RoleCustomer)
	_, err := bookings.CreateBooking(ctx, &request.CreateBookingRequest{
		ServiceID:   uuid.New().String(),
		ScheduledAt: time.Now().Add(-time.Hour).Format(time.RFC3339),
	})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestProviderForwardTransitionStampsCompletedAt(t *testing.T) {
	mock, repo := newMockRepo(t)
	bookings, _, _ := newTestServices(repo)

	tenantID := uuid.New()
	customerID := uuid.New()
	booking := testBooking(tenantID, &customerID, entity.BookingStatusInProgress, entity.PaymentStatePaid)
	provider := testProvider(tenantID, booking.ProviderID)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings`).WillReturnRows(bookingRows(booking))
	mock.ExpectQuery(`FROM service_providers`).WillReturnRows(providerRows(provider))
	mock.ExpectExec(`UPDATE bookings`).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`FROM service_providers`).WillReturnRows(providerRows(provider))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_logs`).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	ctx := authedCtx(tenantID, provider.UserID, entity.RoleProvider)
	updated, err := bookings.TransitionBooking(ctx, booking.ID.String(), &request.TransitionBookingRequest{
		Status: string(entity.BookingStatusCompleted),
	})

	require.NoError(t, err)
	assert.Equal(t, string(entity.BookingStatusCompleted), updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProviderCannotTouchAnotherProvidersBooking(t *testing.T) {
	mock, repo := newMockRepo(t)
	bookings, _, _ := newTestServices(repo)

	tenantID := uuid.New()
	customerID := uuid.New()
	booking := testBooking(tenantID, &customerID, entity.BookingStatusConfirmed, entity.PaymentStatePaid)
	otherProvider := testProvider(tenantID, uuid.New()) // not the booking's provider

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings`).WillReturnRows(bookingRows(booking))
	mock.ExpectQuery(`FROM service_providers`).WillReturnRows(providerRows(otherProvider))
	mock.ExpectRollback()

	ctx := authedCtx(tenantID, otherProvider.UserID, entity.RoleProvider)
	_, err := bookings.TransitionBooking(ctx, booking.ID.String(), &request.TransitionBookingRequest{
		Status: string(entity.BookingStatusInProgress),
	})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerCancelsOwnPendingBooking(t *testing.T) {
	mock, repo := newMockRepo(t)
	bookings, _, _ := newTestServices(repo)

	tenantID := uuid.New()
	customerID := uuid.New()
	booking := testBooking(tenantID, &customerID, entity.BookingStatusPending, entity.PaymentStatePending)
	provider := testProvider(tenantID, booking.ProviderID)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings`).WillReturnRows(bookingRows(booking))
	mock.ExpectExec(`UPDATE bookings`).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`FROM service_providers`).WillReturnRows(providerRows(provider))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_logs`).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	reason := "changed my mind"
	ctx := authedCtx(tenantID, customerID, entity.RoleCustomer)
	cancelled, err := bookings.CancelBooking(ctx, booking.ID.String(), &request.CancelBookingRequest{Reason: &reason})

	require.NoError(t, err)
	assert.Equal(t, string(entity.BookingStatusCancelled), cancelled.Status)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, reason, *cancelled.CancellationReason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerCannotCancelSomeoneElsesBooking(t *testing.T) {
	mock, repo := newMockRepo(t)
	bookings, _, _ := newTestServices(repo)

	tenantID := uuid.New()
	ownerID := uuid.New()
	booking := testBooking(tenantID, &ownerID, entity.BookingStatusPending, entity.PaymentStatePending)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings`).WillReturnRows(bookingRows(booking))
	mock.ExpectRollback()

	ctx := authedCtx(tenantID, uuid.New(), entity.RoleCustomer)
	_, err := bookings.CancelBooking(ctx, booking.ID.String(), &request.CancelBookingRequest{})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelConfirmedBookingConflicts(t *testing.T) {
	mock, repo := newMockRepo(t)
	bookings, _, _ := newTestServices(repo)

	tenantID := uuid.New()
	customerID := uuid.New()
	booking := testBooking(tenantID, &customerID, entity.BookingStatusConfirmed, entity.PaymentStatePaid)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings`).WillReturnRows(bookingRows(booking))
	mock.ExpectRollback()

	ctx := authedCtx(tenantID, customerID, entity.RoleCustomer)
	_, err := bookings.CancelBooking(ctx, booking.ID.String(), &request.CancelBookingRequest{})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUpdateRequiresAdminRole(t *testing.T) {
	_, repo := newMockRepo(t)
	bookings, _, _ := newTestServices(repo)

	notes := "override"
	ctx := authedCtx(uuid.New(), uuid.New(), entity.RoleCustomer)
	_, err := bookings.AdminUpdateBooking(ctx, uuid.New().String(), &request.AdminUpdateBookingRequest{Notes: &notes})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestExpireStalePendingCancelsUnpaidBookings(t *testing.T) {
	mock, repo := newMockRepo(t)
	bookings, _, _ := newTestServices(repo)

	tenantID := uuid.New()
	customerID := uuid.New()
	stale := testBooking(tenantID, &customerID, entity.BookingStatusPending, entity.PaymentStatePending)
	provider := testProvider(tenantID, stale.ProviderID)

	mock.ExpectQuery(`created_at < \$1`).WillReturnRows(bookingRows(stale))
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings`).WillReturnRows(bookingRows(stale))
	mock.ExpectExec(`UPDATE bookings`).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`FROM service_providers`).WillReturnRows(providerRows(provider))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_logs`).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	expired, err := bookings.ExpireStalePending(t.Context(), 30*time.Minute, 100)

	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.NoError(t, mock.ExpectationsWereMet())
}
