package usecase

import (
	"testing"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/dto/request"
	"marketplace-booking/pkg/apperr"
	"marketplace-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewUpdatesProviderAggregate(t *testing.T) {
	mock, repo := newMockRepo(t)
	_, _, reviews := newTestServices(repo)

	tenantID := uuid.New()
	customerID := uuid.New()
	booking := testBooking(tenantID, &customerID, entity.BookingStatusCompleted, entity.PaymentStatePaid)
	provider := testProvider(tenantID, booking.ProviderID)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings`).WillReturnRows(bookingRows(booking))
	mock.ExpectExec(`INSERT INTO reviews`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`SET rating`).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_logs`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`FROM service_providers`).WillReturnRows(providerRows(provider))

	ctx := authedCtx(tenantID, customerID, entity.RoleCustomer)
	review, err := reviews.CreateReview(ctx, &request.CreateReviewRequest{
		BookingID: booking.ID.String(),
		Rating:    4,
	})

	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, booking.ProviderID.String(), review.ProviderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReviewSecondReviewConflicts(t *testing.T) {
	mock, repo := newMockRepo(t)
	_, _, reviews := newTestServices(repo)

	tenantID := uuid.New()
	customerID := uuid.New()
	booking := testBooking(tenantID, &customerID, entity.BookingStatusCompleted, entity.PaymentStatePaid)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings`).WillReturnRows(bookingRows(booking))
	mock.ExpectExec(`INSERT INTO reviews`).WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	ctx := authedCtx(tenantID, customerID, entity.RoleCustomer)
	_, err := reviews.CreateReview(ctx, &request.CreateReviewRequest{
		BookingID: booking.ID.String(),
		Rating:    5,
	})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	appErr, _ := apperr.As(err)
	assert.Equal(t, "already_reviewed", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReviewRequiresCompletedBooking(t *testing.T) {
	mock, repo := newMockRepo(t)
	_, _, reviews := newTestServices(repo)

	tenantID := uuid.New()
	customerID := uuid.New()
	booking := testBooking(tenantID, &customerID, entity.BookingStatusConfirmed, entity.PaymentStatePaid)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings`).WillReturnRows(bookingRows(booking))
	mock.ExpectRollback()

	ctx := authedCtx(tenantID, customerID, entity.RoleCustomer)
	_, err := reviews.CreateReview(ctx, &request.CreateReviewRequest{
		BookingID: booking.ID.String(),
		Rating:    3,
	})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReviewGuestsAreRejected(t *testing.T) {
	_, repo := newMockRepo(t)
	_, _, reviews := newTestServices(repo)

	ctx := utils.SetTenantContext(t.Context(), uuid.New())
	_, err := reviews.CreateReview(ctx, &request.CreateReviewRequest{
		BookingID: uuid.New().String(),
		Rating:    5,
	})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestCreateReviewOnlyOwnerMaySubmit(t *testing.T) {
	mock, repo := newMockRepo(t)
	_, _, reviews := newTestServices(repo)

	tenantID := uuid.New()
	ownerID := uuid.New()
	booking := testBooking(tenantID, &ownerID, entity.BookingStatusCompleted, entity.PaymentStatePaid)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings`).WillReturnRows(bookingRows(booking))
	mock.ExpectRollback()

	ctx := authedCtx(tenantID, uuid.New(), entity.RoleCustomer)
	_, err := reviews.CreateReview(ctx, &request.CreateReviewRequest{
		BookingID: booking.ID.String(),
		Rating:    5,
	})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
	assert.NoError(t, mock.ExpectationsWereMet())
}
