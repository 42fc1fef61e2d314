package usecase

import (
	"testing"
	"time"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/apperr"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTenantOverviewRollsUpPaidBookings(t *testing.T) {
	mock, repo := newMockRepo(t)
	stats := NewStatsService(repo, nil, time.Minute, zap.NewNop())

	tenantID := uuid.New()

	mock.ExpectQuery(`GROUP BY status`).WillReturnRows(
		pgxmock.NewRows([]string{"status", "count"}).
			AddRow(entity.BookingStatusPending, int64(3)).
			AddRow(entity.BookingStatusCompleted, int64(7)),
	)
	mock.ExpectQuery(`SUM\(total_amount\)`).WillReturnRows(
		pgxmock.NewRows([]string{"revenue", "commission", "count"}).
			AddRow(decimal.RequireFromString("700"), decimal.RequireFromString("70"), int64(7)),
	)

	ctx := authedCtx(tenantID, uuid.New(), entity.RoleAdmin)
	overview, err := stats.TenantOverview(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(10), overview.TotalBookings)
	assert.Equal(t, int64(7), overview.PaidBookings)
	assert.Equal(t, int64(3), overview.BookingsByStatus[string(entity.BookingStatusPending)])
	assert.Equal(t, "700", overview.Revenue)
	assert.Equal(t, "70", overview.Commission)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantOverviewIsAdminOnly(t *testing.T) {
	_, repo := newMockRepo(t)
	stats := NewStatsService(repo, nil, time.Minute, zap.NewNop())

	ctx := authedCtx(uuid.New(), uuid.New(), entity.RoleProvider)
	_, err := stats.TenantOverview(ctx)

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestProviderDashboardComputesNetEarnings(t *testing.T) {
	mock, repo := newMockRepo(t)
	stats := NewStatsService(repo, nil, time.Minute, zap.NewNop())

	tenantID := uuid.New()
	provider := testProvider(tenantID, uuid.New())
	provider.TotalBookings = 12
	provider.TotalReviews = 4
	provider.Rating = decimal.RequireFromString("4.25")

	mock.ExpectQuery(`FROM service_providers`).WillReturnRows(providerRows(provider))
	mock.ExpectQuery(`GROUP BY status`).WillReturnRows(
		pgxmock.NewRows([]string{"status", "count"}).
			AddRow(entity.BookingStatusCompleted, int64(12)),
	)
	mock.ExpectQuery(`SUM\(total_amount\)`).WillReturnRows(
		pgxmock.NewRows([]string{"revenue", "commission", "count"}).
			AddRow(decimal.RequireFromString("1200"), decimal.RequireFromString("120"), int64(12)),
	)

	ctx := authedCtx(tenantID, provider.UserID, entity.RoleProvider)
	dashboard, err := stats.ProviderDashboard(ctx)

	require.NoError(t, err)
	assert.Equal(t, 12, dashboard.TotalBookings)
	assert.Equal(t, "4.25", dashboard.Rating)
	assert.Equal(t, "1200", dashboard.GrossVolume)
	assert.Equal(t, "1080", dashboard.NetEarnings)
	assert.NoError(t, mock.ExpectationsWereMet())
}
