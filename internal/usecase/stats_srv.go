package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/internal/dto/response"
	"marketplace-booking/pkg/apperr"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type StatsService interface {
	// TenantOverview is the admin dashboard rollup.
	TenantOverview(ctx context.Context) (*response.TenantOverviewResponse, error)
	// ProviderDashboard is the calling provider's own rollup.
	ProviderDashboard(ctx context.Context) (*response.ProviderDashboardResponse, error)
}

type statsService struct {
	repo  *repository.Repository
	cache *redis.Client // nil disables caching
	ttl   time.Duration
	log   *zap.Logger
}

func NewStatsService(repo *repository.Repository, cache *redis.Client, ttl time.Duration, log *zap.Logger) StatsService {
	return &statsService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log.With(zap.String("service", "stats")),
	}
}

func (s *statsService) TenantOverview(ctx context.Context) (*response.TenantOverviewResponse, error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}

	if !roleFrom(ctx).IsAdmin() {
		return nil, apperr.Authorization("admin_required", "tenant overview is admin only")
	}

	cacheKey := fmt.Sprintf("stats:overview:%s", tenantID)
	var cached response.TenantOverviewResponse
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	counts, err := s.repo.Stats.CountBookingsByStatus(ctx, tenantID)
	if err != nil {
		return nil, apperr.Dependency("count bookings", err)
	}

	totals, err := s.repo.Stats.TenantTotals(ctx, tenantID)
	if err != nil {
		return nil, apperr.Dependency("sum payments", err)
	}

	overview := &response.TenantOverviewResponse{
		BookingsByStatus: statusCounts(counts),
		TotalBookings:    sumCounts(counts),
		PaidBookings:     totals.PaymentCount,
		Revenue:          totals.Revenue.String(),
		Commission:       totals.Commission.String(),
	}

	s.cacheSet(ctx, cacheKey, overview)
	return overview, nil
}

func (s *statsService) ProviderDashboard(ctx context.Context) (*response.ProviderDashboardResponse, error) {
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

	cacheKey := fmt.Sprintf("stats:provider:%s:%s", tenantID, provider.ID)
	var cached response.ProviderDashboardResponse
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	counts, err := s.repo.Stats.CountProviderBookingsByStatus(ctx, tenantID, provider.ID)
	if err != nil {
		return nil, apperr.Dependency("count bookings", err)
	}

	totals, err := s.repo.Stats.ProviderTotals(ctx, tenantID, provider.ID)
	if err != nil {
		return nil, apperr.Dependency("sum payments", err)
	}

	dashboard := &response.ProviderDashboardResponse{
		BookingsByStatus: statusCounts(counts),
		TotalBookings:    provider.TotalBookings,
		Rating:           provider.Rating.String(),
		TotalReviews:     provider.TotalReviews,
		GrossVolume:      totals.Revenue.String(),
		NetEarnings:      totals.Revenue.Sub(totals.Commission).String(),
	}

	s.cacheSet(ctx, cacheKey, dashboard)
	return dashboard, nil
}

// cacheGet reports a hit; cache failures are treated as misses.
func (s *statsService) cacheGet(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}

	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("Stats cache read failed", zap.Error(err), zap.String("key", key))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.log.Warn("Stats cache entry corrupt", zap.Error(err), zap.String("key", key))
		return false
	}
	return true
}

func (s *statsService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.log.Warn("Stats cache write failed", zap.Error(err), zap.String("key", key))
	}
}

func statusCounts(counts map[entity.BookingStatus]int64) map[string]int64 {
	out := make(map[string]int64, len(counts))
	for status, count := range counts {
		out[string(status)] = count
	}
	return out
}

func sumCounts(counts map[entity.BookingStatus]int64) int64 {
	var total int64
	for _, count := range counts {
		total += count
	}
	return total
}
