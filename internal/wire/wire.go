package wire

import (
	"net/http"

	"marketplace-booking/internal/adaptor"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/internal/usecase"
	"marketplace-booking/pkg/middleware"
	"marketplace-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired router and the service layer for anything that needs
// to reach it outside HTTP (the background worker does).
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring initializes services and handlers and mounts all routes.
func Wiring(repo *repository.Repository, pub usecase.EventPublisher, cache *redis.Client, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, pub, cache, config.Redis.StatsTTL, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, repo *repository.Repository, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())

	// Infrastructure endpoints live outside the tenant scope: probes and
	// scrapers do not carry a tenant host or API key.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Everything under /api runs tenant-scoped and identity-resolved.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Tenant(repo.Tenant, logger))
		r.Use(middleware.Authenticate(repo.Session, logger))

		wireBooking(r, handler.Booking, handler.Payment, logger)
		wireReview(r, handler.Review, logger)
		wireProvider(r, handler.Booking, handler.Stats, logger)
		wireAdmin(r, handler.Booking, handler.Stats, handler.Audit, logger)
	})

	return r
}
