package wire

import (
	"marketplace-booking/internal/adaptor"
	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireProvider(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	statsHandler *adaptor.StatsHandler,
	log *zap.Logger,
) {
	r.Route("/api/provider", func(r chi.Router) {
		r.Use(middleware.RequireRole(entity.RoleProvider))

		// GET /api/provider/bookings - Bookings assigned to the caller's profile
		r.Get("/bookings", bookingHandler.ListProviderBookings)

		// GET /api/provider/dashboard - The caller's own rollup
		r.Get("/dashboard", statsHandler.ProviderDashboard)
	})
}
