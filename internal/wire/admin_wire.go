package wire

import (
	"marketplace-booking/internal/adaptor"
	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	statsHandler *adaptor.StatsHandler,
	auditHandler *adaptor.AuditHandler,
	log *zap.Logger,
) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleSuperAdmin))

		// PUT /api/admin/bookings/{id} - Administrative override
		r.Put("/bookings/{id}", bookingHandler.AdminUpdateBooking)

		// GET /api/admin/stats/overview - Tenant-wide rollup
		r.Get("/stats/overview", statsHandler.TenantOverview)

		// GET /api/admin/audit-logs - Immutable action trail
		r.Get("/audit-logs", auditHandler.ListAuditLog)
	})
}
