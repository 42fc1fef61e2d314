package wire

import (
	"marketplace-booking/internal/adaptor"
	"marketplace-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	paymentHandler *adaptor.PaymentHandler,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Guest bookings and their payments carry no session; the service layer
	// enforces tenant scope and booking state.
	r.Post("/api/bookings/guest", bookingHandler.CreateGuestBooking)
	r.Post("/api/bookings/{id}/pay", paymentHandler.RecordPayment)
	r.Post("/api/bookings/{id}/confirm", paymentHandler.ConfirmBooking)
	r.Get("/api/bookings/{id}", bookingHandler.GetBooking)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth())

		// POST /api/bookings - Create booking for the authenticated customer
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/user/bookings - The caller's own booking history
		r.Get("/api/user/bookings", bookingHandler.ListMyBookings)

		// PUT /api/bookings/{id}/status - Lifecycle transition as the caller's role
		r.Put("/api/bookings/{id}/status", bookingHandler.TransitionBooking)

		// PUT /api/bookings/{id}/cancel - Cancel a pending booking
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)
	})
}
