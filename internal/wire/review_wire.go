package wire

import (
	"marketplace-booking/internal/adaptor"
	"marketplace-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	log *zap.Logger,
) {
	// GET /api/providers/{id}/reviews - Public review listing
	r.Get("/api/providers/{id}/reviews", reviewHandler.ListProviderReviews)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth())

		// POST /api/reviews - Review a completed booking (customer only)
		r.Post("/api/reviews", reviewHandler.CreateReview)
	})
}
