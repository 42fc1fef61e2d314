package adaptor

import (
	"encoding/json"
	"net/http"

	"marketplace-booking/internal/dto/request"
	"marketplace-booking/internal/usecase"
	"marketplace-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /api/reviews (protected)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req request.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.CreateReview(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "success", review)
}

// ListProviderReviews handles GET /api/providers/{id}/reviews (public)
func (h *ReviewHandler) ListProviderReviews(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "id")
	req := paginationFromQuery(r)

	reviews, err := h.service.ListProviderReviews(r.Context(), providerID, req)
	if err != nil {
		handleServiceError(w, h.log, err, "list provider reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}
