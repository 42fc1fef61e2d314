package adaptor

import (
	"net/http"

	"marketplace-booking/internal/dto/request"
	"marketplace-booking/internal/usecase"
	"marketplace-booking/pkg/utils"

	"go.uber.org/zap"
)

type AuditHandler struct {
	service usecase.AuditService
	log     *zap.Logger
}

func NewAuditHandler(service usecase.AuditService, log *zap.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		log:     log.With(zap.String("handler", "audit")),
	}
}

// ListAuditLog handles GET /api/admin/audit-logs (admin only)
func (h *AuditHandler) ListAuditLog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.ListAuditLogRequest{
		PaginatedRequest: *paginationFromQuery(r),
		Search:           query.Get("search"),
	}
	if resourceID := query.Get("resource_id"); resourceID != "" {
		req.ResourceID = &resourceID
	}
	if actorID := query.Get("actor_id"); actorID != "" {
		req.ActorID = &actorID
	}

	entries, err := h.service.List(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list audit log")
		return
	}

	utils.ResponseSuccess(w, "success", entries)
}
