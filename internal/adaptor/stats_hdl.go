package adaptor

import (
	"net/http"

	"marketplace-booking/internal/usecase"
	"marketplace-booking/pkg/utils"

	"go.uber.org/zap"
)

type StatsHandler struct {
	service usecase.StatsService
	log     *zap.Logger
}

func NewStatsHandler(service usecase.StatsService, log *zap.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		log:     log.With(zap.String("handler", "stats")),
	}
}

// TenantOverview handles GET /api/admin/stats/overview (admin only)
func (h *StatsHandler) TenantOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.TenantOverview(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "tenant overview")
		return
	}

	utils.ResponseSuccess(w, "success", overview)
}

// ProviderDashboard handles GET /api/provider/dashboard (provider only)
func (h *StatsHandler) ProviderDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.ProviderDashboard(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "provider dashboard")
		return
	}

	utils.ResponseSuccess(w, "success", dashboard)
}
