package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/EcoTrail/internal/service"
	"github.com/utafrali/EcoTrail/pkg/httputil"
)

// ImpactHandler serves the aggregated impact metrics.
type ImpactHandler struct {
	service *service.ImpactService
	logger  *slog.Logger
}

func NewImpactHandler(svc *service.ImpactService, logger *slog.Logger) *ImpactHandler {
	return &ImpactHandler{service: svc, logger: logger}
}

// GetImpact handles GET /api/impact
func (h *ImpactHandler) GetImpact(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetImpact(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}
