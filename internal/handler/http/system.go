package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/EcoTrail/internal/service"
	"github.com/utafrali/EcoTrail/pkg/httputil"
)

// BannerMessage is returned by GET /.
const BannerMessage = "EcoTrail Gear API is running"

// SystemHandler serves the root banner and the store diagnostics report.
type SystemHandler struct {
	diagnostics *service.DiagnosticsService
	logger      *slog.Logger
}

func NewSystemHandler(diag *service.DiagnosticsService, logger *slog.Logger) *SystemHandler {
	return &SystemHandler{diagnostics: diag, logger: logger}
}

// Banner handles GET /
func (h *SystemHandler) Banner(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": BannerMessage})
}

// Diagnostics handles GET /test
func (h *SystemHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.diagnostics.Report(r.Context()))
}
