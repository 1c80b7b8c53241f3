package arsessionhandlers

import (
	"log/slog"
	"net/http"

	arsessiondomain "github.com/Black-And-White-Club/lensboard/app/modules/arsession/domain"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"github.com/Black-And-White-Club/lensboard/internal/httpx"
)

// ConfigHandler serves the lens configuration to the browser host.
type ConfigHandler struct {
	cfg    arsessiondomain.LensConfig
	logger *slog.Logger
}

// NewConfigHandler creates a ConfigHandler.
func NewConfigHandler(cfg arsessiondomain.LensConfig, logger *slog.Logger) *ConfigHandler {
	return &ConfigHandler{cfg: cfg, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleGetConfig returns {api_token, lens_id, lens_group_id}, or 503 when
// any of them is missing.
func (h *ConfigHandler) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	if err := h.cfg.Validate(); err != nil {
		h.logger.ErrorContext(r.Context(), "Lens config requested but incomplete",
			attr.ExtractCorrelationID(r.Context()),
			attr.Error(err),
		)
		httpx.JSONResponse(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httpx.JSONResponse(w, http.StatusOK, h.cfg)
}
