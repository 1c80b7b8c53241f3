package authhandlers

import (
	"errors"
	"net/http"

	authservice "github.com/Black-And-White-Club/lensboard/app/modules/auth/application"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"github.com/Black-And-White-Club/lensboard/internal/httpx"
)

type startSessionRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// HandleStartSession signs a guest in with a name and email and returns a bearer token.
func (h *AuthHandlers) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AuthHandlers.HandleStartSession")
	defer span.End()

	var req startSessionRequest
	if err := httpx.DecodeJSONBody(w, r, &req); err != nil {
		httpx.JSONResponse(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	session, err := h.service.StartGuestSession(ctx, req.Name, req.Email)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidGuest) {
			httpx.JSONResponse(w, http.StatusBadRequest, errorResponse{Error: "name and email are required"})
			return
		}
		h.logger.ErrorContext(ctx, "Guest sign-in failed",
			attr.ExtractCorrelationID(ctx),
			attr.Error(err),
		)
		httpx.JSONResponse(w, http.StatusInternalServerError, errorResponse{Error: "sign-in failed"})
		return
	}

	httpx.JSONResponse(w, http.StatusOK, session)
}
