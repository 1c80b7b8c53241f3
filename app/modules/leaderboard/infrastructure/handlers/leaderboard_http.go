package leaderboardhandlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	leaderboardservice "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"github.com/Black-And-White-Club/lensboard/internal/httpx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

var errBadLimit = errors.New("limit must be an integer")

func parseQuery(r *http.Request) (leaderboardservice.Query, error) {
	q := leaderboardservice.Query{Since: r.URL.Query().Get("since")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, errBadLimit
		}
		// Anything below one still means "at least one row".
		q.Limit = max(n, 1)
	}
	return q, nil
}

// HandleGetLeaderboard serves GET /api/leaderboard.
func (h *LeaderboardHandlers) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleGetLeaderboard")
	defer span.End()

	q, ok := h.query(w, r)
	if !ok {
		return
	}
	board, err := h.service.GetLeaderboard(ctx, q)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httpx.JSONResponse(w, http.StatusOK, board)
}

// HandleChart serves GET /api/leaderboard/chart.png.
func (h *LeaderboardHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleChart")
	defer span.End()

	q, ok := h.query(w, r)
	if !ok {
		return
	}
	data, err := h.service.RenderChart(ctx, q)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeBytes(ctx, w, "image/png", "", data)
}

// HandleExport serves GET /api/leaderboard/export.xlsx.
func (h *LeaderboardHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleExport")
	defer span.End()

	q, ok := h.query(w, r)
	if !ok {
		return
	}
	data, err := h.service.ExportWorkbook(ctx, q)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.writeBytes(ctx, w, xlsxContentType, `attachment; filename="leaderboard.xlsx"`, data)
}

func (h *LeaderboardHandlers) query(w http.ResponseWriter, r *http.Request) (leaderboardservice.Query, bool) {
	q, err := parseQuery(r)
	if err != nil {
		httpx.JSONResponse(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return q, false
	}
	return q, true
}

func (h *LeaderboardHandlers) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, leaderboardservice.ErrInvalidSince) {
		httpx.JSONResponse(w, http.StatusBadRequest, errorResponse{Error: "invalid since"})
		return
	}
	h.logger.ErrorContext(ctx, "Leaderboard read failed",
		attr.ExtractCorrelationID(ctx),
		attr.Error(err),
	)
	httpx.JSONResponse(w, http.StatusInternalServerError, errorResponse{Error: "leaderboard unavailable"})
}

func (h *LeaderboardHandlers) writeBytes(ctx context.Context, w http.ResponseWriter, contentType, disposition string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if disposition != "" {
		w.Header().Set("Content-Disposition", disposition)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.WarnContext(ctx, "Failed to write response body", attr.Error(err))
	}
}
