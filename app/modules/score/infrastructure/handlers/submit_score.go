package scorehandlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	authservice "github.com/Black-And-White-Club/lensboard/app/modules/auth/application"
	scoreservice "github.com/Black-And-White-Club/lensboard/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/lensboard/app/modules/score/domain"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"github.com/Black-And-White-Club/lensboard/internal/httpx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// IdempotencyKeyHeader carries an optional submission token.
	IdempotencyKeyHeader = "Idempotency-Key"
	// SourceHeader names the relay mode that forwarded the score.
	SourceHeader = "X-Score-Source"
)

type submitScoreBody struct {
	Score           any    `json:"score"`
	PlayerID        string `json:"player_id"`
	SubmissionToken string `json:"submission_token"`
}

// SubmitScoreResponse is the body of every /submitScore response.
type SubmitScoreResponse struct {
	OK        bool   `json:"ok"`
	Score     *int   `json:"score,omitempty"`
	PlayerID  string `json:"player_id,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Error     string `json:"error,omitempty"`
}

var errUnauthorized = errors.New("unauthorized")

// HandleSubmitScore records a score from the query string or a JSON body.
func (h *ScoreHandlers) HandleSubmitScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScoreHandlers.HandleSubmitScore")
	defer span.End()

	player, err := h.resolvePlayer(ctx, r.Header.Get("Authorization"))
	if err != nil {
		h.logger.WarnContext(ctx, "Submission rejected",
			attr.ExtractCorrelationID(ctx),
			attr.Error(err),
		)
		httpx.JSONResponse(w, http.StatusUnauthorized, SubmitScoreResponse{Error: "Unauthorized"})
		return
	}

	req, err := h.buildRequest(w, r, player)
	if err != nil {
		httpx.JSONResponse(w, http.StatusBadRequest, SubmitScoreResponse{Error: "Invalid request body"})
		return
	}

	res, err := h.service.SubmitScore(ctx, req)
	if err != nil {
		if scoredomain.IsValidationError(err) {
			httpx.JSONResponse(w, http.StatusBadRequest, SubmitScoreResponse{Error: validationMessage(err)})
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		h.logger.ErrorContext(ctx, "Score insert failed",
			attr.ExtractCorrelationID(ctx),
			attr.Error(err),
		)
		httpx.JSONResponse(w, http.StatusInternalServerError, SubmitScoreResponse{Error: "insert failed"})
		return
	}

	span.SetAttributes(
		attribute.String("player_id", res.Record.PlayerID),
		attribute.Int("score", res.Record.Score),
	)
	score := res.Record.Score
	httpx.JSONResponse(w, http.StatusOK, SubmitScoreResponse{
		OK:        true,
		Score:     &score,
		PlayerID:  res.Record.PlayerID,
		Duplicate: res.Duplicate,
	})
}

// resolvePlayer returns nil for an anonymous caller.
func (h *ScoreHandlers) resolvePlayer(ctx context.Context, header string) (*scoredomain.Player, error) {
	if strings.TrimSpace(header) == "" {
		if h.requireIdentity {
			return nil, errUnauthorized
		}
		return nil, nil
	}
	if h.identity == nil {
		return nil, errUnauthorized
	}

	identity, err := h.identity.ResolveBearer(ctx, header)
	if err != nil {
		if errors.Is(err, authservice.ErrMissingToken) && !h.requireIdentity {
			return nil, nil
		}
		return nil, err
	}
	return &scoredomain.Player{
		ID:        identity.PlayerID,
		Name:      identity.Name,
		Email:     identity.Email,
		SessionID: identity.SessionID,
		Anonymous: identity.Anonymous,
	}, nil
}

func (h *ScoreHandlers) buildRequest(w http.ResponseWriter, r *http.Request, player *scoredomain.Player) (scoreservice.SubmitScoreRequest, error) {
	req := scoreservice.SubmitScoreRequest{
		Player:          player,
		SubmissionToken: r.Header.Get(IdempotencyKeyHeader),
		Source:          sourceFor(r.Header.Get(SourceHeader)),
	}

	query := r.URL.Query()
	if query.Has("score") {
		req.Score = query.Get("score")
		req.PlayerID = query.Get("player_id")
		return req, nil
	}

	if r.Method != http.MethodPost {
		return req, nil
	}

	var body submitScoreBody
	if err := httpx.DecodeJSONBody(w, r, &body); err != nil {
		if errors.Is(err, httpx.ErrEmptyBody) {
			return req, nil
		}
		return req, err
	}
	req.Score = body.Score
	req.PlayerID = body.PlayerID
	if req.SubmissionToken == "" {
		req.SubmissionToken = body.SubmissionToken
	}
	return req, nil
}

// sourceFor accepts only the known relay sources; anything else is a direct call.
func sourceFor(header string) string {
	switch header {
	case scoredomain.SourceRelayMessage, scoredomain.SourceRelayRequest:
		return header
	default:
		return scoredomain.SourceEndpoint
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, scoredomain.ErrMissingScore):
		return "Missing score param"
	case errors.Is(err, scoredomain.ErrOutOfRange):
		return "Score out of range"
	default:
		return "Score must be a number"
	}
}
