package leaderboardhandlers

import (
	"github.com/Black-And-White-Club/lensboard/app/eventbus"
	scoredomain "github.com/Black-And-White-Club/lensboard/app/modules/score/domain"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// HandleScoreSubmitted drops the cached leaderboard after a new score lands.
// Undecodable payloads still invalidate; the cache only needs the signal.
func (h *LeaderboardHandlers) HandleScoreSubmitted(msg *message.Message) error {
	ctx := attr.WithCorrelationID(msg.Context(), middleware.MessageCorrelationID(msg))
	ctx, span := h.tracer.Start(ctx, "LeaderboardHandlers.HandleScoreSubmitted")
	defer span.End()

	h.service.Invalidate()

	payload, err := eventbus.DecodeMessage[scoredomain.ScoreSubmittedPayloadV1](msg)
	if err != nil {
		h.logger.WarnContext(ctx, "Undecodable score event",
			attr.ExtractCorrelationID(ctx),
			attr.String("message_id", msg.UUID),
			attr.Error(err),
		)
		return nil
	}

	h.logger.DebugContext(ctx, "Leaderboard cache invalidated",
		attr.ExtractCorrelationID(ctx),
		attr.String("player_id", payload.PlayerID),
		attr.Int("score", payload.Score),
	)
	return nil
}
