package leaderboardhandlers

import (
	"log/slog"

	leaderboardservice "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/application"
	"go.opentelemetry.io/otel/trace"
)

// LeaderboardHandlers implements the Handlers interface.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewLeaderboardHandlers creates a new LeaderboardHandlers.
func NewLeaderboardHandlers(
	service leaderboardservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &LeaderboardHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}
