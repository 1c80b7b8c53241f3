package scorehandlers

import (
	"log/slog"

	scoreservice "github.com/Black-And-White-Club/lensboard/app/modules/score/application"
	"go.opentelemetry.io/otel/trace"
)

// ScoreHandlers implements the Handlers interface.
type ScoreHandlers struct {
	service         scoreservice.Service
	identity        IdentityResolver
	requireIdentity bool
	logger          *slog.Logger
	tracer          trace.Tracer
}

// NewScoreHandlers creates a new ScoreHandlers. With requireIdentity set,
// requests without an Authorization header are rejected.
func NewScoreHandlers(
	service scoreservice.Service,
	identity IdentityResolver,
	requireIdentity bool,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &ScoreHandlers{
		service:         service,
		identity:        identity,
		requireIdentity: requireIdentity,
		logger:          logger,
		tracer:          tracer,
	}
}
