package relaychannel

import (
	"context"
	"log/slog"

	relayservice "github.com/Black-And-White-Club/lensboard/app/modules/relay/application"
	relaydomain "github.com/Black-And-White-Club/lensboard/app/modules/relay/domain"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
)

// Dispatcher routes message-channel events: score submissions go to the
// relay, log messages are logged, everything else is ignored.
type Dispatcher struct {
	relay   relayservice.Service
	matcher relaydomain.Matcher
	logger  *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(relay relayservice.Service, matcher relaydomain.Matcher, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{relay: relay, matcher: matcher, logger: logger}
}

// Dispatch handles one event. The reply is only meaningful when relayed is true.
func (d *Dispatcher) Dispatch(ctx context.Context, ev relaydomain.MessageEvent) (reply relaydomain.Reply, relayed bool) {
	switch {
	case ev.Type == relaydomain.MessageTypeLog:
		d.logger.InfoContext(ctx, "Lens log",
			attr.ExtractCorrelationID(ctx),
			attr.String("message", ev.Message),
		)
		return relaydomain.Reply{}, false
	case ev.IsScoreSubmission(d.matcher):
		return d.relay.Handle(ctx, ev).Reply(), true
	default:
		d.logger.DebugContext(ctx, "Ignoring lens message",
			attr.ExtractCorrelationID(ctx),
			attr.String("type", ev.Type),
		)
		return relaydomain.Reply{}, false
	}
}
