package relay

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	relayservice "github.com/Black-And-White-Club/lensboard/app/modules/relay/application"
	relaychannel "github.com/Black-And-White-Club/lensboard/app/modules/relay/infrastructure/channel"
	relayintercept "github.com/Black-And-White-Club/lensboard/app/modules/relay/infrastructure/intercept"
	"github.com/Black-And-White-Club/lensboard/app/observability"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"github.com/Black-And-White-Club/lensboard/config"
	natsutil "github.com/Black-And-White-Club/lensboard/internal/nats"
	"github.com/nats-io/nats.go"
)

// Module represents the score relay.
type Module struct {
	relay      *relayservice.Relay
	dispatcher *relaychannel.Dispatcher
	adapter    *relaychannel.Adapter
	conn       *nats.Conn
	logger     *slog.Logger

	mu         sync.Mutex
	cancelFunc context.CancelFunc
}

// NewModule creates the relay. When a NATS URL is configured the message
// channel adapter is connected but not started until Run.
func NewModule(ctx context.Context, cfg *config.Config, obs observability.Observability) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "Initializing relay module")

	metrics := observability.NewNoopMetrics()
	if obs.Registry != nil {
		metrics = observability.NewOperationMetrics(obs.Registry, "relay")
	}

	relay := relayservice.NewRelay(
		relayservice.NewHTTPSubmitter(cfg.Relay.SubmitURL, nil),
		relayservice.Config{
			Pattern:       cfg.Relay.MatchPattern,
			SubmitTimeout: cfg.Relay.SubmitTimeout,
		},
		logger,
		metrics,
		obs.Tracer,
	)
	dispatcher := relaychannel.NewDispatcher(relay, relay.Matcher(), logger)

	m := &Module{
		relay:      relay,
		dispatcher: dispatcher,
		logger:     logger,
	}

	if cfg.Relay.NATSURL != "" {
		conn, err := natsutil.Connect(cfg.Relay.NATSURL, "lensboard-relay", logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect relay channel: %w", err)
		}
		m.conn = conn
		m.adapter = relaychannel.NewAdapter(conn, dispatcher, cfg.Relay.Subject, cfg.Relay.QueueGroup, logger)
	}

	return m, nil
}

// Run starts the message channel adapter and blocks until ctx is done.
// The caller adds to wg before starting Run.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}

	if m.adapter == nil {
		m.logger.InfoContext(ctx, "Relay message channel disabled")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.mu.Lock()
	m.cancelFunc = cancel
	m.mu.Unlock()

	if err := m.adapter.Start(); err != nil {
		m.logger.ErrorContext(ctx, "Failed to start relay message channel", attr.Error(err))
		return
	}
	<-ctx.Done()
}

// Transport returns a RoundTripper that relays intercepted lens score
// requests with token as the bearer credential.
func (m *Module) Transport(token string) http.RoundTripper {
	return &relayintercept.Transport{Relay: m.relay, Token: token}
}

// Dispatcher returns the message channel dispatcher.
func (m *Module) Dispatcher() *relaychannel.Dispatcher {
	return m.dispatcher
}

// GetService returns the relay service.
func (m *Module) GetService() relayservice.Service {
	return m.relay
}

// Close stops the adapter and closes the NATS connection.
func (m *Module) Close() error {
	m.mu.Lock()
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.mu.Unlock()
	var err error
	if m.adapter != nil {
		err = m.adapter.Stop()
	}
	if m.conn != nil {
		m.conn.Close()
	}
	m.logger.Info("Relay module stopped")
	return err
}
