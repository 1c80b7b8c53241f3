package relaychannel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	relaydomain "github.com/Black-And-White-Club/lensboard/app/modules/relay/domain"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"github.com/Black-And-White-Club/lensboard/internal/httpx"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// CorrelationHeader carries the correlation ID on NATS messages.
const CorrelationHeader = "Correlation-ID"

// Adapter feeds lens messages published on NATS into the Dispatcher.
type Adapter struct {
	nc         *nats.Conn
	dispatcher *Dispatcher
	subject    string
	queue      string
	logger     *slog.Logger

	mu  sync.Mutex
	sub *nats.Subscription
}

// NewAdapter creates a NATS message-channel adapter.
func NewAdapter(nc *nats.Conn, dispatcher *Dispatcher, subject, queue string, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		nc:         nc,
		dispatcher: dispatcher,
		subject:    subject,
		queue:      queue,
		logger:     logger,
	}
}

// Start subscribes to the lens subject in the adapter's queue group.
func (a *Adapter) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sub != nil {
		return nil
	}

	sub, err := a.nc.QueueSubscribe(a.subject, a.queue, a.handleMsg)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", a.subject, err)
	}
	a.sub = sub
	a.logger.Info("Relay subscribed", attr.String("subject", a.subject), attr.String("queue", a.queue))
	return nil
}

// Stop drains the subscription.
func (a *Adapter) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sub == nil {
		return nil
	}
	err := a.sub.Drain()
	a.sub = nil
	return err
}

func (a *Adapter) handleMsg(msg *nats.Msg) {
	correlationID := ""
	if msg.Header != nil {
		correlationID = msg.Header.Get(CorrelationHeader)
	}
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	ctx := attr.WithCorrelationID(context.Background(), correlationID)

	var ev relaydomain.MessageEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		a.logger.WarnContext(ctx, "Undecodable lens message",
			attr.ExtractCorrelationID(ctx),
			attr.String("subject", msg.Subject),
			attr.Error(err),
		)
		a.respond(ctx, msg, relaydomain.Reply{Status: relaydomain.StatusFailure, Error: "invalid message"})
		return
	}
	if msg.Header != nil {
		if token, ok := httpx.BearerToken(msg.Header.Get("Authorization")); ok {
			ev.Token = token
		}
	}

	reply, relayed := a.dispatcher.Dispatch(ctx, ev)
	if relayed {
		a.respond(ctx, msg, reply)
	}
}

func (a *Adapter) respond(ctx context.Context, msg *nats.Msg, reply relaydomain.Reply) {
	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(reply)
	if err == nil {
		err = msg.Respond(data)
	}
	if err != nil {
		a.logger.WarnContext(ctx, "Failed to respond to lens message",
			attr.ExtractCorrelationID(ctx),
			attr.Error(err),
		)
	}
}
