package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventBus publishes and subscribes to domain events.
type EventBus interface {
	Publish(topic string, messages ...*message.Message) error
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}

// eventBus is an in-process EventBus backed by a watermill GoChannel.
// Publish blocks until subscribers ack the message.
type eventBus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

// NewEventBus creates an in-process EventBus.
func NewEventBus(logger *slog.Logger) EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &eventBus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer: 64,
				// Publish returns only after every subscriber acked, so
				// read models are consistent once the writer responds.
				BlockPublishUntilSubscriberAck: true,
			},
			watermill.NewSlogLogger(logger),
		),
		logger: logger,
	}
}

func (eb *eventBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		eb.logger.Debug("Publishing event",
			attr.String("topic", topic),
			attr.String("message_id", msg.UUID),
			attr.String("correlation_id", middleware.MessageCorrelationID(msg)),
		)
	}
	if err := eb.pubsub.Publish(topic, messages...); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (eb *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return eb.pubsub.Subscribe(ctx, topic)
}

func (eb *eventBus) Close() error {
	return eb.pubsub.Close()
}

// NewMessage marshals payload into a watermill message, carrying the
// correlation ID from ctx when present.
func NewMessage(ctx context.Context, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	correlationID := attr.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	middleware.SetCorrelationID(correlationID, msg)
	return msg, nil
}

// DecodeMessage unmarshals a message payload into T.
func DecodeMessage[T any](msg *message.Message) (*T, error) {
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %T: %w", out, err)
	}
	return &out, nil
}
