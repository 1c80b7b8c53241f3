package arsessionservice

import (
	"context"
	"fmt"
	"log/slog"

	arsessiondomain "github.com/Black-And-White-Club/lensboard/app/modules/arsession/domain"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Host opens live sessions against the camera SDK.
type Host struct {
	sdk        arsessiondomain.SDK
	media      arsessiondomain.MediaDevices
	transport  TransportFactory
	dispatcher Dispatcher
	cfg        arsessiondomain.LensConfig
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewHost creates a Host. transport and dispatcher may be nil.
func NewHost(
	sdk arsessiondomain.SDK,
	media arsessiondomain.MediaDevices,
	transport TransportFactory,
	dispatcher Dispatcher,
	cfg arsessiondomain.LensConfig,
	logger *slog.Logger,
	tracer trace.Tracer,
) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("arsession")
	}
	return &Host{
		sdk:        sdk,
		media:      media,
		transport:  transport,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger,
		tracer:     tracer,
	}
}

// Open bootstraps the SDK, starts the camera and applies the lens. On any
// failure everything acquired so far is released in reverse order.
func (h *Host) Open(ctx context.Context, token string) (_ *LiveSession, err error) {
	ctx, span := h.tracer.Start(ctx, "Host.Open", trace.WithAttributes(
		attribute.String("lens.id", h.cfg.LensID),
	))
	defer span.End()

	if err := h.cfg.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid lens config")
		return nil, err
	}

	live := newLiveSession(h.logger)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "open failed")
			if relErr := live.Close(); relErr != nil {
				h.logger.WarnContext(ctx, "Release after failed open reported errors",
					attr.ExtractCorrelationID(ctx),
					attr.Error(relErr),
				)
			}
		}
	}()

	opts := arsessiondomain.BootstrapOptions{APIToken: h.cfg.APIToken}
	if h.transport != nil {
		opts.Transport = h.transport(token)
	}
	kernel, err := h.sdk.Bootstrap(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap sdk: %w", err)
	}
	live.onRelease("sdk", kernel.Destroy)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	session, err := kernel.CreateSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	live.onRelease("session", func() error {
		var pauseErr error
		if live.isPlaying() {
			pauseErr = session.Pause()
		}
		if err := session.Destroy(); err != nil {
			return err
		}
		return pauseErr
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stream, err := h.media.GetUserMedia(ctx, arsessiondomain.Constraints{Video: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", arsessiondomain.ErrCameraUnavailable, err)
	}
	live.stream = stream
	live.onRelease("tracks", func() error {
		for _, track := range stream.Tracks() {
			track.Stop()
		}
		return nil
	})

	if err := session.SetSource(ctx, stream); err != nil {
		return nil, fmt.Errorf("failed to set source: %w", err)
	}
	if err := session.Play(ctx); err != nil {
		return nil, fmt.Errorf("failed to play session: %w", err)
	}
	live.setPlaying()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lens, err := kernel.LoadLens(ctx, h.cfg.LensID, h.cfg.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lens: %w", err)
	}
	if err := session.ApplyLens(ctx, lens); err != nil {
		return nil, fmt.Errorf("failed to apply lens: %w", err)
	}
	live.lens = lens

	if ch, ok := session.(arsessiondomain.MessageChannel); ok && h.dispatcher != nil {
		live.startPump(ctx, ch, h.dispatcher, token)
	}

	h.logger.InfoContext(ctx, "AR session live",
		attr.ExtractCorrelationID(ctx),
		attr.String("lens_id", lens.ID),
	)
	return live, nil
}
