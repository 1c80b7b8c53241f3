package relayservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	relaydomain "github.com/Black-And-White-Club/lensboard/app/modules/relay/domain"
	scoredomain "github.com/Black-And-White-Club/lensboard/app/modules/score/domain"
	"github.com/Black-And-White-Club/lensboard/app/observability"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config holds relay settings.
type Config struct {
	Pattern       string
	SubmitTimeout time.Duration
}

// Relay implements the Service interface.
type Relay struct {
	submitter Submitter
	matcher   relaydomain.Matcher
	timeout   time.Duration
	logger    *slog.Logger
	metrics   observability.OperationMetrics
	tracer    trace.Tracer
}

// NewRelay creates a new Relay.
func NewRelay(
	submitter Submitter,
	cfg Config,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoopMetrics()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("relay")
	}
	return &Relay{
		submitter: submitter,
		matcher:   relaydomain.NewMatcher(cfg.Pattern),
		timeout:   cfg.SubmitTimeout,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
	}
}

// Matcher returns the relay's submission matcher.
func (r *Relay) Matcher() relaydomain.Matcher { return r.matcher }

// Handle relays ev when it is a score submission.
func (r *Relay) Handle(ctx context.Context, ev relaydomain.LensEvent) (out relaydomain.Outcome) {
	const operation = "Relay"

	ctx, span := r.tracer.Start(ctx, "Relay.Handle")
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("panic in relay: %v", rec)
			r.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			span.RecordError(err)
			r.metrics.RecordOperationFailure(ctx, operation, "Relay")
			out = relaydomain.Outcome{Status: relaydomain.StatusFailure, Err: err}
		}
	}()

	if !ev.IsScoreSubmission(r.matcher) {
		return relaydomain.Outcome{PassThrough: true}
	}

	source := ev.Source()
	span.SetAttributes(attribute.String("relay.source", source))
	r.metrics.RecordOperationAttempt(ctx, operation, "Relay")
	start := time.Now()
	defer func() {
		r.metrics.RecordOperationDuration(ctx, operation, "Relay", time.Since(start))
	}()

	raw, err := ev.ScoreValue()
	if err != nil {
		return r.fail(ctx, span, fmt.Errorf("%w: %w", ErrInvalidScore, err), "Could not extract score")
	}
	score, err := scoredomain.CoerceScore(raw)
	if err != nil {
		return r.fail(ctx, span, fmt.Errorf("%w: %w", ErrInvalidScore, err), "Refusing to relay invalid score")
	}

	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	resp, err := r.submitter.Submit(callCtx, SubmitRequest{
		Score:      score,
		Credential: ev.Credential(),
		Source:     source,
	})
	if err != nil {
		return r.fail(ctx, span, fmt.Errorf("%w: %w", ErrSubmitFailed, err), "Score submission failed")
	}

	out = relaydomain.Outcome{
		Status:     relaydomain.StatusFailure,
		HTTPStatus: resp.StatusCode,
		Body:       resp.Body,
		Result:     resp.Result,
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 && resp.Result != nil && resp.Result.OK {
		out.Status = relaydomain.StatusSuccess
		r.metrics.RecordOperationSuccess(ctx, operation, "Relay")
		r.logger.InfoContext(ctx, "Score relayed",
			attr.ExtractCorrelationID(ctx),
			attr.String("source", source),
			attr.Int("score", score),
		)
		return out
	}

	out.Err = fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	span.SetStatus(codes.Error, "rejected")
	r.metrics.RecordOperationFailure(ctx, operation, "Relay")
	r.logger.WarnContext(ctx, "Score rejected by endpoint",
		attr.ExtractCorrelationID(ctx),
		attr.String("source", source),
		attr.Int("status", resp.StatusCode),
	)
	return out
}

func (r *Relay) fail(ctx context.Context, span trace.Span, err error, msg string) relaydomain.Outcome {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	r.metrics.RecordOperationFailure(ctx, "Relay", "Relay")
	r.logger.WarnContext(ctx, msg,
		attr.ExtractCorrelationID(ctx),
		attr.Error(err),
	)
	return relaydomain.Outcome{Status: relaydomain.StatusFailure, Err: err}
}
