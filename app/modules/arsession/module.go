package arsession

import (
	"context"
	"log/slog"
	"net/http"

	arsessionservice "github.com/Black-And-White-Club/lensboard/app/modules/arsession/application"
	arsessiondomain "github.com/Black-And-White-Club/lensboard/app/modules/arsession/domain"
	arsessionguest "github.com/Black-And-White-Club/lensboard/app/modules/arsession/infrastructure/guest"
	arsessionhandlers "github.com/Black-And-White-Club/lensboard/app/modules/arsession/infrastructure/handlers"
	relaychannel "github.com/Black-And-White-Club/lensboard/app/modules/relay/infrastructure/channel"
	"github.com/Black-And-White-Club/lensboard/app/observability"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"github.com/Black-And-White-Club/lensboard/config"
	"github.com/Black-And-White-Club/lensboard/internal/httpx"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

// RelayBinding is the part of the relay the AR host depends on.
type RelayBinding interface {
	Transport(token string) http.RoundTripper
	Dispatcher() *relaychannel.Dispatcher
}

// Module represents the AR session host.
type Module struct {
	lens   arsessiondomain.LensConfig
	relay  RelayBinding
	logger *slog.Logger
	tracer trace.Tracer
}

// NewModule creates the AR session module and registers /api/lens/config.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	relay RelayBinding,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "Initializing AR session module")

	lens := arsessiondomain.LensConfig{
		APIToken: cfg.Lens.APIToken,
		LensID:   cfg.Lens.LensID,
		GroupID:  cfg.Lens.GroupID,
	}
	if err := lens.Validate(); err != nil {
		logger.WarnContext(ctx, "Lens config incomplete, AR sessions will fail to open", attr.Error(err))
	}

	if httpRouter != nil {
		handler := arsessionhandlers.NewConfigHandler(lens, logger)
		httpRouter.Route("/api/lens", func(r chi.Router) {
			r.Use(httpx.CORSMiddleware(cfg.HTTP.AllowedOrigins))
			r.Get("/config", handler.HandleGetConfig)
		})
	}

	return &Module{
		lens:   lens,
		relay:  relay,
		logger: logger,
		tracer: obs.Tracer,
	}, nil
}

// NewHost returns a Host wired to the relay's interception transport and
// message-channel dispatcher.
func (m *Module) NewHost(sdk arsessiondomain.SDK, media arsessiondomain.MediaDevices) *arsessionservice.Host {
	var (
		transport  arsessionservice.TransportFactory
		dispatcher arsessionservice.Dispatcher
	)
	if m.relay != nil {
		transport = m.relay.Transport
		if d := m.relay.Dispatcher(); d != nil {
			dispatcher = d
		}
	}
	return arsessionservice.NewHost(sdk, media, transport, dispatcher, m.lens, m.logger, m.tracer)
}

// NewController returns a play-flow controller that signs guests in
// against serverURL.
func (m *Module) NewController(sdk arsessiondomain.SDK, media arsessiondomain.MediaDevices, serverURL string) *arsessionservice.Controller {
	return arsessionservice.NewController(
		arsessionguest.NewClient(serverURL, nil),
		m.NewHost(sdk, media),
		m.logger,
	)
}

// Close stops the AR session module.
func (m *Module) Close() error {
	m.logger.Info("AR session module stopped")
	return nil
}
