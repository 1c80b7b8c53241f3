package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/lensboard/app/eventbus"
	"github.com/Black-And-White-Club/lensboard/app/modules/arsession"
	"github.com/Black-And-White-Club/lensboard/app/modules/auth"
	"github.com/Black-And-White-Club/lensboard/app/modules/leaderboard"
	"github.com/Black-And-White-Club/lensboard/app/modules/relay"
	"github.com/Black-And-White-Club/lensboard/app/modules/score"
	"github.com/Black-And-White-Club/lensboard/app/observability"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"github.com/Black-And-White-Club/lensboard/config"
	"github.com/Black-And-White-Club/lensboard/internal/db/bundb"
	"github.com/Black-And-White-Club/lensboard/internal/httpx"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
)

// App holds the wired application.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	Logger        *slog.Logger
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	HTTPRouter    *chi.Mux
	Modules       *Modules

	httpServer    *http.Server
	metricsServer *http.Server
	wg            sync.WaitGroup
}

// Modules groups every application module.
type Modules struct {
	AuthModule        *auth.Module
	ScoreModule       *score.Module
	LeaderboardModule *leaderboard.Module
	RelayModule       *relay.Module
	ARSessionModule   *arsession.Module
}

// New returns an App for cfg. Call Initialize before Run.
func New(cfg *config.Config, obs observability.Observability) *App {
	return &App{
		Config:        cfg,
		Observability: obs,
		Logger:        obs.Logger,
	}
}

// Initialize connects infrastructure and builds all modules.
func (app *App) Initialize(ctx context.Context) error {
	if err := app.Config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := bundb.Open(ctx, app.Config.Postgres.DSN, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.DB = db

	app.EventBus = eventbus.NewEventBus(app.Logger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, watermill.NewSlogLogger(app.Logger))
	if err != nil {
		return fmt.Errorf("failed to create message router: %w", err)
	}
	app.Router = router

	app.HTTPRouter = chi.NewRouter()
	app.HTTPRouter.Use(chimiddleware.RequestID)
	app.HTTPRouter.Use(chimiddleware.RealIP)
	app.HTTPRouter.Use(chimiddleware.Recoverer)
	app.HTTPRouter.Use(httpx.RequestLogger(app.Logger))
	app.HTTPRouter.Get("/health", app.handleHealth)

	if err := app.initializeModules(ctx); err != nil {
		return err
	}

	app.Logger.InfoContext(ctx, "Application initialized")
	return nil
}

func (app *App) initializeModules(ctx context.Context) error {
	cfg, obs := app.Config, app.Observability
	modules := &Modules{}

	authModule, err := auth.NewModule(ctx, cfg, obs, app.HTTPRouter)
	if err != nil {
		return fmt.Errorf("failed to initialize auth module: %w", err)
	}
	modules.AuthModule = authModule

	scoreModule, err := score.NewModule(ctx, cfg, obs, app.DB, app.EventBus, authModule.GetService(), app.HTTPRouter)
	if err != nil {
		return fmt.Errorf("failed to initialize score module: %w", err)
	}
	modules.ScoreModule = scoreModule

	leaderboardModule, err := leaderboard.NewModule(ctx, cfg, obs, app.DB, app.EventBus, app.Router, app.HTTPRouter)
	if err != nil {
		return fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}
	modules.LeaderboardModule = leaderboardModule

	relayModule, err := relay.NewModule(ctx, cfg, obs)
	if err != nil {
		return fmt.Errorf("failed to initialize relay module: %w", err)
	}
	modules.RelayModule = relayModule

	arModule, err := arsession.NewModule(ctx, cfg, obs, relayModule, app.HTTPRouter)
	if err != nil {
		return fmt.Errorf("failed to initialize AR session module: %w", err)
	}
	modules.ARSessionModule = arModule

	app.Modules = modules
	return nil
}

// Run serves HTTP, metrics and the message router until ctx is done.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 3)

	go func() {
		if err := app.Router.Run(ctx); err != nil {
			errCh <- fmt.Errorf("message router stopped: %w", err)
		}
	}()

	app.wg.Add(1)
	go app.Modules.RelayModule.Run(ctx, &app.wg)

	app.httpServer = &http.Server{
		Addr:         app.Config.HTTP.Address,
		Handler:      app.HTTPRouter,
		ReadTimeout:  app.Config.HTTP.ReadTimeout,
		WriteTimeout: app.Config.HTTP.WriteTimeout,
	}
	go func() {
		app.Logger.Info("HTTP server listening", attr.String("address", app.Config.HTTP.Address))
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if addr := app.Config.Observability.MetricsAddress; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(app.Observability.Registry, promhttp.HandlerOpts{}))
		app.metricsServer = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			app.Logger.Info("Metrics server listening", attr.String("address", addr))
			if err := app.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		app.Logger.Info("Shutdown signal received")
		return nil
	case err := <-errCh:
		return err
	}
}

// Close shuts servers, modules and infrastructure down in reverse order.
func (app *App) Close() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, srv := range []*http.Server{app.httpServer, app.metricsServer} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error("Server shutdown failed", attr.Error(err))
		}
	}

	if m := app.Modules; m != nil {
		if m.ARSessionModule != nil {
			app.closeModule("arsession", m.ARSessionModule.Close)
		}
		if m.RelayModule != nil {
			app.closeModule("relay", m.RelayModule.Close)
		}
		if m.LeaderboardModule != nil {
			app.closeModule("leaderboard", m.LeaderboardModule.Close)
		}
		if m.ScoreModule != nil {
			app.closeModule("score", m.ScoreModule.Close)
		}
		if m.AuthModule != nil {
			app.closeModule("auth", m.AuthModule.Close)
		}
	}
	app.wg.Wait()

	if app.Router != nil {
		if err := app.Router.Close(); err != nil {
			app.Logger.Error("Message router close failed", attr.Error(err))
		}
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			app.Logger.Error("Event bus close failed", attr.Error(err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Database close failed", attr.Error(err))
		}
	}
	app.Logger.Info("Application shut down gracefully")
}

func (app *App) closeModule(name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		app.Logger.Error("Module close failed", attr.String("module", name), attr.Error(err))
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Router   bool   `json:"router_running"`
}

func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "ok"}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if app.DB == nil || app.DB.PingContext(ctx) != nil {
		resp.Status, resp.Database = "degraded", "unreachable"
		status = http.StatusServiceUnavailable
	}
	if app.Router != nil {
		select {
		case <-app.Router.Running():
			resp.Router = true
		default:
		}
	}
	httpx.JSONResponse(w, status, resp)
}
