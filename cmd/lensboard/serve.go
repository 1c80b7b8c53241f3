package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/lensboard/app"
	"github.com/Black-And-White-Club/lensboard/app/observability"
	"github.com/Black-And-White-Club/lensboard/config"
	"github.com/urfave/cli/v2"
)

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server, leaderboard subscriber and relay",
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			obs := observability.New(cfg.Observability)
			application := app.New(cfg, obs)
			defer application.Close()

			if err := application.Initialize(ctx); err != nil {
				return err
			}
			return application.Run(ctx)
		},
	}
}
