package main

import (
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Black-And-White-Club/lensboard/app/modules/relay"
	"github.com/Black-And-White-Club/lensboard/app/observability"
	"github.com/Black-And-White-Club/lensboard/config"
	"github.com/urfave/cli/v2"
)

func newRelayCommand() *cli.Command {
	return &cli.Command{
		Name:  "relay",
		Usage: "bridge lens messages from NATS to the submission endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "nats-url", Usage: "overrides relay.nats_url"},
			&cli.StringFlag{Name: "submit-url", Usage: "overrides relay.submit_url"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if v := c.String("nats-url"); v != "" {
				cfg.Relay.NATSURL = v
			}
			if v := c.String("submit-url"); v != "" {
				cfg.Relay.SubmitURL = v
			}
			if cfg.Relay.NATSURL == "" {
				return errors.New("relay requires a NATS URL")
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			obs := observability.New(cfg.Observability)
			module, err := relay.NewModule(ctx, cfg, obs)
			if err != nil {
				return err
			}

			var wg sync.WaitGroup
			wg.Add(1)
			module.Run(ctx, &wg)
			wg.Wait()
			return module.Close()
		},
	}
}
