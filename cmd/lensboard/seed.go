package main

import (
	"fmt"

	scoreservice "github.com/Black-And-White-Club/lensboard/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/lensboard/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/lensboard/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/lensboard/app/observability"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
	"github.com/Black-And-White-Club/lensboard/config"
	"github.com/Black-And-White-Club/lensboard/internal/db/bundb"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func newSeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "insert fake players and scores",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "count", Value: 25, Usage: "number of scores to insert"},
			&cli.IntFlag{Name: "max-score", Value: 1000, Usage: "highest generated score"},
			&cli.Uint64Flag{Name: "seed", Usage: "random seed for reproducible data (0 = random)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Postgres.DSN == "" {
				return config.ErrMissingDSN
			}

			obs := observability.New(cfg.Observability)
			db, err := bundb.Open(c.Context, cfg.Postgres.DSN, obs.Logger)
			if err != nil {
				return err
			}
			defer db.Close()

			service := scoreservice.NewScoreService(
				scoredb.NewRepository(db),
				obs.Logger,
				observability.NewNoopMetrics(),
				obs.Tracer,
				db,
				nil,
				scoreservice.Config{
					AnonymousName:  cfg.Submission.AnonymousName,
					AnonymousEmail: cfg.Submission.AnonymousEmail,
				},
			)

			faker := gofakeit.New(c.Uint64("seed"))
			for i := 0; i < c.Int("count"); i++ {
				player := &scoredomain.Player{
					ID:    uuid.NewString(),
					Name:  faker.Name(),
					Email: faker.Email(),
				}
				_, err := service.SubmitScore(c.Context, scoreservice.SubmitScoreRequest{
					Score:  faker.IntRange(0, c.Int("max-score")),
					Player: player,
					Source: scoredomain.SourceSeed,
				})
				if err != nil {
					return fmt.Errorf("failed to seed score %d: %w", i+1, err)
				}
			}

			obs.Logger.Info("Seeded scores", attr.Int("count", c.Int("count")))
			return nil
		},
	}
}
