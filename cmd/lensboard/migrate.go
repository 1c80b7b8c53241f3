package main

import (
	"fmt"
	"strings"

	scoremigrations "github.com/Black-And-White-Club/lensboard/app/modules/score/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/lensboard/config"
	"github.com/Black-And-White-Club/lensboard/internal/db/bundb"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

// withMigrator opens the database lazily and hands a migrator to fn.
func withMigrator(c *cli.Context, fn func(*migrate.Migrator) error) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Postgres.DSN == "" {
		return config.ErrMissingDSN
	}

	db := bundb.OpenLazy(cfg.Postgres.DSN)
	defer db.Close()

	return fn(newMigrator(db))
}

func newMigrator(db *bun.DB) *migrate.Migrator {
	return migrate.NewMigrator(db, scoremigrations.Migrations)
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrator) error {
						return m.Init(c.Context)
					})
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrator) error {
						if err := m.Lock(c.Context); err != nil {
							return err
						}
						defer m.Unlock(c.Context) //nolint:errcheck

						group, err := m.Migrate(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Println("No new migrations to run")
						} else {
							fmt.Printf("Migrated to %s\n", group)
						}
						return nil
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrator) error {
						if err := m.Lock(c.Context); err != nil {
							return err
						}
						defer m.Unlock(c.Context) //nolint:errcheck

						group, err := m.Rollback(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Println("No groups to roll back")
						} else {
							fmt.Printf("Rolled back %s\n", group)
						}
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrator) error {
						ms, err := m.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations: %s\n", ms)
						fmt.Printf("Applied: %s\n", ms.Applied())
						fmt.Printf("Unapplied: %s\n", ms.Unapplied())
						fmt.Printf("Last group: %s\n", ms.LastGroup())
						return nil
					})
				},
			},
			{
				Name:  "create_go",
				Usage: "create Go migration",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrator) error {
						name := strings.Join(c.Args().Slice(), "_")
						mf, err := m.CreateGoMigration(c.Context, name)
						if err != nil {
							return err
						}
						fmt.Printf("Created migration %s (%s)\n", mf.Name, mf.Path)
						return nil
					})
				},
			},
			{
				Name:  "create_sql",
				Usage: "create up and down SQL migrations",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrator) error {
						name := strings.Join(c.Args().Slice(), "_")
						files, err := m.CreateSQLMigrations(c.Context, name)
						if err != nil {
							return err
						}
						for _, mf := range files {
							fmt.Printf("Created migration %s (%s)\n", mf.Name, mf.Path)
						}
						return nil
					})
				},
			},
		},
	}
}
