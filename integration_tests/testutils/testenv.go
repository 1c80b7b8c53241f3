package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	scoremigrations "github.com/Black-And-White-Club/lensboard/app/modules/score/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/lensboard/integration_tests/containers"
	"github.com/Black-And-White-Club/lensboard/internal/db/bundb"
)

// TestEnvironment holds a migrated Postgres database for integration tests.
type TestEnvironment struct {
	Ctx         context.Context
	PgContainer *postgres.PostgresContainer
	DSN         string
	DB          *bun.DB
}

// NewTestEnvironment starts Postgres and applies every migration.
func NewTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}

	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	db := bundb.BunDB(sqlDB)

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestEnvironment{Ctx: ctx, PgContainer: pgContainer, DSN: dsn, DB: db}, nil
}

func runMigrations(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, scoremigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}
	_, err := migrator.Migrate(ctx)
	return err
}

// ResetScores empties the scores table between tests.
func (env *TestEnvironment) ResetScores(t *testing.T) {
	t.Helper()
	if _, err := env.DB.ExecContext(env.Ctx, "TRUNCATE TABLE scores RESTART IDENTITY"); err != nil {
		t.Fatalf("failed to truncate scores: %v", err)
	}
}

// Cleanup closes the database and terminates the container.
func (env *TestEnvironment) Cleanup() {
	if env.DB != nil {
		env.DB.Close()
	}
	if env.PgContainer != nil {
		env.PgContainer.Terminate(env.Ctx)
	}
}
