package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Open connects to Postgres with pgdriver, verifies the connection and
// returns a bun.DB using the Postgres dialect.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*bun.DB, error) {
	sqldb := pgConn(dsn)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if logger != nil {
		logger.InfoContext(ctx, "Connected to Postgres")
	}
	return BunDB(sqldb), nil
}

// OpenLazy returns a bun.DB without pinging, for commands that may run
// before the database is reachable.
func OpenLazy(dsn string) *bun.DB {
	return BunDB(pgConn(dsn))
}

// BunDB returns a new bun.DB for given sql.DB connection pool.
func BunDB(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, pgdialect.New())
}

func pgConn(dsn string) *sql.DB {
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
}
