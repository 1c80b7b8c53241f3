package scoremigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating scores table...")

		if _, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS scores (
				id BIGSERIAL PRIMARY KEY,
				player_id TEXT NOT NULL,
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				score INTEGER NOT NULL,
				source TEXT NOT NULL DEFAULT 'endpoint',
				submission_token TEXT UNIQUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_scores_ranking ON scores (score DESC, created_at ASC, id ASC);
			CREATE INDEX IF NOT EXISTS idx_scores_player_id ON scores (player_id);
		`); err != nil {
			return fmt.Errorf("failed to create scores table: %w", err)
		}

		fmt.Println("Scores table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping scores table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS scores;`); err != nil {
			return fmt.Errorf("failed to drop scores table: %w", err)
		}

		fmt.Println("Scores table dropped successfully!")
		return nil
	})
}
