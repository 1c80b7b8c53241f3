package scoremigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the score module's schema migrations.
var Migrations = migrate.NewMigrations()
