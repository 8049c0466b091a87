package db

import (
	"database/sql"

	"github.com/rs/zerolog/log"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github/chapool/lp-custody/internal/config"

	// Import postgres driver for database/sql package
	_ "github.com/lib/pq"
)

func newMigrate() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Applies all pending migrations to the audit database",
		Run: func(_ *cobra.Command, _ []string) {
			applyMigrations()
		},
	}
}

func applyMigrations() {
	cfg := config.DefaultServiceConfigFromEnv()

	db, err := sql.Open("postgres", cfg.Database.ConnectionString)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}

	migrations := &migrate.FileMigrationSource{Dir: cfg.Database.MigrationDir}

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	log.Info().Int("applied", n).Str("dir", cfg.Database.MigrationDir).Msg("Migrations applied")
}
