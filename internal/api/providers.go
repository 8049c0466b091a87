//nolint:ireturn
package api

import (
	"database/sql"

	"github.com/dropbox/godropbox/time2"
	"github.com/pkg/errors"

	"github/chapool/lp-custody/internal/config"
	"github/chapool/lp-custody/internal/custody/audit"
)

// NewClock returns the wall clock used for deadline checks.
func NewClock() time2.Clock {
	return time2.DefaultClock
}

// NewDB opens the audit database connection pool. Returns nil when the
// database is disabled.
func NewDB(cfg config.Server) (*sql.DB, error) {
	if !cfg.Database.Enabled {
		return nil, nil
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return db, nil
}

// NewAuditRecorder returns the Postgres recorder when a database is
// configured, the in-memory recorder otherwise.
func NewAuditRecorder(cfg config.Server, db *sql.DB) audit.Recorder {
	if cfg.Database.Enabled && db != nil {
		return audit.NewPGRecorder(db)
	}
	return audit.NewMemoryRecorder()
}
