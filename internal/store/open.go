package store

import (
	"strings"

	"invoice-link-backend/internal/config"
	ierr "invoice-link-backend/internal/errors"
	"invoice-link-backend/internal/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewStore opens the configured database once for the life of the process.
// A missing configuration or a failed connection is logged and yields an
// unavailable store, so the service can still report its own state.
func NewStore(cfg *config.Configuration, log *logger.Logger) *Store {
	if !cfg.Database.Configured() {
		log.Warnw("database not configured, store unavailable",
			"database_url_set", cfg.Database.URL != "",
			"database_name_set", cfg.Database.Name != "")
		return Unavailable(log)
	}

	s, err := Open(cfg.Database, log)
	if err != nil {
		log.Errorw("failed to open store, continuing without database", "error", err)
		return Unavailable(log)
	}

	log.Infow("store connected", "dialect", s.db.Dialector.Name(), "table", s.table)
	return s
}

// Open connects using the dialect implied by the URL. On Postgres the
// database name selects the schema holding the documents table.
func Open(cfg config.DatabaseConfig, log *logger.Logger) (*Store, error) {
	dialector, isSQLite := dialectorFor(cfg.URL)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: log.GetGormLogger(),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to connect to database").
			Mark(ierr.ErrStoreUnavailable)
	}

	table := defaultTable
	if !isSQLite && cfg.Name != "" {
		if err := db.Exec("CREATE SCHEMA IF NOT EXISTS ?", clause.Table{Name: cfg.Name}).Error; err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Failed to create schema %s", cfg.Name).
				Mark(ierr.ErrDatabase)
		}
		table = cfg.Name + "." + defaultTable
	}

	return NewWithDB(db, table, log)
}

func dialectorFor(url string) (gorm.Dialector, bool) {
	switch {
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite://")), true
	case strings.HasPrefix(url, "file:"), url == ":memory:":
		return sqlite.Open(url), true
	default:
		return postgres.Open(url), false
	}
}
