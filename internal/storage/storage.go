// Package storage opens the slot backend selected in the config.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/pocketbook/internal/config"
	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger/slot"
	"github.com/MrJamesThe3rd/pocketbook/internal/logging"
)

// Open returns the configured slots and a function releasing them.
func Open(cfg *config.Config) (ledger.Slots, func() error, error) {
	log := logging.For(logging.ComponentStorage)
	noop := func() error { return nil }

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Warn("using in-memory storage, nothing will be persisted")
		return slot.NewMemory(), noop, nil

	case config.BackendFile:
		f, err := slot.NewFile(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}

		log.Info("using file storage", "dir", cfg.Storage.DataDir)

		return f, noop, nil

	case config.BackendSQLite:
		db, err := database.NewSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}

		return openSQL(db, database.DialectSQLite, cfg.Storage.SQLitePath)

	case config.BackendPostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, nil, err
		}

		return openSQL(db, database.DialectPostgres, cfg.ConnectionString())
	}

	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

func openSQL(db *sql.DB, dialect database.Dialect, dsn string) (ledger.Slots, func() error, error) {
	if err := database.Migrate(dialect, dsn); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrating %s: %w", dialect, err)
	}

	logging.For(logging.ComponentStorage).Info("using sql storage", "dialect", dialect)

	return slot.NewSQL(db, dialect), db.Close, nil
}
