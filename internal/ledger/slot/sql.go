package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/pocketbook/internal/database"
)

// SQL keeps slots as rows of the slots table (see internal/database/migrations).
type SQL struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewSQL(db *sql.DB, dialect database.Dialect) *SQL {
	return &SQL{db: db, dialect: dialect}
}

// query swaps in the ?-placeholder form of q for SQLite.
func (s *SQL) query(q string) string {
	if s.dialect != database.DialectSQLite {
		return q
	}

	return sqliteQueries[q]
}

const (
	selectSlotQuery = `SELECT value FROM slots WHERE key = $1`
	upsertSlotQuery = `
		INSERT INTO slots (key, value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
)

var sqliteQueries = map[string]string{
	selectSlotQuery: `SELECT value FROM slots WHERE key = ?`,
	upsertSlotQuery: `
		INSERT INTO slots (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`,
}

func (s *SQL) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value string

	err := s.db.QueryRowContext(ctx, s.query(selectSlotQuery), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("loading slot %s: %w", key, err)
	}

	return []byte(value), true, nil
}

func (s *SQL) Save(ctx context.Context, key string, data []byte) error {
	if _, err := s.db.ExecContext(ctx, s.query(upsertSlotQuery), key, string(data)); err != nil {
		return fmt.Errorf("saving slot %s: %w", key, err)
	}

	return nil
}
