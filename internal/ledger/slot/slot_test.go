package slot_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger/slot"
)

func newSQLite(t *testing.T) *slot.SQL {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pocketbook.db")

	require.NoError(t, database.Migrate(database.DialectSQLite, path))

	db, err := database.NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return slot.NewSQL(db, database.DialectSQLite)
}

func TestBackends(t *testing.T) {
	backends := map[string]func(t *testing.T) ledger.Slots{
		"memory": func(*testing.T) ledger.Slots { return slot.NewMemory() },
		"file": func(t *testing.T) ledger.Slots {
			f, err := slot.NewFile(filepath.Join(t.TempDir(), "data"))
			require.NoError(t, err)

			return f
		},
		"sqlite": func(t *testing.T) ledger.Slots { return newSQLite(t) },
	}

	for name, newSlots := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newSlots(t)

			_, ok, err := s.Load(ctx, "expenses")
			require.NoError(t, err)
			assert.False(t, ok, "unwritten slot should be missing")

			require.NoError(t, s.Save(ctx, "expenses", []byte(`[{"id":"1"}]`)))
			require.NoError(t, s.Save(ctx, "expenses", []byte(`[]`)))

			data, ok, err := s.Load(ctx, "expenses")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[]`, string(data))

			_, ok, err = s.Load(ctx, "budgets")
			require.NoError(t, err)
			assert.False(t, ok, "slots should be independent")
		})
	}
}

func TestMemory_CopiesData(t *testing.T) {
	ctx := context.Background()
	m := slot.NewMemory()

	data := []byte(`{"theme":"dark"}`)
	require.NoError(t, m.Save(ctx, "settings", data))

	data[0] = 'X'

	got, _, err := m.Load(ctx, "settings")
	require.NoError(t, err)
	assert.Equal(t, `{"theme":"dark"}`, string(got))
}

func TestFile_LeavesNoTempFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	f, err := slot.NewFile(dir)
	require.NoError(t, err)

	require.NoError(t, f.Save(ctx, "budgets", []byte(`[]`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "budgets.json", entries[0].Name())
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	s := newSQLite(t)

	store, err := ledger.Open(ctx, s)
	require.NoError(t, err)

	_, err = store.AddCategory(ctx, ledger.CategoryDraft{Name: "Travel", Icon: "✈️", Color: "#000000"})
	require.NoError(t, err)

	reopened, err := ledger.Open(ctx, s)
	require.NoError(t, err)

	assert.Equal(t, store.Categories(), reopened.Categories())
	assert.Len(t, reopened.Categories(), len(ledger.DefaultCategories())+1)
}
