package export_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/export"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer/generic"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger/slot"
)

var fixedNow = time.Date(2024, time.April, 20, 9, 30, 0, 0, time.UTC)

func seed(t *testing.T) (*export.Service, *ledger.Store) {
	t.Helper()

	ctx := context.Background()

	store, err := ledger.Open(ctx, slot.NewMemory())
	require.NoError(t, err)

	b, err := store.AddBudget(ctx, ledger.BudgetDraft{Name: "Groceries", Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	drafts := []ledger.ExpenseDraft{
		{Amount: decimal.RequireFromString("20"), Category: "Transportation", Description: "Train", Date: ledger.NewDate(2024, time.April, 1)},
		{Amount: decimal.RequireFromString("10.5"), Category: "Food & Dining", Description: "Market, fresh", Date: ledger.NewDate(2024, time.March, 1), BudgetID: b.ID},
		{Amount: decimal.RequireFromString("3"), Category: "Other", Description: "Tip", Date: ledger.NewDate(2024, time.February, 1), BudgetID: "gone"},
	}

	for _, d := range drafts {
		_, err := store.AddExpense(ctx, d)
		require.NoError(t, err)
	}

	svc := export.NewService(store)
	svc.SetNow(func() time.Time { return fixedNow })

	return svc, store
}

func TestService_WriteCSV(t *testing.T) {
	svc, _ := seed(t)

	var buf bytes.Buffer

	n, err := svc.WriteCSV(&buf, export.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	want := strings.Join([]string{
		"date,description,category,amount,notes,budget",
		"2024-02-01,Tip,Other,3.00,,gone",
		`2024-03-01,"Market, fresh",Food & Dining,10.50,,Groceries`,
		"2024-04-01,Train,Transportation,20.00,,",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestService_Filter(t *testing.T) {
	svc, _ := seed(t)

	tests := []struct {
		name   string
		filter export.Filter
		want   []string
	}{
		{name: "All", filter: export.Filter{}, want: []string{"Tip", "Market, fresh", "Train"}},
		{
			name:   "Range",
			filter: export.Filter{From: time.Date(2024, time.March, 1, 15, 0, 0, 0, time.UTC), To: time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)},
			want:   []string{"Market, fresh"},
		},
		{name: "Category", filter: export.Filter{Category: "Transportation"}, want: []string{"Train"}},
		{name: "Budget", filter: export.Filter{BudgetID: "gone"}, want: []string{"Tip"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range svc.Expenses(tt.filter) {
				got = append(got, e.Description)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_ExportCSVRoundTripsThroughImporter(t *testing.T) {
	svc, _ := seed(t)
	dir := t.TempDir()

	path, n, err := svc.ExportCSV(dir, export.Filter{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "expenses_20240420.csv"), path)
	assert.Equal(t, 3, n)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	drafts, err := generic.NewParser().Parse(f)
	require.NoError(t, err)
	require.Len(t, drafts, 3)
	assert.Equal(t, "Market, fresh", drafts[1].Description)
	assert.Equal(t, "Food & Dining", drafts[1].Category)
}

func TestService_BackupRestore(t *testing.T) {
	ctx := context.Background()
	svc, store := seed(t)

	require.NoError(t, store.UpdateSettings(ctx, ledger.SettingsPatch{Theme: ptr(ledger.ThemeDark)}))

	path, err := svc.Backup(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "pocketbook_backup_20240420_093000.json", filepath.Base(path))

	want := store.Snapshot()

	target, err := ledger.Open(ctx, slot.NewMemory())
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	restored, err := export.NewService(target).Restore(ctx, f)
	require.NoError(t, err)
	assert.Len(t, restored.Expenses, 3)

	got := target.Snapshot()
	require.Len(t, got.Expenses, len(want.Expenses))

	for i := range want.Expenses {
		assert.Equal(t, want.Expenses[i].ID, got.Expenses[i].ID)
		assert.True(t, want.Expenses[i].Amount.Equal(got.Expenses[i].Amount))
	}

	require.Len(t, got.Budgets, 1)
	assert.True(t, decimal.RequireFromString("10.5").Equal(got.Budgets[0].Spent))
	assert.Equal(t, want.Categories, got.Categories)
	assert.Equal(t, ledger.ThemeDark, got.Settings.Theme)
	assert.True(t, target.Display().Dark)
}

func TestService_RestoreRejects(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "NotJSON", input: "nope", wantErr: "decoding backup"},
		{name: "WrongVersion", input: `{"version":2}`, wantErr: "unsupported backup version 2"},
		{name: "DuplicateIDs", input: `{"version":1,"expenses":[{"id":"x","amount":"1","date":"2024-01-01"}],"budgets":[{"id":"x","amount":"1","spent":"0"}]}`, wantErr: `duplicate id "x"`},
		{name: "MissingID", input: `{"version":1,"categories":[{"name":"Food"}]}`, wantErr: "category without id"},
		{name: "DuplicateCategoryName", input: `{"version":1,"categories":[{"id":"1","name":"Food"},{"id":"2","name":" food "}]}`, wantErr: `duplicate category name " food "`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := ledger.Open(context.Background(), slot.NewMemory())
			require.NoError(t, err)

			_, err = export.NewService(store).Restore(context.Background(), strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			assert.Equal(t, ledger.DefaultCategories(), store.Categories(), "store untouched")
		})
	}
}

func TestService_RestoreRecomputesSpent(t *testing.T) {
	store, err := ledger.Open(context.Background(), slot.NewMemory())
	require.NoError(t, err)

	backup := `{"version":1,
		"expenses":[
			{"id":"e1","amount":"5","date":"2024-01-01","budgetId":"b1"},
			{"id":"e2","amount":"2.5","date":"2024-01-02","budgetId":"b1"},
			{"id":"e3","amount":"40","date":"2024-01-03"}
		],
		"budgets":[
			{"id":"b1","name":"Food","amount":"100","spent":"99"},
			{"id":"b2","name":"Fun","amount":"50","spent":"12"}
		]}`

	restored, err := export.NewService(store).Restore(context.Background(), strings.NewReader(backup))
	require.NoError(t, err)
	require.Len(t, restored.Budgets, 2)

	got := store.Budgets()
	require.Len(t, got, 2)
	assert.True(t, decimal.RequireFromString("7.5").Equal(got[0].Spent), got[0].Spent.String())
	assert.True(t, got[1].Spent.IsZero(), got[1].Spent.String())

	// Later changes keep building on the corrected total.
	require.NoError(t, store.DeleteExpense(context.Background(), "e1"))

	b, err := store.Budget("b1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("2.5").Equal(b.Spent), b.Spent.String())
}

func TestService_RestoreDefaultsMissingSettings(t *testing.T) {
	store, err := ledger.Open(context.Background(), slot.NewMemory())
	require.NoError(t, err)

	_, err = export.NewService(store).Restore(context.Background(), strings.NewReader(`{"version":1,"settings":{"currency":"EGP"}}`))
	require.NoError(t, err)

	want := ledger.DefaultSettings()
	want.Currency = ledger.CurrencyEGP

	assert.Equal(t, want, store.Settings())
	assert.Empty(t, store.Expenses())
}

func TestService_GenerateSummary(t *testing.T) {
	svc, _ := seed(t)

	settings := ledger.DefaultSettings()
	settings.Currency = ledger.CurrencyEUR
	settings.DateFormat = ledger.DateFormatEU

	got := svc.GenerateSummary(svc.Expenses(export.Filter{Category: "Transportation"}), settings)

	assert.Equal(t, "* 01/04/2024 | Train | Transportation | €20.00\nTotal: €20.00 (1)\n", got)
}

func ptr[T any](v T) *T {
	return &v
}
