package ledger_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger/slot"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func openMemory(t *testing.T) (*ledger.Store, *slot.Memory) {
	t.Helper()

	slots := slot.NewMemory()

	s, err := ledger.Open(context.Background(), slots)
	require.NoError(t, err)

	return s, slots
}

func spentOf(t *testing.T, s *ledger.Store, id string) decimal.Decimal {
	t.Helper()

	b, err := s.Budget(id)
	require.NoError(t, err)

	return b.Spent
}

func TestOpen_Defaults(t *testing.T) {
	s, _ := openMemory(t)

	assert.Empty(t, s.Expenses())
	assert.Empty(t, s.Budgets())
	assert.Equal(t, ledger.DefaultCategories(), s.Categories())
	assert.Equal(t, ledger.DefaultSettings(), s.Settings())
	assert.Equal(t, ledger.Display{Dark: false, Direction: ledger.DirectionLTR}, s.Display())
}

func TestStore_BudgetLinkage(t *testing.T) {
	ctx := context.Background()
	s, _ := openMemory(t)

	b, err := s.AddBudget(ctx, ledger.BudgetDraft{Name: "Groceries", Amount: dec("100"), Period: ledger.PeriodMonthly})
	require.NoError(t, err)
	assertDecimal(t, "0", b.Spent)

	_, err = s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec("30"), Category: "Food & Dining", BudgetID: b.ID})
	require.NoError(t, err)
	assertDecimal(t, "30", spentOf(t, s, b.ID))

	big, err := s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec("80"), Category: "Food & Dining", BudgetID: b.ID})
	require.NoError(t, err)
	assertDecimal(t, "110", spentOf(t, s, b.ID))

	got, err := s.Budget(b.ID)
	require.NoError(t, err)

	p := ledger.Progress(got)
	assert.InDelta(t, 110.0, p.Percentage, 1e-9)
	assert.True(t, p.Over)
	assert.InDelta(t, 100.0, p.Bounded, 1e-9)

	require.NoError(t, s.DeleteExpense(ctx, big.ID))
	assertDecimal(t, "30", spentOf(t, s, b.ID))
}

func TestStore_SpentMatchesLinkedExpenses(t *testing.T) {
	ctx := context.Background()
	s, _ := openMemory(t)

	b, err := s.AddBudget(ctx, ledger.BudgetDraft{Name: "Fun", Amount: dec("50")})
	require.NoError(t, err)

	amounts := []string{"12.50", "7.25", "3", "40.10"}
	ids := make([]string, 0, len(amounts))

	for _, a := range amounts {
		e, err := s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec(a), BudgetID: b.ID})
		require.NoError(t, err)

		ids = append(ids, e.ID)
	}

	// An unlinked expense never contributes.
	_, err = s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec("99")})
	require.NoError(t, err)

	check := func() {
		sum := decimal.Zero
		for _, e := range s.Expenses() {
			if e.BudgetID == b.ID {
				sum = sum.Add(e.Amount)
			}
		}

		assertDecimal(t, sum.String(), spentOf(t, s, b.ID))
	}

	check()

	for _, id := range ids {
		require.NoError(t, s.DeleteExpense(ctx, id))
		check()
	}
}

func TestStore_SpentFloor(t *testing.T) {
	ctx := context.Background()
	s, _ := openMemory(t)

	b, err := s.AddBudget(ctx, ledger.BudgetDraft{Name: "Rent", Amount: dec("1000")})
	require.NoError(t, err)

	first, err := s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec("500"), BudgetID: b.ID})
	require.NoError(t, err)

	second, err := s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec("300"), BudgetID: b.ID})
	require.NoError(t, err)

	require.NoError(t, s.UpdateBudget(ctx, b.ID, ledger.BudgetPatch{Spent: ptr(dec("100"))}))

	require.NoError(t, s.DeleteExpense(ctx, first.ID))
	assertDecimal(t, "0", spentOf(t, s, b.ID))

	require.NoError(t, s.DeleteExpense(ctx, second.ID))
	assertDecimal(t, "0", spentOf(t, s, b.ID))
}

func TestStore_DanglingBudgetID(t *testing.T) {
	ctx := context.Background()
	s, _ := openMemory(t)

	b, err := s.AddBudget(ctx, ledger.BudgetDraft{Name: "Trip", Amount: dec("200")})
	require.NoError(t, err)

	e, err := s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec("20"), BudgetID: "missing"})
	require.NoError(t, err)
	assert.Equal(t, "missing", e.BudgetID)
	assertDecimal(t, "0", spentOf(t, s, b.ID))

	linked, err := s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec("20"), BudgetID: b.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteBudget(ctx, b.ID))

	got, err := s.Expense(linked.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.BudgetID)

	require.NoError(t, s.DeleteExpense(ctx, linked.ID))
	assert.Len(t, s.Expenses(), 1)
}

func TestStore_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := openMemory(t)

	seen := make(map[string]struct{})
	for _, c := range s.Categories() {
		seen[c.ID] = struct{}{}
	}

	for range 200 {
		e, err := s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec("1")})
		require.NoError(t, err)

		_, dup := seen[e.ID]
		require.False(t, dup, "duplicate id %s", e.ID)

		seen[e.ID] = struct{}{}
	}

	assert.Len(t, s.Expenses(), 200)
}

func TestStore_UnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	slots := ledger.NewMockSlots(ctrl)

	slots.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, false, nil).Times(len(ledger.Collections))
	// No Save expectation: any write fails the test.

	s, err := ledger.Open(ctx, slots)
	require.NoError(t, err)

	before := s.Snapshot()

	require.NoError(t, s.UpdateExpense(ctx, "nope", ledger.ExpensePatch{Amount: ptr(dec("5"))}))
	require.NoError(t, s.DeleteExpense(ctx, "nope"))
	require.NoError(t, s.UpdateBudget(ctx, "nope", ledger.BudgetPatch{Name: ptr("x")}))
	require.NoError(t, s.DeleteBudget(ctx, "nope"))
	require.NoError(t, s.ToggleBudgetVisibility(ctx, "nope"))
	require.NoError(t, s.UpdateCategory(ctx, "nope", ledger.CategoryPatch{Name: ptr("x")}))
	require.NoError(t, s.DeleteCategory(ctx, "nope"))

	assert.Equal(t, before, s.Snapshot())
}

func TestStore_UnknownIDLeavesSlotsUntouched(t *testing.T) {
	ctx := context.Background()
	s, slots := openMemory(t)

	b, err := s.AddBudget(ctx, ledger.BudgetDraft{Name: "Misc", Amount: dec("10")})
	require.NoError(t, err)

	_, err = s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec("3"), BudgetID: b.ID})
	require.NoError(t, err)

	read := func() map[ledger.Collection]string {
		out := make(map[ledger.Collection]string)

		for _, col := range []ledger.Collection{ledger.CollectionExpenses, ledger.CollectionBudgets} {
			data, _, err := slots.Load(ctx, string(col))
			require.NoError(t, err)

			out[col] = string(data)
		}

		return out
	}

	before := read()

	require.NoError(t, s.UpdateExpense(ctx, "nope", ledger.ExpensePatch{Amount: ptr(dec("5"))}))
	require.NoError(t, s.DeleteExpense(ctx, "nope"))
	require.NoError(t, s.UpdateBudget(ctx, "nope", ledger.BudgetPatch{Spent: ptr(dec("5"))}))
	require.NoError(t, s.DeleteBudget(ctx, "nope"))

	assert.Equal(t, before, read())
}

func TestStore_UpdateExpenseReconciles(t *testing.T) {
	ctx := context.Background()

	type testCase struct {
		name       string
		patch      func(a, b string) ledger.ExpensePatch
		wantSpentA string
		wantSpentB string
	}

	tests := []testCase{
		{
			name:       "AmountRaised",
			patch:      func(string, string) ledger.ExpensePatch { return ledger.ExpensePatch{Amount: ptr(dec("45"))} },
			wantSpentA: "45",
			wantSpentB: "0",
		},
		{
			name:       "MovedToOtherBudget",
			patch:      func(_, b string) ledger.ExpensePatch { return ledger.ExpensePatch{BudgetID: ptr(b)} },
			wantSpentA: "0",
			wantSpentB: "20",
		},
		{
			name:       "Unlinked",
			patch:      func(string, string) ledger.ExpensePatch { return ledger.ExpensePatch{BudgetID: ptr("")} },
			wantSpentA: "0",
			wantSpentB: "0",
		},
		{
			name:       "DescriptionOnly",
			patch:      func(string, string) ledger.ExpensePatch { return ledger.ExpensePatch{Description: ptr("lunch")} },
			wantSpentA: "20",
			wantSpentB: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := openMemory(t)

			a, err := s.AddBudget(ctx, ledger.BudgetDraft{Name: "A", Amount: dec("100")})
			require.NoError(t, err)

			b, err := s.AddBudget(ctx, ledger.BudgetDraft{Name: "B", Amount: dec("100")})
			require.NoError(t, err)

			e, err := s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec("20"), BudgetID: a.ID})
			require.NoError(t, err)

			require.NoError(t, s.UpdateExpense(ctx, e.ID, tt.patch(a.ID, b.ID)))

			assertDecimal(t, tt.wantSpentA, spentOf(t, s, a.ID))
			assertDecimal(t, tt.wantSpentB, spentOf(t, s, b.ID))
		})
	}
}

func TestStore_AddBudgetIgnoresSpent(t *testing.T) {
	s, _ := openMemory(t)

	b, err := s.AddBudget(context.Background(), ledger.BudgetDraft{Name: "X", Amount: dec("10"), Hidden: true})
	require.NoError(t, err)

	assertDecimal(t, "0", b.Spent)
	assert.True(t, b.Hidden)
	assert.NotEmpty(t, b.ID)
}

func TestStore_ToggleBudgetVisibility(t *testing.T) {
	ctx := context.Background()
	s, _ := openMemory(t)

	b, err := s.AddBudget(ctx, ledger.BudgetDraft{Name: "X", Amount: dec("10")})
	require.NoError(t, err)

	require.NoError(t, s.ToggleBudgetVisibility(ctx, b.ID))

	got, err := s.Budget(b.ID)
	require.NoError(t, err)
	assert.True(t, got.Hidden)

	require.NoError(t, s.ToggleBudgetVisibility(ctx, b.ID))

	got, err = s.Budget(b.ID)
	require.NoError(t, err)
	assert.False(t, got.Hidden)
}

func TestStore_DeleteCategoryKeepsExpenses(t *testing.T) {
	ctx := context.Background()
	s, _ := openMemory(t)

	_, err := s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec("8"), Category: "Shopping"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(ctx, "3"))

	_, err = s.Category("3")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	require.Len(t, s.Expenses(), 1)
	assert.Equal(t, "Shopping", s.Expenses()[0].Category)
}

func TestStore_CategoryCRUD(t *testing.T) {
	ctx := context.Background()
	s, _ := openMemory(t)

	c, err := s.AddCategory(ctx, ledger.CategoryDraft{Name: "Pets", Icon: "🐶", Color: "#123456"})
	require.NoError(t, err)

	require.NoError(t, s.UpdateCategory(ctx, c.ID, ledger.CategoryPatch{Color: ptr("#654321")}))

	got, err := s.Category(c.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.Category{ID: c.ID, Name: "Pets", Icon: "🐶", Color: "#654321"}, got)
}

func TestStore_SnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	s, _ := openMemory(t)

	_, err := s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec("1"), Description: "coffee"})
	require.NoError(t, err)

	list := s.Expenses()
	list[0].Description = "changed"

	assert.Equal(t, "coffee", s.Expenses()[0].Description)
}

func TestStore_UpdateSettings(t *testing.T) {
	ctx := context.Background()
	s, _ := openMemory(t)

	var changes []ledger.Change

	s.OnCommit(func(c ledger.Change) { changes = append(changes, c) })

	require.NoError(t, s.UpdateSettings(ctx, ledger.SettingsPatch{
		Language: ptr(ledger.LanguageArabic),
		Theme:    ptr(ledger.ThemeDark),
	}))

	want := ledger.Display{Dark: true, Direction: ledger.DirectionRTL}
	assert.Equal(t, want, s.Display())

	settings := s.Settings()
	assert.Equal(t, ledger.CurrencyUSD, settings.Currency, "unset fields keep their value")
	assert.True(t, settings.Notifications)

	require.Len(t, changes, 1)
	assert.True(t, changes[0].Touches(ledger.CollectionSettings))
	assert.False(t, changes[0].Touches(ledger.CollectionExpenses))
	assert.Equal(t, want, changes[0].Display)
}

func TestStore_OnCommitCollections(t *testing.T) {
	ctx := context.Background()
	s, _ := openMemory(t)

	var got [][]ledger.Collection

	s.OnCommit(func(c ledger.Change) { got = append(got, c.Collections) })

	b, err := s.AddBudget(ctx, ledger.BudgetDraft{Name: "B", Amount: dec("10")})
	require.NoError(t, err)

	_, err = s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec("1")})
	require.NoError(t, err)

	_, err = s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec("1"), BudgetID: b.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteBudget(ctx, "nope"))

	assert.Equal(t, [][]ledger.Collection{
		{ledger.CollectionBudgets},
		{ledger.CollectionExpenses},
		{ledger.CollectionExpenses, ledger.CollectionBudgets},
	}, got)
}

func TestStore_SaveError(t *testing.T) {
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	slots := ledger.NewMockSlots(ctrl)

	slots.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, false, nil).Times(len(ledger.Collections))
	slots.EXPECT().Save(gomock.Any(), "expenses", gomock.Any()).Return(errors.New("disk full"))

	s, err := ledger.Open(ctx, slots)
	require.NoError(t, err)

	fired := false
	s.OnCommit(func(ledger.Change) { fired = true })

	_, err = s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec("1")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving expenses slot")
	assert.False(t, fired, "hooks only run after a successful write")
}

func TestOpen_LoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	slots := ledger.NewMockSlots(ctrl)

	slots.EXPECT().Load(gomock.Any(), "expenses").Return(nil, false, errors.New("connection refused"))

	_, err := ledger.Open(context.Background(), slots)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading expenses slot")
}

func TestOpen_MalformedSlot(t *testing.T) {
	ctx := context.Background()
	slots := slot.NewMemory()

	require.NoError(t, slots.Save(ctx, "expenses", []byte(`{not json`)))
	require.NoError(t, slots.Save(ctx, "categories", []byte(`"oops"`)))
	require.NoError(t, slots.Save(ctx, "settings", []byte(`[1,2]`)))
	require.NoError(t, slots.Save(ctx, "budgets", []byte(`[{"id":"b1","name":"Kept","amount":"5","spent":"1","period":"weekly","startDate":"2024-01-01T00:00:00Z"}]`)))

	s, err := ledger.Open(ctx, slots)
	require.NoError(t, err)

	assert.Empty(t, s.Expenses())
	assert.Equal(t, ledger.DefaultCategories(), s.Categories())
	assert.Equal(t, ledger.DefaultSettings(), s.Settings())

	require.Len(t, s.Budgets(), 1)
	assert.Equal(t, "Kept", s.Budgets()[0].Name)
	assertDecimal(t, "1", s.Budgets()[0].Spent)
}

func TestOpen_PartialSettings(t *testing.T) {
	ctx := context.Background()
	slots := slot.NewMemory()

	require.NoError(t, slots.Save(ctx, "settings", []byte(`{"theme":"dark"}`)))

	s, err := ledger.Open(ctx, slots)
	require.NoError(t, err)

	want := ledger.DefaultSettings()
	want.Theme = ledger.ThemeDark

	assert.Equal(t, want, s.Settings())
	assert.True(t, s.Display().Dark)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, slots := openMemory(t)
	now := time.Date(2024, time.April, 20, 12, 0, 0, 0, time.UTC)

	b, err := s.AddBudget(ctx, ledger.BudgetDraft{
		Name:      "Food",
		Amount:    dec("250.00"),
		Category:  "Food & Dining",
		Period:    ledger.PeriodMonthly,
		StartDate: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	drafts := []ledger.ExpenseDraft{
		{Amount: dec("10.10"), Category: "Food & Dining", Description: "lunch", Date: ledger.NewDate(2024, time.March, 1), BudgetID: b.ID},
		{Amount: dec("4.90"), Category: "Transportation", Description: "bus", Date: ledger.NewDate(2024, time.April, 2), Notes: "monthly pass"},
		{Amount: dec("20"), Category: "Gone", Description: "orphan", Date: ledger.NewDate(2024, time.April, 3)},
	}

	for _, d := range drafts {
		_, err := s.AddExpense(ctx, d)
		require.NoError(t, err)
	}

	_, err = s.AddCategory(ctx, ledger.CategoryDraft{Name: "Gifts", Icon: "🎁", Color: "#AA00AA"})
	require.NoError(t, err)

	require.NoError(t, s.UpdateSettings(ctx, ledger.SettingsPatch{Currency: ptr(ledger.CurrencyEUR)}))

	reopened, err := ledger.Open(ctx, slots)
	require.NoError(t, err)

	assertSnapshotsEqual(t, s.Snapshot(), reopened.Snapshot())

	before := ledger.Summarize(s.Expenses(), s.Budgets(), now)
	after := ledger.Summarize(reopened.Expenses(), reopened.Budgets(), now)
	assertDecimal(t, before.Total.String(), after.Total)
	assertDecimal(t, before.ThisMonth.String(), after.ThisMonth)
	assertDecimal(t, before.Remaining.String(), after.Remaining)
	assert.Equal(t, before.CategoryCount, after.CategoryCount)

	beforeTotals := ledger.CategoryTotals(s.Categories(), s.Expenses())
	afterTotals := ledger.CategoryTotals(reopened.Categories(), reopened.Expenses())
	require.Len(t, afterTotals, len(beforeTotals))

	for i := range beforeTotals {
		assert.Equal(t, beforeTotals[i].Category, afterTotals[i].Category)
		assertDecimal(t, beforeTotals[i].Total.String(), afterTotals[i].Total)
	}
}

// assertSnapshotsEqual compares snapshots through their JSON form, which is
// what the slots hold.
func assertSnapshotsEqual(t *testing.T, want, got ledger.Snapshot) {
	t.Helper()

	w, err := json.Marshal(want)
	require.NoError(t, err)

	g, err := json.Marshal(got)
	require.NoError(t, err)

	assert.JSONEq(t, string(w), string(g))
}

func TestStore_Replace(t *testing.T) {
	ctx := context.Background()
	s, slots := openMemory(t)

	_, err := s.AddExpense(ctx, ledger.ExpenseDraft{Amount: dec("1")})
	require.NoError(t, err)

	snap := ledger.Snapshot{
		Expenses: []ledger.Expense{{ID: "e1", Amount: dec("7"), Category: "Other", Date: ledger.NewDate(2024, time.May, 5)}},
		Budgets:  []ledger.Budget{{ID: "b1", Name: "Misc", Amount: dec("10"), Spent: dec("7"), Period: ledger.PeriodWeekly}},
		Settings: ledger.Settings{Language: ledger.LanguageArabic, Currency: ledger.CurrencySAR, DateFormat: ledger.DateFormatISO, Theme: ledger.ThemeLight},
	}

	require.NoError(t, s.Replace(ctx, snap))

	require.Len(t, s.Expenses(), 1)
	assert.Equal(t, "e1", s.Expenses()[0].ID)
	assert.Empty(t, s.Categories())
	assert.Equal(t, ledger.DirectionRTL, s.Display().Direction)

	reopened, err := ledger.Open(ctx, slots)
	require.NoError(t, err)
	assertSnapshotsEqual(t, s.Snapshot(), reopened.Snapshot())
}
