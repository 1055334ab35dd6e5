package budget_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/http/budget"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger/slot"
)

type response struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Spent    decimal.Decimal `json:"spent"`
	Period   string          `json:"period"`
	Hidden   bool            `json:"hidden"`
	Progress struct {
		Percentage *float64 `json:"percentage"`
		Bounded    *float64 `json:"bounded"`
		Over       bool     `json:"over"`
	} `json:"progress"`
}

func setup(t *testing.T) (*ledger.Store, http.Handler) {
	t.Helper()

	store, err := ledger.Open(context.Background(), slot.NewMemory())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/budgets", budget.NewHandler(store).Routes)

	return store, r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))

	return v
}

func TestCreate(t *testing.T) {
	_, h := setup(t)

	rec := do(t, h, http.MethodPost, "/budgets/", `{"name":"Groceries","amount":"200"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decode[response](t, rec)
	assert.Equal(t, "Groceries", got.Name)
	assert.Equal(t, "monthly", got.Period)
	assert.True(t, got.Spent.IsZero())
	require.NotNil(t, got.Progress.Percentage)
	assert.InDelta(t, 0, *got.Progress.Percentage, 1e-9)

	rec = do(t, h, http.MethodPost, "/budgets/", `{"name":"Groceries","amount":"200","spent":"50"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "spent is not accepted on create")

	rec = do(t, h, http.MethodPost, "/budgets/", `{"name":"Groceries","amount":"200","period":"daily"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGet_Progress(t *testing.T) {
	store, h := setup(t)
	ctx := context.Background()

	b, err := store.AddBudget(ctx, ledger.BudgetDraft{Name: "Fun", Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	_, err = store.AddExpense(ctx, ledger.ExpenseDraft{Amount: decimal.NewFromInt(110), Category: "Entertainment", BudgetID: b.ID})
	require.NoError(t, err)

	rec := do(t, h, http.MethodGet, "/budgets/"+b.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[response](t, rec)
	require.NotNil(t, got.Progress.Percentage)
	assert.InDelta(t, 110, *got.Progress.Percentage, 1e-9)
	assert.InDelta(t, 100, *got.Progress.Bounded, 1e-9)
	assert.True(t, got.Progress.Over)

	rec = do(t, h, http.MethodGet, "/budgets/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdate_ZeroAmountHasNullProgress(t *testing.T) {
	store, h := setup(t)

	b, err := store.AddBudget(context.Background(), ledger.BudgetDraft{Name: "Fun", Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	_, err = store.AddExpense(context.Background(), ledger.ExpenseDraft{
		Amount: decimal.NewFromInt(10), Category: "Other", BudgetID: b.ID,
	})
	require.NoError(t, err)

	for _, body := range []string{`{"amount":"0"}`, `{"name":""}`, `{"spent":"0"}`, `{"spent":"10","name":"Games"}`} {
		rec := do(t, h, http.MethodPatch, "/budgets/"+b.ID, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	rec := do(t, h, http.MethodPatch, "/budgets/"+b.ID, `{"name":"Games"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[response](t, rec)
	assert.Equal(t, "Games", got.Name)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Spent))

	require.NoError(t, store.UpdateBudget(context.Background(), b.ID, ledger.BudgetPatch{Amount: new(decimal.Zero)}))

	got = decode[response](t, do(t, h, http.MethodGet, "/budgets/"+b.ID, ""))
	assert.Nil(t, got.Progress.Percentage)
	assert.True(t, got.Progress.Over)
}

func TestListAndToggle(t *testing.T) {
	store, h := setup(t)
	ctx := context.Background()

	a, err := store.AddBudget(ctx, ledger.BudgetDraft{Name: "A", Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)

	_, err = store.AddBudget(ctx, ledger.BudgetDraft{Name: "B", Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/budgets/"+a.ID+"/toggle-visibility", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[response](t, rec).Hidden)

	visible := decode[[]response](t, do(t, h, http.MethodGet, "/budgets/", ""))
	require.Len(t, visible, 1)
	assert.Equal(t, "B", visible[0].Name)

	all := decode[[]response](t, do(t, h, http.MethodGet, "/budgets/?show_hidden=true", ""))
	assert.Len(t, all, 2)

	rec = do(t, h, http.MethodPost, "/budgets/missing/toggle-visibility", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/budgets/"+a.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, store.Budgets(), 1)
}
