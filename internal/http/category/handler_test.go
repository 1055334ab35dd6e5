package category_test

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

	"github.com/MrJamesThe3rd/pocketbook/internal/http/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger/slot"
)

func setup(t *testing.T) (*ledger.Store, http.Handler) {
	t.Helper()

	store, err := ledger.Open(context.Background(), slot.NewMemory())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/categories", category.NewHandler(store).Routes)

	return store, r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestList_Defaults(t *testing.T) {
	_, h := setup(t)

	rec := do(h, http.MethodGet, "/categories/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []ledger.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, ledger.DefaultCategories(), got)
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "Valid", body: `{"name":"Pets","icon":"🐶","color":"#AABBCC"}`, wantCode: http.StatusCreated},
		{name: "ShortColor", body: `{"name":"Pets","color":"#abc"}`, wantCode: http.StatusCreated},
		{name: "BadColor", body: `{"name":"Pets","color":"blue"}`, wantCode: http.StatusBadRequest},
		{name: "NoName", body: `{"icon":"🐶"}`, wantCode: http.StatusBadRequest},
		{name: "DuplicateName", body: `{"name":" food & dining "}`, wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, h := setup(t)

			rec := do(h, http.MethodPost, "/categories/", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	store, h := setup(t)
	ctx := context.Background()

	_, err := store.AddExpense(ctx, ledger.ExpenseDraft{Amount: decimal.NewFromInt(3), Category: "Other"})
	require.NoError(t, err)

	rec := do(h, http.MethodPatch, "/categories/7", `{"name":"Misc"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got ledger.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Misc", got.Name)
	assert.Equal(t, "Other", store.Expenses()[0].Category)

	rec = do(h, http.MethodPatch, "/categories/nope", `{"name":"Misc"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodDelete, "/categories/7", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, store.Categories(), 6)
	assert.Len(t, store.Expenses(), 1)

	rec = do(h, http.MethodGet, "/categories/7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdate_Name(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "Empty", body: `{"name":""}`, wantCode: http.StatusBadRequest},
		{name: "TakenByOther", body: `{"name":"food & dining"}`, wantCode: http.StatusConflict},
		{name: "OwnName", body: `{"name":"OTHER"}`, wantCode: http.StatusOK},
		{name: "IconOnly", body: `{"icon":"📦"}`, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, h := setup(t)

			rec := do(h, http.MethodPatch, "/categories/7", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantCode != http.StatusOK {
				c, err := store.Category("7")
				require.NoError(t, err)
				assert.Equal(t, "Other", c.Name)
			}
		})
	}
}
