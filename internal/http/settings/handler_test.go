package settings_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/http/settings"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger/slot"
)

func setup(t *testing.T) (*ledger.Store, http.Handler) {
	t.Helper()

	store, err := ledger.Open(context.Background(), slot.NewMemory())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/settings", settings.NewHandler(store).Routes)

	return store, r
}

func TestGet(t *testing.T) {
	_, h := setup(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"settings": {"language":"en","currency":"USD","dateFormat":"MM/DD/YYYY","notifications":true,"theme":"light"},
		"display": {"dark":false,"direction":"ltr"}
	}`, rec.Body.String())
}

func TestUpdate(t *testing.T) {
	store, h := setup(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/settings/",
		strings.NewReader(`{"language":"ar","theme":"dark","currency":"SAR"}`)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{
		"settings": {"language":"ar","currency":"SAR","dateFormat":"MM/DD/YYYY","notifications":true,"theme":"dark"},
		"display": {"dark":true,"direction":"rtl"}
	}`, rec.Body.String())

	assert.Equal(t, ledger.Display{Dark: true, Direction: ledger.DirectionRTL}, store.Display())
}

func TestUpdate_RejectsUnknownValues(t *testing.T) {
	for _, body := range []string{
		`{"language":"fr"}`,
		`{"currency":"GBP"}`,
		`{"dateFormat":"YYYY/MM/DD"}`,
		`{"theme":"sepia"}`,
	} {
		store, h := setup(t)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/settings/", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, ledger.DefaultSettings(), store.Settings())
	}
}
