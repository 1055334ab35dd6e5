package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

func TestSettingsModel_Save(t *testing.T) {
	store := newStore(t)
	m := NewSettingsModel(store)

	m.fields.Language = ledger.LanguageArabic
	m.fields.Theme = ledger.ThemeDark

	msg := m.saveCmd(*m.fields)()
	require.NoError(t, msg.(savedMsg).err)

	assert.Equal(t, ledger.LanguageArabic, store.Settings().Language)
	assert.Equal(t, ledger.DirectionRTL, store.Display().Direction)
	assert.True(t, store.Display().Dark)

	next, _ := m.Update(msg)
	sm := next.(SettingsModel)
	assert.Equal(t, ledger.LanguageArabic, sm.fields.Language, "form is rebuilt from the saved settings")
	assert.NotEmpty(t, sm.status)
}
