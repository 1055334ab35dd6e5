package view

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger/slot"
)

func newStore(t *testing.T) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(context.Background(), slot.NewMemory())
	require.NoError(t, err)

	return store
}

func typeKeys(m tea.Model, keys ...tea.KeyMsg) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(k)
	}

	return m
}

func runes(s string) []tea.KeyMsg {
	out := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		out = append(out, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	return out
}

func TestCalculatorModel(t *testing.T) {
	var m tea.Model = NewCalculatorModel(newStore(t))

	m = typeKeys(m, runes("12+3*2")...)
	m = typeKeys(m, tea.KeyMsg{Type: tea.KeyEnter})

	calc := m.(CalculatorModel).calc
	assert.Equal(t, "30", calc.Display())
	assert.Len(t, calc.History(), 2)

	m = typeKeys(m, runes("/0=")...)
	assert.Error(t, m.(CalculatorModel).err)
	assert.Equal(t, "0", calc.Display())

	m = typeKeys(m, runes("h")...)
	assert.Empty(t, calc.History())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}
