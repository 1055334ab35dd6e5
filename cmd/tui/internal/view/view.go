package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/locale"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views. It gives them the ledger and renders
// labels, amounts and dates with the current settings.
type CommonModel struct {
	Store *ledger.Store
}

func (c CommonModel) settings() ledger.Settings {
	return c.Store.Settings()
}

func (c CommonModel) t(key string) string {
	return locale.T(c.settings().Language, key)
}

func (c CommonModel) amount(d decimal.Decimal) string {
	return locale.Amount(d, c.settings().Currency)
}

func (c CommonModel) date(d ledger.Date) string {
	return locale.Date(d.Time, c.settings().DateFormat)
}

// BackMsg returns to the main menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// CommittedMsg is delivered after every ledger commit so views can reload.
type CommittedMsg struct {
	Change ledger.Change
}

// savedMsg reports the outcome of a ledger mutation started by a view.
type savedMsg struct {
	err error
}

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	panelStyle   = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
)

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}
