package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/locale"
)

type SettingsModel struct {
	CommonModel

	form   *huh.Form
	fields *ledger.Settings
	status string
}

func NewSettingsModel(store *ledger.Store) SettingsModel {
	m := SettingsModel{CommonModel: CommonModel{Store: store}}
	m.buildForm()

	return m
}

func (m SettingsModel) Title() string { return m.t(locale.LabelSettings) }

func (m SettingsModel) ShortHelp() string {
	return "Navigate form | Enter: save | Esc: back"
}

func (m SettingsModel) Init() tea.Cmd {
	return m.form.Init()
}

// buildForm binds a fresh form to a copy of the current settings.
func (m *SettingsModel) buildForm() {
	s := m.settings()
	m.fields = &s

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[ledger.Language]().
				Title(m.t(locale.LabelLanguage)).
				Options(
					huh.NewOption("English", ledger.LanguageEnglish),
					huh.NewOption("العربية", ledger.LanguageArabic),
				).
				Value(&m.fields.Language),
			huh.NewSelect[ledger.Currency]().
				Title(m.t(locale.LabelCurrency)).
				Options(currencyOptions()...).
				Value(&m.fields.Currency),
			huh.NewSelect[ledger.DateFormat]().
				Title(m.t(locale.LabelDateFormat)).
				Options(
					huh.NewOption(string(ledger.DateFormatUS), ledger.DateFormatUS),
					huh.NewOption(string(ledger.DateFormatEU), ledger.DateFormatEU),
					huh.NewOption(string(ledger.DateFormatISO), ledger.DateFormatISO),
				).
				Value(&m.fields.DateFormat),
			huh.NewSelect[ledger.Theme]().
				Title(m.t(locale.LabelTheme)).
				Options(
					huh.NewOption("Light", ledger.ThemeLight),
					huh.NewOption("Dark", ledger.ThemeDark),
				).
				Value(&m.fields.Theme),
			huh.NewConfirm().
				Title(m.t(locale.LabelNotifications)).
				Value(&m.fields.Notifications),
		),
	).WithWidth(45).WithShowHelp(false)
}

func currencyOptions() []huh.Option[ledger.Currency] {
	currencies := []ledger.Currency{ledger.CurrencyUSD, ledger.CurrencyEUR, ledger.CurrencyEGP, ledger.CurrencySAR}

	opts := make([]huh.Option[ledger.Currency], 0, len(currencies))
	for _, c := range currencies {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", c, locale.Symbol(c)), c))
	}

	return opts
}

func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		m.status = m.t(locale.LabelSettings) + " ✓"
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.buildForm()

		return m, m.form.Init()

	case CommittedMsg:
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m, Back
	case huh.StateCompleted:
		return m, m.saveCmd(*m.fields)
	}

	return m, cmd
}

func (m SettingsModel) View() string {
	content := panelStyle.Width(50).Render(m.form.View())

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m SettingsModel) saveCmd(s ledger.Settings) tea.Cmd {
	store := m.Store

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		return savedMsg{err: store.UpdateSettings(ctx, ledger.SettingsPatch{
			Language:      &s.Language,
			Currency:      &s.Currency,
			DateFormat:    &s.DateFormat,
			Notifications: &s.Notifications,
			Theme:         &s.Theme,
		})}
	}
}
