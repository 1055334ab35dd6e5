package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/locale"
)

type budgetsState int

const (
	budgetsStateBrowse budgetsState = iota
	budgetsStateForm
	budgetsStateDelete
)

var periodLabels = map[ledger.Period]string{
	ledger.PeriodWeekly:    locale.LabelWeekly,
	ledger.PeriodMonthly:   locale.LabelMonthly,
	ledger.PeriodQuarterly: locale.LabelQuarterly,
	ledger.PeriodYearly:    locale.LabelYearly,
}

type budgetFields struct {
	id        string
	name      string
	amount    string
	category  string
	period    ledger.Period
	confirmed bool
}

type BudgetsModel struct {
	CommonModel

	state      budgetsState
	budgets    []ledger.Budget
	cursor     int
	showHidden bool
	form       *huh.Form
	fields     *budgetFields
	status     string
}

func NewBudgetsModel(store *ledger.Store) BudgetsModel {
	m := BudgetsModel{CommonModel: CommonModel{Store: store}}
	m.reload()

	return m
}

func (m BudgetsModel) Title() string { return m.t(locale.LabelBudgets) }

func (m BudgetsModel) ShortHelp() string {
	if m.state != budgetsStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | d: delete | h: hide/unhide | s: show hidden"
}

func (m BudgetsModel) Init() tea.Cmd {
	return nil
}

func (m BudgetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.closeForm()
		m.reload()

		return m, nil

	case CommittedMsg:
		m.reload()
		return m, nil
	}

	if m.state == budgetsStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m BudgetsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.budgets)-1 {
			m.cursor++
		}
	case "a":
		return m.openForm(ledger.Budget{Period: ledger.PeriodMonthly})
	case "e":
		if b, ok := m.selected(); ok {
			return m.openForm(b)
		}
	case "d":
		if b, ok := m.selected(); ok {
			return m.openDelete(b)
		}
	case "h":
		if b, ok := m.selected(); ok {
			return m, m.toggleCmd(b.ID)
		}
	case "s":
		m.showHidden = !m.showHidden
		m.reload()
	}

	return m, nil
}

func (m BudgetsModel) selected() (ledger.Budget, bool) {
	if m.cursor < 0 || m.cursor >= len(m.budgets) {
		return ledger.Budget{}, false
	}

	return m.budgets[m.cursor], true
}

func (m BudgetsModel) openForm(b ledger.Budget) (tea.Model, tea.Cmd) {
	m.fields = &budgetFields{
		id:       b.ID,
		name:     b.Name,
		category: b.Category,
		period:   b.Period,
	}

	if b.ID != "" {
		m.fields.amount = b.Amount.String()
	}

	categories := []huh.Option[string]{huh.NewOption("-", "")}
	for _, c := range m.Store.Categories() {
		categories = append(categories, huh.NewOption(c.Name, c.Name))
	}

	periods := make([]huh.Option[ledger.Period], 0, len(periodLabels))
	for _, p := range []ledger.Period{ledger.PeriodWeekly, ledger.PeriodMonthly, ledger.PeriodQuarterly, ledger.PeriodYearly} {
		periods = append(periods, huh.NewOption(m.t(periodLabels[p]), p))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(m.t(locale.LabelName)).
				Value(&m.fields.name).
				Validate(validateRequired("Name")),
			huh.NewInput().
				Title(m.t(locale.LabelAmount)).
				Placeholder("0.00").
				Value(&m.fields.amount).
				Validate(validateAmount),
			huh.NewSelect[string]().
				Title(m.t(locale.LabelCategory)).
				Options(categories...).
				Value(&m.fields.category),
			huh.NewSelect[ledger.Period]().
				Title(m.t(locale.LabelPeriod)).
				Options(periods...).
				Value(&m.fields.period),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = budgetsStateForm

	return m, m.form.Init()
}

func (m BudgetsModel) openDelete(b ledger.Budget) (tea.Model, tea.Cmd) {
	m.fields = &budgetFields{id: b.ID}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete budget %q?", b.Name)).
				Description("Linked expenses are kept.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.fields.confirmed),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = budgetsStateDelete

	return m, m.form.Init()
}

func (m *BudgetsModel) closeForm() {
	m.state = budgetsStateBrowse
	m.form = nil
	m.fields = nil
}

func (m BudgetsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	case huh.StateCompleted:
		if m.state == budgetsStateDelete {
			if !m.fields.confirmed {
				m.closeForm()
				return m, nil
			}

			return m, m.deleteCmd(m.fields.id)
		}

		return m, m.saveCmd(*m.fields)
	}

	return m, cmd
}

func (m BudgetsModel) View() string {
	filter := m.t(locale.LabelShowHidden)
	if m.showHidden {
		filter = m.t(locale.LabelHideHidden)
	}

	lines := []string{fmt.Sprintf("[s] %s", activeStyle(filter)), ""}

	if len(m.budgets) == 0 {
		lines = append(lines, faintStyle.Render("-"))
	}

	for i, b := range m.budgets {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := cursor + budgetLine(m.CommonModel, b)

		details := []string{m.t(periodLabels[b.Period])}
		if b.Category != "" {
			details = append(details, b.Category)
		}

		if b.Hidden {
			details = append(details, "hidden")
		}

		remaining := b.Amount.Sub(b.Spent)
		details = append(details, fmt.Sprintf("%s: %s", m.t(locale.LabelRemaining), m.amount(remaining)))

		lines = append(lines, line, "    "+faintStyle.Render(strings.Join(details, " · ")))
	}

	content := strings.Join(lines, "\n")

	if m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", panelStyle.Width(50).Render(m.form.View()))
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *BudgetsModel) reload() {
	m.budgets = ledger.VisibleBudgets(m.Store.Budgets(), m.showHidden)
	if m.cursor >= len(m.budgets) {
		m.cursor = max(len(m.budgets)-1, 0)
	}
}

// Messages

func (m BudgetsModel) saveCmd(f budgetFields) tea.Cmd {
	store := m.Store

	return func() tea.Msg {
		amount, err := parseAmount(f.amount)
		if err != nil {
			return savedMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		name := strings.TrimSpace(f.name)

		if f.id == "" {
			_, err = store.AddBudget(ctx, ledger.BudgetDraft{
				Name:      name,
				Amount:    amount,
				Category:  f.category,
				Period:    f.period,
				StartDate: timeNow().UTC(),
			})

			return savedMsg{err: err}
		}

		err = store.UpdateBudget(ctx, f.id, ledger.BudgetPatch{
			Name:     &name,
			Amount:   &amount,
			Category: &f.category,
			Period:   &f.period,
		})

		return savedMsg{err: err}
	}
}

func (m BudgetsModel) deleteCmd(id string) tea.Cmd {
	store := m.Store

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		return savedMsg{err: store.DeleteBudget(ctx, id)}
	}
}

func (m BudgetsModel) toggleCmd(id string) tea.Cmd {
	store := m.Store

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		return savedMsg{err: store.ToggleBudgetVisibility(ctx, id)}
	}
}
