package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/locale"
)

type expensesState int

const (
	expensesStateBrowse expensesState = iota
	expensesStateForm
	expensesStateDelete
)

// expenseFields is bound to the add/edit form. It lives behind a pointer so
// the form keeps writing into the same values as the model is copied.
type expenseFields struct {
	id          string
	amount      string
	category    string
	description string
	date        string
	notes       string
	budgetID    string
	confirmed   bool
}

type ExpensesModel struct {
	CommonModel

	state    expensesState
	table    table.Model
	expenses []ledger.Expense
	form     *huh.Form
	fields   *expenseFields

	// Index into the category names; -1 shows every category.
	categoryFilter int
	status         string
}

func NewExpensesModel(store *ledger.Store) ExpensesModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Category", Width: 20},
		{Title: "Description", Width: 36},
		{Title: "Budget", Width: 18},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := ExpensesModel{
		CommonModel:    CommonModel{Store: store},
		table:          t,
		categoryFilter: -1,
	}
	m.reload()

	return m
}

func (m ExpensesModel) Title() string { return m.t(locale.LabelExpenses) }

func (m ExpensesModel) ShortHelp() string {
	switch m.state {
	case expensesStateForm, expensesStateDelete:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | d: delete | c: category filter"
}

func (m ExpensesModel) Init() tea.Cmd {
	return nil
}

func (m ExpensesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil
	}

	if m.state == expensesStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m ExpensesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			return m.openForm(ledger.Expense{Date: ledger.DateOf(timeNow())})
		case "e":
			if e, ok := m.selected(); ok {
				return m.openForm(e)
			}

			return m, nil
		case "d":
			if e, ok := m.selected(); ok {
				return m.openDelete(e)
			}

			return m, nil
		case "c":
			names := m.categoryNames()

			m.categoryFilter++
			if m.categoryFilter >= len(names) {
				m.categoryFilter = -1
			}

			m.reload()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ExpensesModel) selected() (ledger.Expense, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenses) {
		return ledger.Expense{}, false
	}

	return m.expenses[idx], true
}

func (m ExpensesModel) openForm(e ledger.Expense) (tea.Model, tea.Cmd) {
	m.fields = &expenseFields{
		id:          e.ID,
		category:    e.Category,
		description: e.Description,
		date:        e.Date.String(),
		notes:       e.Notes,
		budgetID:    e.BudgetID,
	}

	if e.ID != "" {
		m.fields.amount = e.Amount.String()
	}

	categories := make([]huh.Option[string], 0)
	for _, c := range m.Store.Categories() {
		categories = append(categories, huh.NewOption(strings.TrimSpace(c.Icon+" "+c.Name), c.Name))
	}

	// Keep a category that was deleted after the expense was recorded selectable.
	if e.Category != "" && !slices.ContainsFunc(m.Store.Categories(), func(c ledger.Category) bool { return c.Name == e.Category }) {
		categories = append(categories, huh.NewOption(e.Category, e.Category))
	}

	budgets := []huh.Option[string]{huh.NewOption(m.t(locale.LabelNoBudget), "")}
	for _, b := range m.Store.Budgets() {
		if b.Hidden && b.ID != e.BudgetID {
			continue
		}

		budgets = append(budgets, huh.NewOption(b.Name, b.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(m.t(locale.LabelAmount)).
				Placeholder("0.00").
				Value(&m.fields.amount).
				Validate(validateAmount),
			huh.NewSelect[string]().
				Title(m.t(locale.LabelCategory)).
				Options(categories...).
				Value(&m.fields.category),
			huh.NewInput().
				Title(m.t(locale.LabelDescription)).
				Value(&m.fields.description).
				Validate(validateRequired("Description")),
			huh.NewInput().
				Title(m.t(locale.LabelDate)).
				Placeholder("YYYY-MM-DD").
				Value(&m.fields.date).
				Validate(validateDate),
			huh.NewText().
				Title(m.t(locale.LabelNotes)).
				Lines(2).
				Value(&m.fields.notes),
			huh.NewSelect[string]().
				Title(m.t(locale.LabelBudget)).
				Options(budgets...).
				Value(&m.fields.budgetID),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = expensesStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ExpensesModel) openDelete(e ledger.Expense) (tea.Model, tea.Cmd) {
	m.fields = &expenseFields{id: e.ID}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q (%s)?", e.Description, m.amount(e.Amount))).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.fields.confirmed),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = expensesStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m *ExpensesModel) closeForm() {
	m.state = expensesStateBrowse
	m.form = nil
	m.fields = nil
	m.table.Focus()
}

func (m ExpensesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		if m.state == expensesStateDelete {
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

func (m ExpensesModel) View() string {
	filter := "All"
	if names := m.categoryNames(); m.categoryFilter >= 0 && m.categoryFilter < len(names) {
		filter = names[m.categoryFilter]
	}

	header := fmt.Sprintf("Filter: [c] %s: %s | %d %s",
		m.t(locale.LabelCategory), activeStyle(filter), len(m.expenses), strings.ToLower(m.t(locale.LabelExpenses)))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != expensesStateBrowse && m.form != nil {
		title := "Add Expense"
		switch {
		case m.state == expensesStateDelete:
			title = "Delete Expense"
		case m.fields != nil && m.fields.id != "":
			title = "Edit Expense"
		}

		panel := panelStyle.Width(54).Render(title + "\n\n" + m.form.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ExpensesModel) categoryNames() []string {
	cats := m.Store.Categories()

	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}

	return names
}

func (m *ExpensesModel) reload() {
	category := ""
	if names := m.categoryNames(); m.categoryFilter >= 0 && m.categoryFilter < len(names) {
		category = names[m.categoryFilter]
	}

	budgetNames := make(map[string]string)
	for _, b := range m.Store.Budgets() {
		budgetNames[b.ID] = b.Name
	}

	m.expenses = make([]ledger.Expense, 0, len(m.expenses))
	for _, e := range ledger.SortByDateDesc(m.Store.Expenses()) {
		if category == "" || e.Category == category {
			m.expenses = append(m.expenses, e)
		}
	}

	rows := make([]table.Row, 0, len(m.expenses))
	for _, e := range m.expenses {
		budget := budgetNames[e.BudgetID]
		if budget == "" && e.BudgetID != "" {
			budget = "?"
		}

		rows = append(rows, table.Row{
			m.date(e.Date),
			m.amount(e.Amount),
			e.Category,
			e.Description,
			budget,
		})
	}

	m.table.SetRows(rows)
}

// Messages

func (m ExpensesModel) saveCmd(f expenseFields) tea.Cmd {
	store := m.Store

	return func() tea.Msg {
		amount, err := parseAmount(f.amount)
		if err != nil {
			return savedMsg{err: err}
		}

		date, err := ledger.ParseDate(f.date)
		if err != nil {
			return savedMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		description := strings.TrimSpace(f.description)
		notes := strings.TrimSpace(f.notes)

		if f.id == "" {
			_, err = store.AddExpense(ctx, ledger.ExpenseDraft{
				Amount:      amount,
				Category:    f.category,
				Description: description,
				Date:        date,
				Notes:       notes,
				BudgetID:    f.budgetID,
			})

			return savedMsg{err: err}
		}

		err = store.UpdateExpense(ctx, f.id, ledger.ExpensePatch{
			Amount:      &amount,
			Category:    &f.category,
			Description: &description,
			Date:        &date,
			Notes:       &notes,
			BudgetID:    &f.budgetID,
		})

		return savedMsg{err: err}
	}
}

func (m ExpensesModel) deleteCmd(id string) tea.Cmd {
	store := m.Store

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		return savedMsg{err: store.DeleteExpense(ctx, id)}
	}
}
