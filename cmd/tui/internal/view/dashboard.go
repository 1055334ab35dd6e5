package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/locale"
)

const recentCount = 5

type DashboardModel struct {
	CommonModel
	now func() time.Time
}

func NewDashboardModel(store *ledger.Store) DashboardModel {
	return DashboardModel{CommonModel: CommonModel{Store: store}, now: time.Now}
}

func (m DashboardModel) Title() string     { return m.t(locale.LabelDashboard) }
func (m DashboardModel) ShortHelp() string { return "Esc: back" }

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	return m, nil
}

func (m DashboardModel) View() string {
	expenses := m.Store.Expenses()
	budgets := m.Store.Budgets()
	s := ledger.Summarize(expenses, budgets, m.now())

	remaining := m.amount(s.Remaining)
	if pct, ok := s.RemainingPercentage(); ok {
		remaining += " (" + locale.Percent(pct) + ")"
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		m.card(locale.LabelTotalExpenses, m.amount(s.Total)),
		m.card(locale.LabelMonthlyExpenses, m.amount(s.ThisMonth)),
		m.card(locale.LabelBudgetRemaining, remaining),
		m.card(locale.LabelActiveCategories, fmt.Sprint(s.CategoryCount)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		cards,
		"",
		headerStyle.Render(m.t(locale.LabelRecentExpenses)),
		m.recent(expenses),
		"",
		headerStyle.Render(m.t(locale.LabelBudgets)),
		m.budgets(ledger.VisibleBudgets(budgets, false)),
	)
}

func (m DashboardModel) card(label, value string) string {
	return panelStyle.Width(24).Render(faintStyle.Render(m.t(label)) + "\n" + lipgloss.NewStyle().Bold(true).Render(value))
}

func (m DashboardModel) recent(expenses []ledger.Expense) string {
	recent := ledger.RecentExpenses(expenses, recentCount)
	if len(recent) == 0 {
		return faintStyle.Render(m.t(locale.LabelNoExpenses))
	}

	var sb strings.Builder
	for _, e := range recent {
		fmt.Fprintf(&sb, "%-12s %12s  %-18s %s\n",
			m.date(e.Date), m.amount(e.Amount), truncate(e.Category, 18), truncate(e.Description, 40))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (m DashboardModel) budgets(budgets []ledger.Budget) string {
	if len(budgets) == 0 {
		return faintStyle.Render("-")
	}

	lines := make([]string, 0, len(budgets))
	for _, b := range budgets {
		lines = append(lines, budgetLine(m.CommonModel, b))
	}

	return strings.Join(lines, "\n")
}

// budgetLine renders a budget with its progress bar. Bars turn red past 100%.
func budgetLine(c CommonModel, b ledger.Budget) string {
	p := ledger.Progress(b)

	color := lipgloss.Color("46")
	if p.Over {
		color = lipgloss.Color("196")
	}

	line := fmt.Sprintf("%-20s %s %s / %s  %s",
		truncate(b.Name, 20),
		Bar(p.Bounded/100, 20, color),
		c.amount(b.Spent),
		c.amount(b.Amount),
		locale.Percent(p.Percentage),
	)

	if p.Over {
		line += "  " + errorStyle.Render(c.t(locale.LabelOverBudget))
	}

	return line
}
