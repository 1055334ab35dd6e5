package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/locale"
)

const analyticsBarWidth = 30

var monthOptions = []int{3, 6, 12}

type AnalyticsModel struct {
	CommonModel
	monthsIdx int
}

func NewAnalyticsModel(store *ledger.Store) AnalyticsModel {
	return AnalyticsModel{CommonModel: CommonModel{Store: store}, monthsIdx: 1}
}

func (m AnalyticsModel) Title() string     { return m.t(locale.LabelAnalytics) }
func (m AnalyticsModel) ShortHelp() string { return "Esc: back | m: months shown" }

func (m AnalyticsModel) Init() tea.Cmd {
	return nil
}

func (m AnalyticsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "m":
			m.monthsIdx = (m.monthsIdx + 1) % len(monthOptions)
		}
	}

	return m, nil
}

func (m AnalyticsModel) View() string {
	expenses := m.Store.Expenses()
	totals := ledger.CategoryTotals(m.Store.Categories(), expenses)

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(m.t(locale.LabelByCategory)),
		m.categoryChart(ledger.TopCategories(ledger.Distribution(totals))),
		"",
		headerStyle.Render(fmt.Sprintf("%s (%d)", m.t(locale.LabelMonthlyExpenses), monthOptions[m.monthsIdx])),
		m.monthlyChart(ledger.MonthlyTotals(expenses, timeNow(), monthOptions[m.monthsIdx])),
	))
}

func (m AnalyticsModel) categoryChart(dist []ledger.CategoryTotal) string {
	if len(dist) == 0 {
		return faintStyle.Render(m.t(locale.LabelNoExpenses))
	}

	sum := decimal.Zero
	for _, t := range dist {
		sum = sum.Add(t.Total)
	}

	var sb strings.Builder
	for _, t := range dist {
		share := t.Total.Div(sum).InexactFloat64()

		color := lipgloss.Color(t.Category.Color)
		if !hexColorRegex.MatchString(t.Category.Color) {
			color = lipgloss.Color("205")
		}

		fmt.Fprintf(&sb, "%-22s %s %12s  %s\n",
			truncate(strings.TrimSpace(t.Category.Icon+" "+t.Category.Name), 22),
			Bar(share, analyticsBarWidth, color),
			m.amount(t.Total),
			locale.Percent(share*100),
		)
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (m AnalyticsModel) monthlyChart(months []ledger.MonthTotal) string {
	peak := decimal.Zero
	for _, mt := range months {
		peak = decimal.Max(peak, mt.Total)
	}

	lang := m.settings().Language

	var sb strings.Builder
	for _, mt := range months {
		fraction := 0.0
		if peak.IsPositive() {
			fraction = mt.Total.Div(peak).InexactFloat64()
		}

		label := locale.MonthLabel(time.Date(mt.Year, mt.Month, 1, 0, 0, 0, 0, time.UTC), lang)

		fmt.Fprintf(&sb, "%-8s %4d %s %12s\n",
			label, mt.Year, Bar(fraction, analyticsBarWidth, lipgloss.Color("63")), m.amount(mt.Total))
	}

	return strings.TrimRight(sb.String(), "\n")
}
