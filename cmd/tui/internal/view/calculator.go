package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocketbook/internal/calculator"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/locale"
)

var calculatorOps = map[string]calculator.Op{
	"+": calculator.OpAdd,
	"-": calculator.OpSubtract,
	"*": calculator.OpMultiply,
	"x": calculator.OpMultiply,
	"/": calculator.OpDivide,
	"%": calculator.OpPercent,
}

// CalculatorModel keeps its calculator behind a pointer, so the display and
// history survive leaving and re-entering the screen.
type CalculatorModel struct {
	CommonModel
	calc *calculator.Calculator
	err  error
}

func NewCalculatorModel(store *ledger.Store) CalculatorModel {
	return CalculatorModel{CommonModel: CommonModel{Store: store}, calc: calculator.New()}
}

func (m CalculatorModel) Title() string { return m.t(locale.LabelCalculator) }

func (m CalculatorModel) ShortHelp() string {
	return "0-9 . + - * / % | Enter/=: equals | Backspace | c: clear | h: clear history | Esc: back"
}

func (m CalculatorModel) Init() tea.Cmd {
	return nil
}

func (m CalculatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.err = nil

	key := keyMsg.String()

	switch {
	case key == "esc":
		return m, Back
	case key == "enter" || key == "=":
		m.err = m.calc.Equals()
	case key == "backspace":
		m.calc.Backspace()
	case key == "c":
		m.calc.Clear()
	case key == "h":
		m.calc.ClearHistory()
	case len(key) == 1 && (key[0] >= '0' && key[0] <= '9' || key[0] == '.'):
		m.calc.Input(rune(key[0]))
	default:
		if op, ok := calculatorOps[key]; ok {
			m.err = m.calc.Apply(op)
		}
	}

	return m, nil
}

func (m CalculatorModel) View() string {
	pending := ""
	if prev, op, ok := m.calc.Pending(); ok {
		pending = fmt.Sprintf("%s %s", prev, op)
	}

	display := panelStyle.Width(32).Align(lipgloss.Right).Render(
		faintStyle.Render(pending) + "\n" + lipgloss.NewStyle().Bold(true).Render(m.calc.Display()),
	)

	history := m.calc.History()
	if len(history) == 0 {
		history = []string{"-"}
	}

	parts := []string{display}

	if m.err != nil {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	parts = append(parts, "", headerStyle.Render(m.t(locale.LabelHistory)), faintStyle.Render(strings.Join(history, "\n")))

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
