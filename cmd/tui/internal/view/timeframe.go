package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/locale"
)

// Timeframe represents a predefined or custom date range selection.
type Timeframe int

const (
	TimeframeThisWeek Timeframe = iota
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeAll
	TimeframeCustom
)

var timeframeLabels = map[Timeframe]string{
	TimeframeThisWeek:  locale.LabelThisWeek,
	TimeframeLastWeek:  locale.LabelLastWeek,
	TimeframeThisMonth: locale.LabelThisMonth,
	TimeframeLastMonth: locale.LabelLastMonth,
	TimeframeAll:       locale.LabelAllTime,
	TimeframeCustom:    locale.LabelCustomRange,
}

func (t Timeframe) Label(lang ledger.Language) string {
	key, ok := timeframeLabels[t]
	if !ok {
		return "Unknown"
	}

	return locale.T(lang, key)
}

// DateRange resolves t relative to now. Weeks start on Monday. Both ends are
// whole days; All and Custom return zero times.
func (t Timeframe) DateRange(now time.Time) (time.Time, time.Time) {
	today := ledger.DateOf(now).Time

	// Days since Monday.
	offset := (int(today.Weekday()) + 6) % 7

	switch t {
	case TimeframeThisWeek:
		return today.AddDate(0, 0, -offset), today
	case TimeframeLastWeek:
		end := today.AddDate(0, 0, -offset-1)
		return end.AddDate(0, 0, -6), end
	case TimeframeThisMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), today
	case TimeframeLastMonth:
		start := time.Date(today.Year(), today.Month()-1, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1)
	}

	return time.Time{}, time.Time{}
}

// TimeframeSelectedMsg is emitted when the user has selected a valid date range.
// Start and End are zero values when All is true.
type TimeframeSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

type timeframeState int

const (
	timeframeStateSelect timeframeState = iota
	timeframeStateCustom
)

// TimeframePicker is a reusable component for selecting a date range.
type TimeframePicker struct {
	state    timeframeState
	selected Timeframe
	minFrame Timeframe
	lang     ledger.Language
	now      func() time.Time

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

// NewTimeframePicker creates a picker starting from the given minimum timeframe.
func NewTimeframePicker(minFrame Timeframe, lang ledger.Language) TimeframePicker {
	si := textinput.New()
	si.Placeholder = "YYYY-MM-DD"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "Start Date: "

	ei := textinput.New()
	ei.Placeholder = "YYYY-MM-DD"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "End Date:   "

	return TimeframePicker{
		state:      timeframeStateSelect,
		selected:   minFrame,
		minFrame:   minFrame,
		lang:       lang,
		now:        time.Now,
		startInput: si,
		endInput:   ei,
	}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case timeframeStateSelect:
			return m.updateSelect(keyMsg)
		case timeframeStateCustom:
			if next, cmd, handled := m.updateCustom(keyMsg); handled {
				return next, cmd
			}
		}
	}

	if m.state == timeframeStateCustom {
		return m.updateInputs(msg)
	}

	return m, nil
}

func (m TimeframePicker) updateSelect(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > m.minFrame {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < TimeframeCustom {
			m.selected++
		}
	case tea.KeyEnter:
		switch m.selected {
		case TimeframeCustom:
			m.state = timeframeStateCustom
			m.focusIndex = 0
			m.startInput.Focus()

			return m, textinput.Blink
		case TimeframeAll:
			return m, func() tea.Msg {
				return TimeframeSelectedMsg{All: true}
			}
		}

		start, end := m.selected.DateRange(m.now())

		return m, func() tea.Msg {
			return TimeframeSelectedMsg{Start: start, End: end}
		}
	}

	return m, nil
}

// updateCustom handles the keys the custom range form reacts to. Other keys
// go to the focused input.
func (m TimeframePicker) updateCustom(msg tea.KeyMsg) (TimeframePicker, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.startInput.Blur()
		m.endInput.Blur()

		if m.focusIndex == 0 {
			m.startInput.Focus()
		} else {
			m.endInput.Focus()
		}

		return m, textinput.Blink, true

	case "enter":
		start, end, err := parseRange(m.startInput.Value(), m.endInput.Value())
		if err != nil {
			m.err = err
			return m, nil, true
		}

		m.err = nil

		return m, func() tea.Msg {
			return TimeframeSelectedMsg{Start: start, End: end}
		}, true

	case "esc":
		m.state = timeframeStateSelect
		m.err = nil

		return m, nil, true
	}

	return m, nil, false
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	start, err := ledger.ParseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid start date (YYYY-MM-DD)")
	}

	end, err := ledger.ParseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid end date (YYYY-MM-DD)")
	}

	if end.Before(start.Time) {
		return time.Time{}, time.Time{}, errors.New("end date is before start date")
	}

	return start.Time, end.Time, nil
}

func (m TimeframePicker) updateInputs(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	var cmds []tea.Cmd

	var c tea.Cmd

	m.startInput, c = m.startInput.Update(msg)
	cmds = append(cmds, c)
	m.endInput, c = m.endInput.Update(msg)
	cmds = append(cmds, c)

	return m, tea.Batch(cmds...)
}

func (m TimeframePicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errorStyle.Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == timeframeStateCustom {
		return fmt.Sprintf(
			"%s:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			TimeframeCustom.Label(m.lang),
			m.startInput.View(),
			m.endInput.View(),
			errStr,
		)
	}

	s := "Select Timeframe:\n\n"
	for i := m.minFrame; i <= TimeframeCustom; i++ {
		cursor := " "
		if m.selected == i {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, i.Label(m.lang))
	}

	s += "\n(Enter to select, Esc to back)"

	return s + errStr
}

// IsSelecting returns true if the picker is in the selection state (not custom input).
func (m TimeframePicker) IsSelecting() bool {
	return m.state == timeframeStateSelect
}
