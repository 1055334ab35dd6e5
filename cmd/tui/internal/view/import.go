package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocketbook/internal/encoding"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/locale"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateOptions importState = iota
	importStateFilePick
	importStatePreviewing
	importStateReview
	importStateResult
)

var importCharsets = []string{
	"auto",
	encoding.CharsetUTF8,
	encoding.CharsetWindows1252,
	encoding.CharsetWindows1256,
	encoding.CharsetISO88596,
	encoding.CharsetISO88599,
}

type importOptions struct {
	format  importer.Format
	charset string
}

type ImportModel struct {
	CommonModel
	importService *importer.Service

	state      importState
	form       *huh.Form
	options    *importOptions
	filePicker filepicker.Model

	drafts    []ledger.ExpenseDraft
	draftList list.Model
	selected  map[int]bool

	status string
	err    error
}

func NewImportModel(store *ledger.Store, svc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	m := ImportModel{
		CommonModel:   CommonModel{Store: store},
		importService: svc,
		filePicker:    fp,
		selected:      make(map[int]bool),
	}
	m.buildOptionsForm()

	return m
}

func (m ImportModel) Title() string { return m.t(locale.LabelImport) }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateReview:
		return "Space: toggle | a: all | n: none | Enter: import selected | Esc: cancel"
	case importStateResult:
		return "Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *ImportModel) buildOptionsForm() {
	m.options = &importOptions{format: importer.FormatGeneric, charset: "auto"}

	formats := make([]huh.Option[importer.Format], 0, len(importer.Formats))
	for _, f := range importer.Formats {
		formats = append(formats, huh.NewOption(string(f), f))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[importer.Format]().
				Title("Statement format").
				Options(formats...).
				Value(&m.options.format),
			huh.NewSelect[string]().
				Title("Encoding").
				Options(huh.NewOptions(importCharsets...)...).
				Value(&m.options.charset),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateReview {
			return m.updateReview(msg)
		}

	case previewResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.startReview(msg.drafts)

		return m, nil

	case commitResultMsg:
		m.state = importStateResult
		m.status = fmt.Sprintf("Imported %d expenses.", msg.count)

		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Imported %d expenses before an error: %v", msg.count, msg.err)
		}

		return m, nil

	case CommittedMsg:
		return m, nil
	}

	switch m.state {
	case importStateOptions:
		return m.updateOptions(msg)
	case importStateFilePick:
		return m.updateFilePick(msg)
	}

	return m, nil
}

func (m ImportModel) updateOptions(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m, Back
	case huh.StateCompleted:
		m.state = importStateFilePick
		return m, m.filePicker.Init()
	}

	return m, cmd
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStatePreviewing
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.previewCmd(path, *m.options)
	}

	return m, cmd
}

func (m *ImportModel) startReview(drafts []ledger.ExpenseDraft) {
	m.drafts = drafts
	m.selected = make(map[int]bool, len(drafts))

	items := make([]list.Item, len(drafts))
	for i, d := range drafts {
		items[i] = draftItem{draft: d, index: i}
		m.selected[i] = true
	}

	delegate := draftDelegate{selected: &m.selected, common: m.CommonModel}
	m.draftList = list.New(items, delegate, 80, 20)
	m.draftList.Title = fmt.Sprintf("%d expenses found", len(drafts))
	m.draftList.SetShowStatusBar(false)
	m.draftList.SetFilteringEnabled(false)
	m.draftList.SetShowHelp(false)

	m.state = importStateReview
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick, importStateResult, importStateReview:
		m.state = importStateOptions
		m.err = nil
		m.status = ""
		m.drafts = nil
		m.selected = make(map[int]bool)
		m.buildOptionsForm()

		return m, m.form.Init()
	}

	return m, Back
}

func (m ImportModel) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.draftList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.drafts {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.drafts {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		return m, m.commitCmd()
	}

	var cmd tea.Cmd
	m.draftList, cmd = m.draftList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateOptions:
		return lipgloss.NewStyle().Padding(1).Render(panelStyle.Width(50).Render(m.form.View()))
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select file to import (%s, %s):\n\n%s", m.options.format, m.options.charset, m.filePicker.View()),
		)
	case importStatePreviewing:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateReview:
		if len(m.drafts) == 0 {
			return lipgloss.NewStyle().Padding(2).Render(faintStyle.Render(m.t(locale.LabelNoExpenses)))
		}

		return lipgloss.NewStyle().Padding(1).Render(m.draftList.View())
	case importStateResult:
		style := successStyle
		if m.err != nil {
			style = errorStyle
		}

		return lipgloss.NewStyle().Padding(2).Render(style.Render(m.status) + "\n\n(Esc to go back)")
	}

	return ""
}

// Messages

type previewResultMsg struct {
	drafts []ledger.ExpenseDraft
	err    error
}

type commitResultMsg struct {
	count int
	err   error
}

func (m ImportModel) previewCmd(path string, opts importOptions) tea.Cmd {
	svc := m.importService

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewResultMsg{err: err}
		}
		defer f.Close()

		drafts, err := svc.Preview(opts.format, opts.charset, f)

		return previewResultMsg{drafts: drafts, err: err}
	}
}

func (m ImportModel) commitCmd() tea.Cmd {
	svc := m.importService

	var drafts []ledger.ExpenseDraft

	for i, d := range m.drafts {
		if m.selected[i] {
			drafts = append(drafts, d)
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		created, err := svc.Commit(ctx, drafts)

		return commitResultMsg{count: len(created), err: err}
	}
}

// Draft list item

type draftItem struct {
	draft ledger.ExpenseDraft
	index int
}

func (i draftItem) Title() string       { return i.draft.Description }
func (i draftItem) Description() string { return i.draft.Category }
func (i draftItem) FilterValue() string { return i.draft.Description }

// Draft list delegate

type draftDelegate struct {
	selected *map[int]bool
	common   CommonModel
}

func (d draftDelegate) Height() int                             { return 2 }
func (d draftDelegate) Spacing() int                            { return 0 }
func (d draftDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d draftDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(draftItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if (*d.selected)[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	line1 := fmt.Sprintf("%s%s %s  %s  %s",
		cursor, checkbox,
		d.common.date(item.draft.Date),
		d.common.amount(item.draft.Amount),
		truncate(item.draft.Description, 40),
	)

	line2 := fmt.Sprintf("      %s", faintStyle.Render(item.draft.Category))

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
