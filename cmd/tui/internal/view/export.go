package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocketbook/internal/export"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/locale"
)

const exportTimeout = 2 * time.Minute

type exportState int

const (
	exportStateAction exportState = iota
	exportStateTimeframe
	exportStatePath
	exportStateRunning
	exportStateResult
)

type exportAction string

const (
	exportActionCSV     exportAction = "csv"
	exportActionBackup  exportAction = "backup"
	exportActionRestore exportAction = "restore"
)

type exportFields struct {
	action    exportAction
	path      string
	confirmed bool
}

type ExportModel struct {
	CommonModel
	exportService *export.Service

	state           exportState
	err             error
	timeframePicker TimeframePicker
	filter          export.Filter

	outDir  string
	form    *huh.Form
	fields  *exportFields
	spinner spinner.Model
	summary string
}

// NewExportModel offers outDir as the default destination for exports.
func NewExportModel(store *ledger.Store, svc *export.Service, outDir string) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		CommonModel:   CommonModel{Store: store},
		exportService: svc,
		outDir:        outDir,
		spinner:       s,
	}
	m.buildActionForm()

	return m
}

func (m ExportModel) Title() string { return m.t(locale.LabelExport) }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back"
	case exportStateRunning:
		return "Working..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *ExportModel) buildActionForm() {
	m.fields = &exportFields{action: exportActionCSV, path: m.outDir}
	m.filter = export.Filter{}
	m.state = exportStateAction

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[exportAction]().
				Title(m.t(locale.LabelExport)).
				Options(
					huh.NewOption("Expenses to CSV", exportActionCSV),
					huh.NewOption("Full backup (JSON)", exportActionBackup),
					huh.NewOption("Restore from backup", exportActionRestore),
				).
				Value(&m.fields.action),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m *ExportModel) buildPathForm() {
	if m.fields.action == exportActionRestore {
		m.fields.path = ""

		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Backup file").
					Placeholder(filepath.Join(m.outDir, "pocketbook_backup.json")).
					Value(&m.fields.path).
					Validate(validateRequired("Backup file")),
				huh.NewConfirm().
					Title("Replace all data?").
					Description("Every expense, budget and category is overwritten.").
					Affirmative("Restore").
					Negative("Cancel").
					Value(&m.fields.confirmed),
			),
		).WithWidth(50).WithShowHelp(false)

		return
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder(m.outDir).
				Value(&m.fields.path).
				Validate(validateRequired("Output Path")),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		m.filter = export.Filter{}
		if !tfMsg.All {
			m.filter.From = tfMsg.Start
			m.filter.To = tfMsg.End
		}

		m.buildPathForm()
		m.state = exportStatePath

		return m, m.form.Init()
	}

	if _, ok := msg.(CommittedMsg); ok {
		return m, nil
	}

	switch m.state {
	case exportStateAction:
		return m.updateAction(msg)
	case exportStateTimeframe:
		return m.updateTimeframe(msg)
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateRunning:
		return m.updateRunning(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updateAction(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m, Back
	case huh.StateCompleted:
		if m.fields.action == exportActionCSV {
			m.timeframePicker = NewTimeframePicker(TimeframeThisWeek, m.settings().Language)
			m.state = exportStateTimeframe

			return m, nil
		}

		m.buildPathForm()
		m.state = exportStatePath

		return m, m.form.Init()
	}

	return m, cmd
}

func (m ExportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			m.buildActionForm()
			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.buildActionForm()
		return m, m.form.Init()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.buildActionForm()
		return m, m.form.Init()
	case huh.StateCompleted:
		if m.fields.action == exportActionRestore && !m.fields.confirmed {
			m.buildActionForm()
			return m, m.form.Init()
		}

		m.state = exportStateRunning
		m.err = nil

		return m, tea.Batch(m.spinner.Tick, m.runCmd(*m.fields, m.filter))
	}

	return m, cmd
}

func (m ExportModel) updateRunning(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.summary = result.body

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.buildActionForm()
		m.summary = ""
		m.err = nil

		return m, m.form.Init()
	}

	return m, nil
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateAction, exportStatePath:
		return lipgloss.NewStyle().Padding(1).Render(panelStyle.Width(55).Render(m.form.View()))

	case exportStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case exportStateRunning:
		return lipgloss.NewStyle().Padding(1).Render(fmt.Sprintf("%s Working...", m.spinner.View()))

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := successStyle.Bold(true).Render("Done!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", m.summary),
	)
}

type exportResultMsg struct {
	body string
	err  error
}

func (m ExportModel) runCmd(f exportFields, filter export.Filter) tea.Cmd {
	svc := m.exportService
	settings := m.settings()

	return func() tea.Msg {
		switch f.action {
		case exportActionCSV:
			path, n, err := svc.ExportCSV(f.path, filter)
			if err != nil {
				return exportResultMsg{err: err}
			}

			body := fmt.Sprintf("Wrote %d expenses to %s\n\n%s", n, path, svc.GenerateSummary(svc.Expenses(filter), settings))

			return exportResultMsg{body: body}

		case exportActionBackup:
			path, err := svc.Backup(f.path)
			if err != nil {
				return exportResultMsg{err: err}
			}

			return exportResultMsg{body: fmt.Sprintf("Backup written to %s", path)}

		case exportActionRestore:
			file, err := os.Open(f.path)
			if err != nil {
				return exportResultMsg{err: err}
			}
			defer file.Close()

			ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
			defer cancel()

			snap, err := svc.Restore(ctx, file)
			if err != nil {
				return exportResultMsg{err: err}
			}

			return exportResultMsg{body: fmt.Sprintf("Restored %d expenses, %d budgets and %d categories.",
				len(snap.Expenses), len(snap.Budgets), len(snap.Categories))}
		}

		return exportResultMsg{err: fmt.Errorf("unknown action %q", f.action)}
	}
}
