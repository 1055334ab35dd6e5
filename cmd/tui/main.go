package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pocketbook/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pocketbook/internal/config"
	"github.com/MrJamesThe3rd/pocketbook/internal/export"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/locale"
	"github.com/MrJamesThe3rd/pocketbook/internal/logging"
	"github.com/MrJamesThe3rd/pocketbook/internal/matching"
	"github.com/MrJamesThe3rd/pocketbook/internal/storage"
)

type menuItem struct {
	label string
	open  func(m model) view.View
}

type model struct {
	store         *ledger.Store
	importService *importer.Service
	exportService *export.Service
	exportDir     string

	menu    []menuItem
	current view.View
	width   int
}

func newModel(store *ledger.Store, impSvc *importer.Service, expSvc *export.Service, exportDir string) model {
	return model{
		store:         store,
		importService: impSvc,
		exportService: expSvc,
		exportDir:     exportDir,
		menu: []menuItem{
			{locale.LabelDashboard, func(m model) view.View { return view.NewDashboardModel(m.store) }},
			{locale.LabelExpenses, func(m model) view.View { return view.NewExpensesModel(m.store) }},
			{locale.LabelBudgets, func(m model) view.View { return view.NewBudgetsModel(m.store) }},
			{locale.LabelCategories, func(m model) view.View { return view.NewCategoriesModel(m.store) }},
			{locale.LabelAnalytics, func(m model) view.View { return view.NewAnalyticsModel(m.store) }},
			{locale.LabelCalculator, func(m model) view.View { return view.NewCalculatorModel(m.store) }},
			{locale.LabelSettings, func(m model) view.View { return view.NewSettingsModel(m.store) }},
			{locale.LabelImport, func(m model) view.View { return view.NewImportModel(m.store, m.importService) }},
			{locale.LabelExport, func(m model) view.View { return view.NewExportModel(m.store, m.exportService, m.exportDir) }},
		},
	}
}

func (m model) t(key string) string {
	return locale.T(m.store.Settings().Language, key)
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == nil {
			return m.updateMenu(msg)
		}

	case view.BackMsg:
		m.current = nil
		return m, nil

	case view.CommittedMsg:
		if msg.Change.Touches(ledger.CollectionSettings) {
			lipgloss.SetHasDarkBackground(msg.Change.Display.Dark)
		}
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	if v, ok := next.(view.View); ok {
		m.current = v
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "q" {
		return m, tea.Quit
	}

	if len(key) != 1 || key[0] < '1' || int(key[0]-'0') > len(m.menu) {
		return m, nil
	}

	m.current = m.menu[key[0]-'1'].open(m)

	return m, m.current.Init()
}

func (m model) View() string {
	var title, body, help string

	if m.current == nil {
		title = "Pocketbook"
		body = m.viewMenu()
		help = fmt.Sprintf("1-%d: open | q: %s", len(m.menu), m.t(locale.LabelQuit))
	} else {
		title = m.current.Title()
		body = m.current.View()
		help = m.current.ShortHelp()
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1).Render(title)
	footer := lipgloss.NewStyle().Faint(true).Padding(0, 1).Render(help)

	out := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)

	dir := m.store.Display().Direction
	if dir == ledger.DirectionLTR || m.width == 0 {
		return out
	}

	lines := strings.Split(out, "\n")
	for i, l := range lines {
		lines[i] = view.Align(l, dir, m.width)
	}

	return strings.Join(lines, "\n")
}

func (m model) viewMenu() string {
	var sb strings.Builder

	for i, item := range m.menu {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, m.t(item.label))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// The terminal belongs to the UI, so logs go to a file.
	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	logFile, err := os.OpenFile(filepath.Join(cfg.Storage.DataDir, "tui.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	if _, err := logging.Setup(logFile, cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	slots, closeSlots, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer closeSlots()

	store, err := ledger.Open(context.Background(), slots)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}

	lipgloss.SetHasDarkBackground(store.Display().Dark)

	var (
		matchingService = matching.NewService(store)
		importService   = importer.NewService(matchingService, store)
		exportService   = export.NewService(store)
	)

	p := tea.NewProgram(newModel(store, importService, exportService, cfg.Export.Dir), tea.WithAltScreen())

	tuiLog := logging.For(logging.ComponentTUI)
	store.OnCommit(func(c ledger.Change) {
		tuiLog.Debug("ledger committed", "collections", c.Collections)
		p.Send(view.CommittedMsg{Change: c})
	})

	slog.Info("starting TUI", "backend", cfg.Storage.Backend)

	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}
