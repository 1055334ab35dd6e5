package view

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/locale"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type categoriesState int

const (
	categoriesStateBrowse categoriesState = iota
	categoriesStateForm
	categoriesStateDelete
)

type categoryFields struct {
	id        string
	name      string
	icon      string
	color     string
	confirmed bool
}

type CategoriesModel struct {
	CommonModel

	state      categoriesState
	table      table.Model
	categories []ledger.Category
	form       *huh.Form
	fields     *categoryFields
	status     string
}

func NewCategoriesModel(store *ledger.Store) CategoriesModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "", Width: 3},
			{Title: "Name", Width: 24},
			{Title: "Color", Width: 9},
			{Title: "Total", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := CategoriesModel{CommonModel: CommonModel{Store: store}, table: t}
	m.reload()

	return m
}

func (m CategoriesModel) Title() string { return m.t(locale.LabelCategories) }

func (m CategoriesModel) ShortHelp() string {
	if m.state != categoriesStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | d: delete"
}

func (m CategoriesModel) Init() tea.Cmd {
	return nil
}

func (m CategoriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	if m.state != categoriesStateBrowse {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			return m.openForm(ledger.Category{Color: "#95A5A6"})
		case "e":
			if c, ok := m.selected(); ok {
				return m.openForm(c)
			}

			return m, nil
		case "d":
			if c, ok := m.selected(); ok {
				return m.openDelete(c)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CategoriesModel) selected() (ledger.Category, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.categories) {
		return ledger.Category{}, false
	}

	return m.categories[idx], true
}

func validateColor(s string) error {
	if !hexColorRegex.MatchString(s) {
		return errors.New("use #RGB or #RRGGBB")
	}

	return nil
}

// validateName rejects empty names and names already used by a category
// other than self.
func (m CategoriesModel) validateName(self string) func(string) error {
	required := validateRequired("Name")
	store := m.Store

	return func(s string) error {
		if err := required(s); err != nil {
			return err
		}

		if c, ok := ledger.CategoryNamed(store.Categories(), s); ok && c.ID != self {
			return errors.New("name already exists")
		}

		return nil
	}
}

func (m CategoriesModel) openForm(c ledger.Category) (tea.Model, tea.Cmd) {
	m.fields = &categoryFields{id: c.ID, name: c.Name, icon: c.Icon, color: c.Color}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(m.t(locale.LabelName)).
				Value(&m.fields.name).
				Validate(m.validateName(c.ID)),
			huh.NewInput().
				Title(m.t(locale.LabelIcon)).
				CharLimit(4).
				Value(&m.fields.icon),
			huh.NewInput().
				Title(m.t(locale.LabelColor)).
				Placeholder("#RRGGBB").
				Value(&m.fields.color).
				Validate(validateColor),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = categoriesStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m CategoriesModel) openDelete(c ledger.Category) (tea.Model, tea.Cmd) {
	m.fields = &categoryFields{id: c.ID}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete category %q?", c.Name)).
				Description("Expenses keep their category name.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.fields.confirmed),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = categoriesStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m *CategoriesModel) closeForm() {
	m.state = categoriesStateBrowse
	m.form = nil
	m.fields = nil
	m.table.Focus()
}

func (m CategoriesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		if m.state == categoriesStateDelete {
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

func (m CategoriesModel) View() string {
	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", panelStyle.Width(44).Render(m.form.View()))
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *CategoriesModel) reload() {
	totals := ledger.CategoryTotals(m.Store.Categories(), m.Store.Expenses())

	m.categories = make([]ledger.Category, 0, len(totals))
	rows := make([]table.Row, 0, len(totals))

	for _, t := range totals {
		m.categories = append(m.categories, t.Category)
		rows = append(rows, table.Row{
			t.Category.Icon,
			t.Category.Name,
			t.Category.Color,
			m.amount(t.Total),
		})
	}

	m.table.SetRows(rows)
}

// Messages

func (m CategoriesModel) saveCmd(f categoryFields) tea.Cmd {
	store := m.Store

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		name := strings.TrimSpace(f.name)

		if f.id == "" {
			_, err := store.AddCategory(ctx, ledger.CategoryDraft{Name: name, Icon: f.icon, Color: f.color})
			return savedMsg{err: err}
		}

		return savedMsg{err: store.UpdateCategory(ctx, f.id, ledger.CategoryPatch{
			Name:  &name,
			Icon:  &f.icon,
			Color: &f.color,
		})}
	}
}

func (m CategoriesModel) deleteCmd(id string) tea.Cmd {
	store := m.Store

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		return savedMsg{err: store.DeleteCategory(ctx, id)}
	}
}
