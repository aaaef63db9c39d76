// Package tui provides interactive terminal UI components using BubbleTea.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/klauern/modlist/internal/modules"
)

// ModuleAction is what the user asked for when leaving the browser.
type ModuleAction int

const (
	// ModuleActionNone means the user quit without choosing.
	ModuleActionNone ModuleAction = iota
	// ModuleActionPrintPath means the user wants the manifest path printed.
	ModuleActionPrintPath
)

// ModuleListResult is the outcome of a browsing session.
type ModuleListResult struct {
	Action ModuleAction
	Module modules.Module
	// Manifest is the absolute path of Module's manifest.
	Manifest string
}

type moduleListKeyMap struct {
	Detail   key.Binding
	Print    key.Binding
	Filter   key.Binding
	ClearFlt key.Binding
	Help     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func defaultModuleListKeyMap() moduleListKeyMap {
	return moduleListKeyMap{
		Detail: key.NewBinding(
			key.WithKeys("enter", "v"),
			key.WithHelp("enter/v", "details"),
		),
		Print: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "print path"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		ClearFlt: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b/esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type moduleListPhase int

const (
	moduleListPhaseList moduleListPhase = iota
	moduleListPhaseDetail
)

const (
	moduleListNameWidth     = 32
	moduleListFileWidth     = 56
	moduleListColumnPadding = 2
	moduleListColumnCount   = 2
	moduleListReservedRows  = 8
)

// ModuleListModel is the BubbleTea model for browsing discovered modules.
// Modules are shown in discovery order.
type ModuleListModel struct {
	root      string
	table     table.Model
	modules   []modules.Module
	filtered  []modules.Module
	keys      moduleListKeyMap
	result    ModuleListResult
	filter    string
	filtering bool
	showHelp  bool
	width     int
	height    int
	nameWidth int
	fileWidth int
	phase     moduleListPhase
	detail    modules.Module
	viewport  viewport.Model
	ready     bool
	quitting  bool
}

// NewModuleListModel creates a browser over mods discovered beneath root.
func NewModuleListModel(root string, mods []modules.Module) ModuleListModel {
	m := ModuleListModel{
		root:      root,
		modules:   mods,
		filtered:  mods,
		keys:      defaultModuleListKeyMap(),
		nameWidth: moduleListNameWidth,
		fileWidth: moduleListFileWidth,
		phase:     moduleListPhaseList,
	}

	t := table.New(
		table.WithColumns(m.columns()),
		table.WithRows(m.rows(mods)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	t.SetStyles(tableStyles())

	m.table = t
	return m
}

func (m ModuleListModel) columns() []table.Column {
	return []table.Column{
		{Title: "Module", Width: m.nameWidth},
		{Title: "Manifest", Width: m.fileWidth},
	}
}

func (m ModuleListModel) rows(mods []modules.Module) []table.Row {
	rows := make([]table.Row, len(mods))
	for i, mod := range mods {
		rows[i] = table.Row{
			truncateText(mod.Name, m.nameWidth),
			truncateText(filepath.ToSlash(mod.File), m.fileWidth),
		}
	}
	return rows
}

// resize spreads any width beyond the defaults between the two columns.
func (m *ModuleListModel) resize(totalWidth int) {
	m.nameWidth = moduleListNameWidth
	m.fileWidth = moduleListFileWidth

	base := m.nameWidth + m.fileWidth + moduleListColumnPadding*moduleListColumnCount
	if extra := totalWidth - base; extra > 0 {
		nameExtra := extra / 3
		m.nameWidth += nameExtra
		m.fileWidth += extra - nameExtra
	}
	m.table.SetColumns(m.columns())
}

// Init implements tea.Model.
func (m ModuleListModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ModuleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.phase == moduleListPhaseDetail {
		return m.updateDetail(msg)
	}
	return m.updateList(msg)
}

func (m ModuleListModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-moduleListReservedRows, 5))
		m.resize(msg.Width)
		m.table.SetRows(m.rows(m.filtered))

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "enter":
				m.filtering = false
			case "esc":
				m.filter = ""
				m.filtering = false
				m.applyFilter()
			case "backspace":
				if len(m.filter) > 0 {
					m.filter = m.filter[:len(m.filter)-1]
					m.applyFilter()
				}
			default:
				if msg.Type == tea.KeyRunes {
					m.filter += string(msg.Runes)
					m.applyFilter()
				}
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			return m, nil

		case key.Matches(msg, m.keys.ClearFlt):
			m.filter = ""
			m.applyFilter()
			return m, nil

		case key.Matches(msg, m.keys.Detail):
			if len(m.filtered) > 0 {
				m.detail = m.selected()
				m.phase = moduleListPhaseDetail
				m.ready = false
				m.ensureViewport()
			}
			return m, nil

		case key.Matches(msg, m.keys.Print):
			if len(m.filtered) > 0 {
				mod := m.selected()
				m.result = ModuleListResult{
					Action:   ModuleActionPrintPath,
					Module:   mod,
					Manifest: m.manifestPath(mod),
				}
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ModuleListModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureViewport()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.phase = moduleListPhaseList
			return m, nil

		case key.Matches(msg, m.keys.Print):
			m.result = ModuleListResult{
				Action:   ModuleActionPrintPath,
				Module:   m.detail,
				Manifest: m.manifestPath(m.detail),
			}
			m.quitting = true
			return m, tea.Quit
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *ModuleListModel) applyFilter() {
	if m.filter == "" {
		m.filtered = m.modules
	} else {
		needle := strings.ToLower(m.filter)
		var filtered []modules.Module
		for _, mod := range m.modules {
			if strings.Contains(strings.ToLower(mod.Name), needle) ||
				strings.Contains(strings.ToLower(filepath.ToSlash(mod.File)), needle) {
				filtered = append(filtered, mod)
			}
		}
		m.filtered = filtered
	}
	m.table.SetRows(m.rows(m.filtered))
	m.table.GotoTop()
}

func (m ModuleListModel) selected() modules.Module {
	cursor := m.table.Cursor()
	if cursor >= 0 && cursor < len(m.filtered) {
		return m.filtered[cursor]
	}
	return modules.Module{}
}

func (m ModuleListModel) manifestPath(mod modules.Module) string {
	if mod.File == "" {
		return ""
	}
	return filepath.Join(m.root, mod.File)
}

func (m *ModuleListModel) ensureViewport() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	height := max(m.height-moduleListReservedRows, 5)
	if !m.ready {
		m.viewport = viewport.New(m.width-2, height)
		m.ready = true
	} else {
		m.viewport.Width = m.width - 2
		m.viewport.Height = height
	}
	m.viewport.SetContent(m.detailContent())
}

func (m ModuleListModel) detailContent() string {
	mod := m.detail
	if mod.Name == "" {
		return "No module selected."
	}

	width := m.viewport.Width
	var b strings.Builder
	b.WriteString(Styles.Header.Render("Module"))
	b.WriteString("\n")
	for _, field := range [][2]string{
		{"  Name:     ", mod.Name},
		{"  Manifest: ", filepath.ToSlash(mod.File)},
		{"  Absolute: ", m.manifestPath(mod)},
		{"  Root:     ", m.root},
	} {
		b.WriteString(formatDetail(field[0], field[1], width))
		b.WriteString("\n")
	}
	return b.String()
}

// View implements tea.Model.
func (m ModuleListModel) View() string {
	if m.quitting {
		return ""
	}
	if m.phase == moduleListPhaseDetail {
		return m.viewDetail()
	}

	var b strings.Builder

	b.WriteString(Styles.Title.Render("📦 Installed Modules"))
	b.WriteString("\n\n")

	if m.filter != "" || m.filtering {
		value := Styles.Input.Render(m.filter)
		if m.filtering {
			value += "█"
		}
		b.WriteString(Styles.Prompt.Render("Filter: ") + value + "\n\n")
	}

	b.WriteString(m.table.View())
	b.WriteString("\n")

	status := fmt.Sprintf("%d module(s)", len(m.filtered))
	if m.filter != "" {
		status = fmt.Sprintf("%d of %d module(s) (filtered)", len(m.filtered), len(m.modules))
	}
	b.WriteString(Styles.Status.Render(status))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.renderFullHelp())
	} else {
		b.WriteString(m.renderShortHelp())
	}

	return b.String()
}

func (m ModuleListModel) viewDetail() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render("📦 " + m.detail.Name))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(Styles.Muted.Render(strings.Join([]string{
		"↑/↓ scroll",
		"p print path",
		"b back",
		"q quit",
	}, " • ")))
	return b.String()
}

func (m ModuleListModel) renderShortHelp() string {
	keys := []string{
		"↑/↓ navigate",
		"enter details",
		"p print path",
		"/ filter",
		"? help",
		"q quit",
	}
	return Styles.Muted.Render(strings.Join(keys, " • "))
}

func (m ModuleListModel) renderFullHelp() string {
	help := `Navigation:
  ↑/k      Move up
  ↓/j      Move down
  g/Home   Go to top
  G/End    Go to bottom

Actions:
  Enter/v  View details
  p        Print manifest path and exit

Filter:
  /        Start filtering (by module name or manifest path)
  Esc      Clear filter
  Enter    Finish filtering

General:
  ?        Toggle full help
  q        Quit`
	return Styles.Muted.Render(help)
}

// Result returns the result of the user interaction.
func (m ModuleListModel) Result() ModuleListResult {
	return m.result
}

// RunModuleList runs the interactive browser and returns the result.
func RunModuleList(root string, mods []modules.Module) (ModuleListResult, error) {
	if len(mods) == 0 {
		return ModuleListResult{}, nil
	}

	finalModel, err := runFullScreen(NewModuleListModel(root, mods))
	if err != nil {
		return ModuleListResult{}, err
	}
	if m, ok := finalModel.(ModuleListModel); ok {
		return m.Result(), nil
	}
	return ModuleListResult{}, nil
}
