// Package tui provides a Bubble Tea TUI for browsing saved error summaries.
package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Memrise/mypy-json-report/internal/report"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Active tab: bright
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	// Inactive tab: muted
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabOverview tabID = iota
	tabErrors
	tabCount
)

var tabNames = [tabCount]string{"Overview", "Errors"}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the summary viewer.
type Model struct {
	summary   report.ErrorSummary
	filename  string
	files     []string // summary keys, sorted
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
	sortDesc  bool // overview table: sort files by error count instead of name
}

// New creates a viewer model for the given summary and source filename.
func New(s report.ErrorSummary, filename string) Model {
	files := make([]string, 0, len(s))
	for f := range s {
		files = append(files, f)
	}
	sort.Strings(files)
	return Model{
		summary:  s,
		filename: filepath.Base(filename),
		files:    files,
	}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2":
			m.activeTab = tabID(msg.String()[0] - '1')
		case "s":
			if m.activeTab == tabOverview {
				m.sortDesc = !m.sortDesc
				m.viewports[tabOverview].SetContent(m.renderTab(tabOverview))
			}
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  mypy-json-report  " + m.filename)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  q quit"
	if m.activeTab == tabOverview {
		order := "by name"
		if m.sortDesc {
			order = "by count"
		}
		hint += "  s sort (" + order + ")"
	}
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

func (m *Model) renderTab(t tabID) string {
	switch t {
	case tabOverview:
		return m.renderOverview()
	case tabErrors:
		return m.renderErrors()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

// fileTotal sums the error counts recorded for one file.
func (m *Model) fileTotal(file string) int {
	total := 0
	for _, n := range m.summary[file] {
		total += n
	}
	return total
}

func (m *Model) renderOverview() string {
	var sb strings.Builder
	sb.WriteString(heading("Report Overview"))

	totalErrors := 0
	distinct := 0
	for _, counts := range m.summary {
		distinct += len(counts)
		for _, n := range counts {
			totalErrors += n
		}
	}
	row := func(label, value string) {
		sb.WriteString(fileStyle.Render(fmt.Sprintf("  %-20s", label)) + "  " + value + "\n")
	}
	row("Files with errors:", fmt.Sprintf("%d", len(m.summary)))
	row("Distinct messages:", fmt.Sprintf("%d", distinct))
	row("Total errors:", fmt.Sprintf("%d", totalErrors))

	sb.WriteString(heading("Per-file totals"))
	if len(m.files) == 0 {
		sb.WriteString(dimStyle.Render("  (no errors recorded)") + "\n")
		return sb.String()
	}

	files := append([]string(nil), m.files...)
	if m.sortDesc {
		sort.SliceStable(files, func(i, j int) bool {
			return m.fileTotal(files[i]) > m.fileTotal(files[j])
		})
	}
	for _, file := range files {
		sb.WriteString(countStyle.Render(fmt.Sprintf("  %5d", m.fileTotal(file))) + "  " + file + "\n")
	}
	return sb.String()
}

func (m *Model) renderErrors() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Errors (%d files)", len(m.files))))
	if len(m.files) == 0 {
		sb.WriteString(dimStyle.Render("  (no errors recorded)") + "\n")
		return sb.String()
	}
	for _, file := range m.files {
		sb.WriteString("  " + fileStyle.Render(file) + "\n")

		counts := m.summary[file]
		messages := make([]string, 0, len(counts))
		for msg := range counts {
			messages = append(messages, msg)
		}
		sort.Strings(messages)
		for _, msg := range messages {
			sb.WriteString(countStyle.Render(fmt.Sprintf("   %4d×", counts[msg])) + "  " + msg + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Run starts the viewer in the alternate screen and blocks until it exits.
func Run(s report.ErrorSummary, filename string) error {
	p := tea.NewProgram(New(s, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
