// Package inspectui provides the Bubble Tea viewer for evaluation results.
package inspectui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/keycost/internal/evaluation"
	"github.com/verte-zerg/keycost/internal/keyboard"
)

const tabOverview = 0

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	keyStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Entry pairs a layout with its evaluation.
type Entry struct {
	Layout *keyboard.Layout
	Result evaluation.Result
}

// Model implements the Bubble Tea inspection UI. Tab 0 is the overview; every
// following tab lists the worst bigrams of one metric.
type Model struct {
	entries []Entry
	current int

	tabs      []string
	activeTab int
	overview  viewport.Model
	worst     table.Model

	width  int
	height int

	filterMode  bool
	filterInput textinput.Model
	filter      string
}

// NewModel constructs an inspection UI over the given entries.
func NewModel(entries []Entry) *Model {
	m := &Model{entries: entries}
	m.filterInput = textinput.New()
	m.filterInput.Prompt = "Filter bigrams: "
	m.filterInput.Cursor.SetMode(cursor.CursorBlink)
	m.overview = viewport.New(0, 0)
	m.worst = table.New(table.WithColumns(worstColumns()), table.WithHeight(1))
	m.worst.SetStyles(worstTableStyles())
	m.selectEntry(0)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, nil
		case "right", "l":
			m.moveTab(1)
			return m, nil
		case "tab", "n":
			m.selectEntry(m.current + 1)
			return m, nil
		case "shift+tab", "p":
			m.selectEntry(m.current - 1)
			return m, nil
		case "/":
			m.filterMode = true
			m.filterInput.SetValue(m.filter)
			return m, m.filterInput.Focus()
		case "g", "home":
			if m.activeTab == tabOverview {
				m.overview.GotoTop()
			} else {
				m.worst.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabOverview {
				m.overview.GotoBottom()
			} else {
				m.worst.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabOverview {
			m.overview, cmd = m.overview.Update(msg)
		} else {
			m.worst, cmd = m.worst.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.filterMode = false
		m.filterInput.Blur()
		m.filter = strings.TrimSpace(m.filterInput.Value())
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) selectEntry(idx int) {
	count := len(m.entries)
	if count == 0 {
		m.tabs = []string{"Overview"}
		return
	}
	m.current = (idx%count + count) % count
	res := m.entries[m.current].Result
	m.tabs = []string{"Overview"}
	for _, mr := range res.Metrics {
		m.tabs = append(m.tabs, mr.Name)
	}
	if m.activeTab >= len(m.tabs) {
		m.activeTab = tabOverview
	}
	m.refresh()
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = ((m.activeTab+delta)%count + count) % count
	if m.activeTab == tabOverview {
		m.worst.Blur()
	} else {
		m.worst.Focus()
	}
	m.refresh()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.worst.SetWidth(m.width)
	m.worst.SetHeight(maxInt(1, bodyHeight-1))
	m.filterInput.Width = maxInt(10, m.width-lipgloss.Width(m.filterInput.Prompt)-2)
}

func (m *Model) refresh() {
	if len(m.entries) == 0 {
		m.overview.SetContent("No layouts evaluated.")
		return
	}
	entry := m.entries[m.current]
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(entry, width))
	if m.activeTab > tabOverview {
		mr := entry.Result.Metrics[m.activeTab-1]
		m.worst.SetRows(worstRows(mr, m.filter))
		m.worst.GotoTop()
	}
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	summary := "No layouts"
	if len(m.entries) > 0 {
		res := m.entries[m.current].Result
		summary = fmt.Sprintf("Layout %d/%d: %s  total=%s", m.current+1, len(m.entries), res.Layout, formatCost(res.Total))
		if m.filter != "" {
			summary += fmt.Sprintf("  filter=%q", m.filter)
		}
	}
	return tabs + "\n" + headerStyle.Render(runewidth.Truncate(summary, maxInt(m.width, 1), "…"))
}

func (m *Model) renderBody() string {
	if m.filterMode {
		return m.filterInput.View()
	}
	if m.activeTab == tabOverview {
		return m.overview.View()
	}
	if len(m.worst.Rows()) == 0 {
		return "No costly bigrams."
	}
	return tableMutedStyle.Render(m.worst.View())
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("enter: apply  esc: cancel")
	}
	return headerStyle.Render("Metric: left/right  Layout: tab/shift+tab  Scroll: up/down  Filter: /  Quit: q")
}

func renderOverview(e Entry, width int) string {
	res := e.Result
	cards := []string{metricCard("Total", formatCost(res.Total))}
	if res.Found+res.NotFound > 0 {
		cards = append(cards, metricCard("Coverage", fmt.Sprintf("%.1f%%", res.Found/(res.Found+res.NotFound)*100)))
	}
	for _, mr := range res.Metrics {
		cards = append(cards, metricCard(mr.Name, formatCost(mr.Cost)))
	}
	var rows []string
	var row []string
	rowWidth := 0
	for _, card := range cards {
		w := lipgloss.Width(card)
		if len(row) > 0 && rowWidth+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowWidth = nil, 0
		}
		row = append(row, card)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	out := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if e.Layout != nil {
		out += "\n\n" + renderKeymap(e.Layout)
	}
	return out
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

// renderKeymap draws the base layer symbols at their matrix positions.
func renderKeymap(l *keyboard.Layout) string {
	maxCol, maxRow := 0, 0
	for _, k := range l.Keyboard().Keys {
		maxCol = maxInt(maxCol, k.Position.Col)
		maxRow = maxInt(maxRow, k.Position.Row)
	}
	grid := make([][]string, maxRow+1)
	for y := range grid {
		grid[y] = make([]string, maxCol+1)
		for x := range grid[y] {
			grid[y][x] = "  "
		}
	}
	for _, lk := range l.Keys() {
		if lk.Layer != 0 || lk.Key.Position.Col < 0 || lk.Key.Position.Row < 0 {
			continue
		}
		label := "⇧"
		if !lk.IsModifier() {
			label = string(lk.Symbol)
			if lk.Symbol == ' ' {
				label = "␣"
			}
		}
		grid[lk.Key.Position.Row][lk.Key.Position.Col] = keyStyle.Render(runewidth.FillRight(label, 2))
	}
	lines := make([]string, 0, len(grid))
	for _, row := range grid {
		lines = append(lines, strings.TrimRight(strings.Join(row, ""), " "))
	}
	return headerStyle.Render("Keymap") + "\n" + strings.Join(lines, "\n")
}

func worstColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Bigram", Width: 8},
		{Title: "Weight", Width: 12},
		{Title: "Cost", Width: 12},
		{Title: "Share", Width: 8},
	}
}

func worstRows(mr evaluation.MetricResult, filter string) []table.Row {
	rows := make([]table.Row, 0, len(mr.Worst))
	for i, bc := range mr.Worst {
		bigram := bc.Bigram.String()
		if filter != "" && !strings.Contains(bigram, filter) {
			continue
		}
		share := 0.0
		if mr.RawCost > 0 {
			share = bc.Cost / mr.RawCost * 100
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			bigram,
			formatCost(bc.Bigram.Weight),
			formatCost(bc.Cost),
			fmt.Sprintf("%.2f%%", share),
		})
	}
	return rows
}

func worstTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func formatCost(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
