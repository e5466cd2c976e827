package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-flowcore/pkg/pipeline"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	summaryView view = iota
	hostsView
	lookupView
	shellsView
	numViews
)

var tabs = []string{"Summary", "Hosts", "Lookup", "Shells"}

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "look up host"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter},
		{k.Up, k.Down},
		{k.Quit},
	}
}

type model struct {
	result      *pipeline.Result
	currentView view
	hostTable   table.Model
	lookupInput textinput.Model
	lookup      string // rendered details of the last looked-up host
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
}

func initialModel(res *pipeline.Result, topN int) model {
	ti := textinput.New()
	ti.Placeholder = "147.32.84.165"
	ti.CharLimit = 64
	ti.Width = 40

	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Core", Width: 6},
		{Title: "Host", Width: 18},
		{Title: "Degree", Width: 8},
		{Title: "Label", Width: 40},
	}

	top := res.KCore.TopVertices(topN)
	rows := make([]table.Row, len(top))
	for i, rv := range top {
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			strconv.Itoa(rv.Score),
			rv.Key,
			strconv.Itoa(rv.Degree),
			rv.Label,
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	return model{
		result:      res,
		currentView: summaryView,
		hostTable:   t,
		lookupInput: ti,
		help:        help.New(),
		keys:        keys,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		// "q" is a valid character while typing a host
		case key.Matches(msg, m.keys.Quit) && (m.currentView != lookupView || msg.Type == tea.KeyCtrlC):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.setView((m.currentView + 1) % numViews)
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.setView((m.currentView + numViews - 1) % numViews)
			return m, nil

		case key.Matches(msg, m.keys.Enter):
			if m.currentView == lookupView {
				m.lookupHost(strings.TrimSpace(m.lookupInput.Value()))
				return m, nil
			}
		}
	}

	// Update focused component
	switch m.currentView {
	case lookupView:
		m.lookupInput, cmd = m.lookupInput.Update(msg)
		cmds = append(cmds, cmd)
	case hostsView:
		m.hostTable, cmd = m.hostTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) setView(v view) {
	m.currentView = v
	if v == lookupView {
		m.lookupInput.Focus()
	} else {
		m.lookupInput.Blur()
	}
}

func (m *model) lookupHost(host string) {
	if host == "" {
		m.message = "Host cannot be empty"
		m.messageErr = true
		return
	}

	g := m.result.Graph
	id, ok := g.Lookup(host)
	if !ok {
		m.message = fmt.Sprintf("Host %s not in capture", host)
		m.messageErr = true
		m.lookup = ""
		return
	}

	core := m.result.KCore.Coreness
	seen := make(map[int]bool)
	var peers []string
	g.ForEachNeighbor(id, func(u int) {
		if u == id || seen[u] {
			return
		}
		seen[u] = true
		if len(peers) < 10 {
			peers = append(peers, fmt.Sprintf("  %-15s core %d", g.Key(u), core[u]))
		}
	})

	var s strings.Builder
	fmt.Fprintf(&s, "Host:      %s\n", host)
	fmt.Fprintf(&s, "Id:        %d\n", id)
	fmt.Fprintf(&s, "Label:     %s\n", g.Label(id))
	fmt.Fprintf(&s, "Core:      %d\n", core[id])
	fmt.Fprintf(&s, "Degree:    %d\n", g.Degree(id))
	fmt.Fprintf(&s, "Peers:     %d\n", len(seen))
	if len(peers) > 0 {
		s.WriteString("\n")
		s.WriteString(strings.Join(peers, "\n"))
	}

	m.lookup = s.String()
	m.message = fmt.Sprintf("Found %s", host)
	m.messageErr = false
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Flow Coreness - " + m.result.Input))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case summaryView:
		s.WriteString(m.renderSummary())
	case hostsView:
		s.WriteString(m.renderHosts())
	case lookupView:
		s.WriteString(m.renderLookup())
	case shellsView:
		s.WriteString(m.renderShells())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderSummary() string {
	sum := m.result.Summary()

	graphStats := fmt.Sprintf(`Graph
━━━━━━━━━━━━━━━
Lines:     %d
Skipped:   %d
Hosts:     %d
Flows:     %d`,
		sum.Lines,
		sum.Skipped,
		sum.Vertices,
		sum.Edges,
	)

	coreStats := fmt.Sprintf(`Cores
━━━━━━━━━━━━━━━
Max core:  %d
Innermost: %d hosts
Botnet:    %d in innermost
Run:       %s
Time:      %s`,
		sum.Degeneracy,
		len(m.result.KCore.CoreMembers(sum.Degeneracy)),
		sum.Priority,
		sum.RunID,
		m.result.Duration.Round(time.Millisecond),
	)

	return contentStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top, statsBoxStyle.Render(graphStats), statsBoxStyle.Render(coreStats)),
	)
}

func (m model) renderHosts() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Top Core Nodes"))
	s.WriteString("\n\n")
	s.WriteString(m.hostTable.View())
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Navigate with ↑/↓"))

	return contentStyle.Render(s.String())
}

func (m model) renderLookup() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Host Lookup"))
	s.WriteString("\n\n")
	s.WriteString("Enter a host address:\n\n")
	s.WriteString(m.lookupInput.View())

	if m.lookup != "" {
		s.WriteString("\n\n")
		s.WriteString(statsBoxStyle.Render(m.lookup))
	}

	return contentStyle.Render(s.String())
}

func (m model) renderShells() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Core Shells"))
	s.WriteString("\n\n")

	shells := m.result.KCore.ShellSizes()
	if len(shells) == 0 {
		s.WriteString(helpStyle.Render("No hosts in this capture"))
		return contentStyle.Render(s.String())
	}

	largest := 0
	for _, sh := range shells {
		largest = max(largest, sh[1])
	}
	for _, sh := range shells {
		bar := strings.Repeat("█", max(1, sh[1]*40/largest))
		fmt.Fprintf(&s, "  core %3d  %6d  %s\n", sh[0], sh[1], bar)
	}

	return contentStyle.Render(s.String())
}
