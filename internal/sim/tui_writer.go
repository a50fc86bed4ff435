package sim

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"netintel-sim/internal/scenario"
	"netintel-sim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// snapshotMsg carries a tick snapshot to the model.
type snapshotMsg struct{ telemetry.Snapshot }

const maxEventLines = 200

var scenarioColors = map[scenario.Tag]lipgloss.Color{
	scenario.Excellent:   lipgloss.Color("10"),
	scenario.Good:        lipgloss.Color("12"),
	scenario.Maintenance: lipgloss.Color("14"),
	scenario.Degraded:    lipgloss.Color("11"),
	scenario.Critical:    lipgloss.Color("9"),
}

// TUIWriter renders region health and network events with a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter. Quitting
// the dashboard interrupts the process.
func NewTUIWriter(catalog *scenario.Catalog) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(catalog), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteSnapshot implements StateWriter.
func (w *TUIWriter) WriteSnapshot(snap telemetry.Snapshot) error {
	w.program.Send(snapshotMsg{snap})
	return nil
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	catalog    *scenario.Catalog
	table      table.Model
	vp         viewport.Model
	snap       telemetry.Snapshot
	events     []string
	seen       map[string]bool
	wrap       bool
	autoscroll bool
	width      int
	height     int
}

func newTUIModel(catalog *scenario.Catalog) tuiModel {
	cols := []table.Column{
		{Title: "Region", Width: 20},
		{Title: "Health", Width: 7},
		{Title: "Scenario", Width: 12},
		{Title: "Load", Width: 6},
		{Title: "Traffic", Width: 8},
		{Title: "Weather", Width: 8},
		{Title: "Temp", Width: 6},
	}
	return tuiModel{
		catalog:    catalog,
		table:      table.New(table.WithColumns(cols), table.WithHeight(7)),
		vp:         viewport.New(0, 0),
		seen:       make(map[string]bool),
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.updateViewportHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
		case "s":
			m.autoscroll = !m.autoscroll
		default:
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
	case snapshotMsg:
		m.snap = msg.Snapshot
		m.table.SetRows(regionRows(msg.Regions))
		m.table.SetHeight(len(msg.Regions) + 1)
		for _, e := range msg.ActiveEvents {
			if m.seen[e.ID] {
				continue
			}
			m.seen[e.ID] = true
			m.events = append(m.events, formatEvent(e))
		}
		if len(m.events) > maxEventLines {
			m.events = m.events[len(m.events)-maxEventLines:]
		}
		m.updateViewportHeight()
		m.refreshViewport()
	}
	return m, nil
}

func regionRows(regions []telemetry.Region) []table.Row {
	rows := make([]table.Row, 0, len(regions))
	for _, r := range regions {
		rows = append(rows, table.Row{
			r.Name,
			fmt.Sprintf("%.1f", r.Health),
			string(r.Scenario),
			fmt.Sprintf("%.2f", r.Load),
			r.TrafficPattern,
			r.Weather,
			fmt.Sprintf("%.1f", r.TemperatureC),
		})
	}
	return rows
}

func formatEvent(e telemetry.Event) string {
	return fmt.Sprintf("[%s] %s %s %s: %s (%d components)",
		e.StartedAt.Format(time.RFC3339), e.ID, strings.ToUpper(e.Severity), e.Type, e.Description, len(e.Affected))
}

func (m *tuiModel) updateViewportHeight() {
	h := m.height - lipgloss.Height(m.renderHeader()) - lipgloss.Height(m.table.View()) - lipgloss.Height(m.renderBottom()) - 4
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	content := "no events"
	if len(m.events) > 0 {
		lines := m.events
		if m.wrap && m.vp.Width > 0 {
			lines = make([]string, len(m.events))
			for i, l := range m.events {
				lines[i] = wordwrap.String(l, m.vp.Width)
			}
		}
		content = strings.Join(lines, "\n")
	}
	m.vp.SetContent(content)
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) View() string {
	divider := strings.Repeat("─", max(m.width, 1))
	return strings.Join([]string{
		m.renderHeader(),
		divider,
		m.table.View(),
		divider,
		"Network events:",
		m.vp.View(),
		divider,
		m.renderBottom(),
	}, "\n")
}

// renderHeader shows the tick and the archetype of the mean region score.
func (m tuiModel) renderHeader() string {
	if len(m.snap.Regions) == 0 {
		return "waiting for first tick..."
	}
	var sum float64
	for _, r := range m.snap.Regions {
		sum += r.Health
	}
	mean := sum / float64(len(m.snap.Regions))
	tag := m.snap.Regions[0].Scenario
	worst := m.snap.Regions[0].Health
	for _, r := range m.snap.Regions {
		if r.Health < worst {
			worst, tag = r.Health, r.Scenario
		}
	}
	style := lipgloss.NewStyle().Bold(true).Foreground(scenarioColors[tag])
	line := fmt.Sprintf("tick %d  %s  network health %.1f  worst region: %s",
		m.snap.Tick, m.snap.At.Format(time.RFC3339), mean, style.Render(string(tag)))
	if m.catalog != nil {
		desc := m.catalog.Get(tag).Description
		if m.width > 0 {
			desc = wordwrap.String(desc, m.width)
		}
		line += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(desc)
	}
	return line
}

func (m tuiModel) renderBottom() string {
	on := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("●")
	off := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("●")
	ind := func(b bool) string {
		if b {
			return on
		}
		return off
	}
	return fmt.Sprintf("%s wrap [w]  %s autoscroll [s]  quit [q]", ind(m.wrap), ind(m.autoscroll))
}
