// Package viz is the terminal viewer: the metronome board with
// cluster-colored bobs, live stats and an order-parameter sparkline.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/kurasim/internal/kuramoto"
	"github.com/san-kum/kurasim/internal/sim"
)

const historyCapacity = 600

type TickMsg time.Time

type Model struct {
	runner   *sim.Runner
	layout   *kuramoto.GridLayout
	duration float64
	fps      int

	frame    sim.Frame
	rHistory []float64
	running  bool
	done     bool
	err      error
}

func NewModel(runner *sim.Runner, layout *kuramoto.GridLayout, duration float64, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		runner:   runner,
		layout:   layout,
		duration: duration,
		fps:      fps,
		rHistory: make([]float64, 0, historyCapacity),
		running:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}
	case TickMsg:
		if m.running && !m.done && m.err == nil {
			f, err := m.runner.Step()
			if err != nil {
				m.err = err
				return m, nil
			}
			m.frame = f
			m.rHistory = append(m.rHistory, f.R)
			if len(m.rHistory) > historyCapacity {
				m.rHistory = m.rHistory[1:]
			}
			if m.runner.Time() >= m.duration {
				m.done = true
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	header := headerStyle.Render("kurasim — coupled metronomes")

	board := boardStyle.Render(m.renderBoard())
	stats := statsStyle.Render(m.renderStats())
	main := lipgloss.JoinHorizontal(lipgloss.Top, board, stats)

	graph := ""
	if len(m.rHistory) > 2 {
		graph = graphStyle.Render(asciigraph.Plot(m.rHistory,
			asciigraph.Height(6),
			asciigraph.Width(70),
			asciigraph.Caption("order parameter r(t)"),
		))
	}

	help := helpStyle.Render("space pause · q quit")
	if m.err != nil {
		help = helpStyle.Render("error: " + m.err.Error())
	} else if m.done {
		help = helpStyle.Render("run finished · q quit")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, main, graph, help)
}

func (m Model) renderBoard() string {
	if m.frame.Phases == nil {
		return "starting..."
	}

	var sb strings.Builder
	for r := 0; r < m.layout.Rows; r++ {
		for c := 0; c < m.layout.Cols; c++ {
			i := r*m.layout.Cols + c
			if i >= m.layout.N {
				break
			}
			glyph := "●"
			if !m.frame.Active[i] {
				glyph = "○"
			}
			sb.WriteString(cellStyle(m.frame.Clusters[i], m.frame.Active[i]).Render(glyph))
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderStats() string {
	f := m.frame
	rows := []struct {
		label, value string
	}{
		{"time", fmt.Sprintf("%.1fs / %.0fs", f.T, m.duration)},
		{"oscillators", fmt.Sprintf("%d (%d active)", m.layout.N, f.ActiveCount())},
		{"coupling K", fmt.Sprintf("%.3f", f.K)},
		{"order r", fmt.Sprintf("%.3f", f.R)},
		{"mean phase", fmt.Sprintf("%+.2f rad", f.Psi)},
		{"clusters", fmt.Sprintf("%d", f.ClusterCount())},
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(labelStyle.Render(row.label))
		sb.WriteString(valueStyle.Render(row.value))
		sb.WriteString("\n")
	}
	return sb.String()
}
