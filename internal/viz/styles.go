package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/kurasim/internal/cluster"
	"github.com/san-kum/kurasim/internal/export"
)

var (
	boardStyle  = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(38)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	inactiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	unassignedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("247"))
)

var clusterStyles = buildClusterStyles()

func buildClusterStyles() []lipgloss.Style {
	styles := make([]lipgloss.Style, len(export.Palette))
	for i, hex := range export.Palette {
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	return styles
}

func cellStyle(id int, active bool) lipgloss.Style {
	if !active {
		return inactiveStyle
	}
	if id == cluster.Unassigned {
		return unassignedStyle
	}
	return clusterStyles[id%len(clusterStyles)]
}
