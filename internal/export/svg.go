package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/kurasim/internal/cluster"
	"github.com/san-kum/kurasim/internal/kuramoto"
	"github.com/san-kum/kurasim/internal/sim"
)

// Bob swing geometry for display, matching the small-angle pendulum mapping
// of the reference renderer.
const (
	armLength   = 70.0
	maxSwingDeg = 22.0
)

// Palette assigns a stable color per cluster id. Ids are minted
// monotonically, so id%len keeps a cluster's color fixed for its lifetime.
var Palette = []string{
	"#50c8ff", "#ff9650", "#96ff64", "#ff64c8",
	"#ffe450", "#64e4ff", "#c896ff", "#ff6464",
}

// ClusterColor returns the display color for a cluster id; inactive
// oscillators are dim gray, unassigned ones neutral gray.
func ClusterColor(id int, active bool) string {
	if !active {
		return "#5a5a64"
	}
	if id == cluster.Unassigned {
		return "#9696a0"
	}
	return Palette[id%len(Palette)]
}

// BobPosition maps an oscillator phase to its bob position on the board.
func BobPosition(layout *kuramoto.GridLayout, i int, phase float64) (x, y float64) {
	swing := maxSwingDeg * math.Pi / 180 * math.Sin(phase)
	return layout.X[i] + armLength*math.Sin(swing), layout.Y[i] + armLength*math.Cos(swing)
}

// BoardSVG renders one frame of the metronome board: a pin and rod per
// oscillator with the bob colored by cluster.
func BoardSVG(layout *kuramoto.GridLayout, f sim.Frame) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#101016"/>
`, kuramoto.BoardWidth, kuramoto.BoardHeight, kuramoto.BoardWidth, kuramoto.BoardHeight))

	for i := 0; i < layout.N; i++ {
		px, py := layout.X[i], layout.Y[i]
		bx, by := BobPosition(layout, i, f.Phases[i])

		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#bebec8" stroke-width="2"/>
`, px, py-6, px, py+6))
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ebebf5" stroke-width="3"/>
`, px, py, bx, by))
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="8" fill="%s"/>
`, bx, by, ClusterColor(f.Clusters[i], f.Active[i])))
	}

	sb.WriteString(fmt.Sprintf(`<text x="20" y="36" font-family="monospace" font-size="22" fill="#f0f0f0">t=%.1fs  K=%.2f  r=%.3f</text>
`, f.T, f.K, f.R))
	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesSVG renders a scalar time series (typically r(t)) as a polyline.
func SeriesSVG(times, values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 || len(times) != len(values) {
		return ""
	}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	rangeV := maxV - minV
	if rangeV == 0 {
		rangeV = 1
	}
	minV -= rangeV * 0.1
	maxV += rangeV * 0.1
	rangeV = maxV - minV

	tMin := times[0]
	tRange := times[len(times)-1] - tMin
	if tRange == 0 {
		tRange = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#101016"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range values {
		x := (times[i] - tMin) / tRange * float64(width)
		y := float64(height) - (values[i]-minV)/rangeV*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
