package kuramoto

import "math"

// Board geometry in pixels, matching the 1280x720 tabletop arrangement.
const (
	BoardWidth  = 1280.0
	BoardHeight = 720.0
	marginX     = 120.0
	marginTop   = 160.0
	rowSpacing  = 160.0
)

// GridLayout assigns each of N oscillators a fixed 2D position on a
// rows x cols board. Positions are row-major and never change after
// construction.
type GridLayout struct {
	N    int
	Rows int
	Cols int
	X    []float64
	Y    []float64
}

func NewGridLayout(n, rows int) (*GridLayout, error) {
	if n <= 0 {
		return nil, ConfigError{Param: "n", Message: "oscillator count must be positive"}
	}
	if rows <= 0 {
		return nil, ConfigError{Param: "rows", Message: "row count must be positive"}
	}

	cols := (n + rows - 1) / rows
	spacingX := (BoardWidth - 2*marginX) / math.Max(1, float64(cols-1))

	l := &GridLayout{
		N:    n,
		Rows: rows,
		Cols: cols,
		X:    make([]float64, 0, n),
		Y:    make([]float64, 0, n),
	}

	k := 0
	for r := 0; r < rows && k < n; r++ {
		y := marginTop + float64(r)*rowSpacing
		for c := 0; c < cols && k < n; c++ {
			l.X = append(l.X, marginX+float64(c)*spacingX)
			l.Y = append(l.Y, y)
			k++
		}
	}

	return l, nil
}

// Distance returns the Euclidean distance between oscillators i and j.
func (l *GridLayout) Distance(i, j int) float64 {
	dx := l.X[i] - l.X[j]
	dy := l.Y[i] - l.Y[j]
	return math.Sqrt(dx*dx + dy*dy)
}

// Cell returns the (row, col) grid coordinates for oscillator i.
func (l *GridLayout) Cell(i int) (row, col int) {
	return i / l.Cols, i % l.Cols
}
