package kuramoto

import (
	"math"
	"testing"
)

func TestNewGridLayout(t *testing.T) {
	l, err := NewGridLayout(90, 3)
	if err != nil {
		t.Fatalf("NewGridLayout failed: %v", err)
	}

	if l.Cols != 30 {
		t.Errorf("expected 30 cols, got %d", l.Cols)
	}
	if len(l.X) != 90 || len(l.Y) != 90 {
		t.Fatalf("expected 90 positions, got %d/%d", len(l.X), len(l.Y))
	}

	for i := 0; i < l.N; i++ {
		if l.X[i] < 0 || l.X[i] > BoardWidth {
			t.Errorf("oscillator %d x=%f outside board", i, l.X[i])
		}
		if l.Y[i] < 0 || l.Y[i] > BoardHeight {
			t.Errorf("oscillator %d y=%f outside board", i, l.Y[i])
		}
	}
}

func TestNewGridLayout_RaggedLastRow(t *testing.T) {
	// 7 oscillators in 3 rows: cols=3, last row holds a single one.
	l, err := NewGridLayout(7, 3)
	if err != nil {
		t.Fatalf("NewGridLayout failed: %v", err)
	}
	if len(l.X) != 7 {
		t.Fatalf("expected 7 positions, got %d", len(l.X))
	}

	row, col := l.Cell(6)
	if row != 2 || col != 0 {
		t.Errorf("oscillator 6 at (%d,%d), want (2,0)", row, col)
	}
}

func TestNewGridLayout_Invalid(t *testing.T) {
	tests := []struct {
		name string
		n    int
		rows int
	}{
		{"zero n", 0, 3},
		{"negative n", -5, 3},
		{"zero rows", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGridLayout(tt.n, tt.rows); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestGridLayout_Distance(t *testing.T) {
	l, err := NewGridLayout(6, 2)
	if err != nil {
		t.Fatalf("NewGridLayout failed: %v", err)
	}

	if d := l.Distance(0, 0); d != 0 {
		t.Errorf("self distance = %f, want 0", d)
	}
	if d1, d2 := l.Distance(0, 4), l.Distance(4, 0); d1 != d2 {
		t.Errorf("distance not symmetric: %f vs %f", d1, d2)
	}

	// Same row: distance is exactly the column spacing times the gap.
	spacing := l.X[1] - l.X[0]
	if d := l.Distance(0, 2); math.Abs(d-2*spacing) > 1e-9 {
		t.Errorf("Distance(0,2) = %f, want %f", d, 2*spacing)
	}

	// Same column across rows: distance is the row spacing.
	if d := l.Distance(0, 3); math.Abs(d-(l.Y[3]-l.Y[0])) > 1e-9 {
		t.Errorf("Distance(0,3) = %f, want %f", d, l.Y[3]-l.Y[0])
	}
}
