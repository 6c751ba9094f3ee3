package cluster

import (
	"math"
	"testing"

	"github.com/san-kum/kurasim/internal/kuramoto"
)

// rowDetector builds a detector over a single row of n oscillators whose
// neighbor graph links only adjacent columns.
func rowDetector(t *testing.T, n int, cfg Config) (*Detector, *kuramoto.GridLayout) {
	t.Helper()
	layout, err := kuramoto.NewGridLayout(n, 1)
	if err != nil {
		t.Fatalf("NewGridLayout failed: %v", err)
	}
	if cfg.NeighborRadius == 0 {
		// Just above one column spacing.
		cfg.NeighborRadius = layout.Distance(0, 1) + 1
	}
	d, err := NewDetector(layout, cfg)
	if err != nil {
		t.Fatalf("NewDetector failed: %v", err)
	}
	return d, layout
}

func allActive(n int) []bool {
	a := make([]bool, n)
	for i := range a {
		a[i] = true
	}
	return a
}

func TestDetector_TwoGroups(t *testing.T) {
	d, _ := rowDetector(t, 10, Config{
		PhaseThreshold: 0.5,
		MinSize:        3,
		CoherenceMin:   0.9,
		OverlapMin:     0.5,
	})

	phases := make([]float64, 10)
	for i := 5; i < 10; i++ {
		phases[i] = math.Pi
	}

	ids := d.Update(phases, allActive(10))

	for i := 1; i < 5; i++ {
		if ids[i] != ids[0] {
			t.Errorf("oscillator %d not grouped with 0", i)
		}
	}
	for i := 6; i < 10; i++ {
		if ids[i] != ids[5] {
			t.Errorf("oscillator %d not grouped with 5", i)
		}
	}
	if ids[0] == ids[5] {
		t.Error("antiphase groups share a cluster id")
	}
	if ids[0] == Unassigned || ids[5] == Unassigned {
		t.Error("surviving groups should carry real ids")
	}
}

func TestDetector_MinSize(t *testing.T) {
	d, _ := rowDetector(t, 10, Config{
		PhaseThreshold: 0.5,
		MinSize:        4,
		CoherenceMin:   0.9,
		OverlapMin:     0.5,
	})

	// Oscillators 0-2 aligned, the rest scattered far apart in phase.
	phases := []float64{0, 0, 0, 2.0, -2.0, 1.0, -1.0, 2.5, -2.5, 3.0}

	ids := d.Update(phases, allActive(10))

	for i := 0; i < 3; i++ {
		if ids[i] != Unassigned {
			t.Errorf("undersized group survived: oscillator %d has id %d", i, ids[i])
		}
	}
}

func TestDetector_CoherenceFilter(t *testing.T) {
	// A chain of adjacent oscillators each within threshold of its neighbor
	// but spanning a wide arc: connected, yet incoherent as a set.
	d, _ := rowDetector(t, 8, Config{
		PhaseThreshold: 1.0,
		MinSize:        3,
		CoherenceMin:   0.95,
		OverlapMin:     0.5,
	})

	phases := make([]float64, 8)
	for i := range phases {
		phases[i] = float64(i) * 0.8
	}

	ids := d.Update(phases, allActive(8))

	for i, id := range ids {
		if id != Unassigned {
			t.Errorf("incoherent chain survived: oscillator %d has id %d", i, id)
		}
	}
}

func TestDetector_InactiveExcluded(t *testing.T) {
	d, _ := rowDetector(t, 6, Config{
		PhaseThreshold: 0.5,
		MinSize:        3,
		CoherenceMin:   0.9,
		OverlapMin:     0.5,
	})

	phases := make([]float64, 6)
	active := allActive(6)
	active[2] = false

	ids := d.Update(phases, active)

	if ids[2] != Unassigned {
		t.Errorf("inactive oscillator assigned id %d", ids[2])
	}
	// 2 is a cut vertex in the row graph: the 0-1 fragment falls below the
	// minimum size, while 3-5 survives as its own cluster.
	if ids[0] != Unassigned || ids[1] != Unassigned {
		t.Error("two-member fragment should dissolve")
	}
	if ids[3] == Unassigned || ids[4] != ids[3] || ids[5] != ids[3] {
		t.Errorf("right fragment should form one cluster, got %v", ids[3:])
	}
}

func TestDetector_StableIDs(t *testing.T) {
	d, _ := rowDetector(t, 10, Config{
		PhaseThreshold: 0.5,
		MinSize:        3,
		CoherenceMin:   0.9,
		OverlapMin:     0.5,
	})

	phases := make([]float64, 10)
	for i := 5; i < 10; i++ {
		phases[i] = math.Pi
	}
	active := allActive(10)

	first := d.Update(phases, active)
	for frame := 0; frame < 20; frame++ {
		ids := d.Update(phases, active)
		for i := range ids {
			if ids[i] != first[i] {
				t.Fatalf("frame %d: id of oscillator %d drifted %d -> %d", frame, i, first[i], ids[i])
			}
		}
	}
}

func TestDetector_SplitKeepsID(t *testing.T) {
	d, _ := rowDetector(t, 10, Config{
		PhaseThreshold: 0.5,
		MinSize:        3,
		CoherenceMin:   0.9,
		OverlapMin:     0.4,
	})

	active := allActive(10)

	// One coherent cluster...
	phases := make([]float64, 10)
	before := d.Update(phases, active)
	origID := before[0]
	if origID == Unassigned {
		t.Fatal("initial cluster did not form")
	}

	// ...splits in half.
	for i := 5; i < 10; i++ {
		phases[i] = math.Pi
	}
	after := d.Update(phases, active)

	if after[0] != origID {
		t.Errorf("left fragment lost the original id: got %d, want %d", after[0], origID)
	}
	if after[5] == origID {
		t.Error("right fragment kept the original id; it must mint a new one")
	}
	if after[5] == Unassigned {
		t.Error("right fragment should survive as its own cluster")
	}
}

func TestDetector_MergeKeepsLargerID(t *testing.T) {
	d, _ := rowDetector(t, 12, Config{
		PhaseThreshold: 0.5,
		MinSize:        3,
		CoherenceMin:   0.9,
		OverlapMin:     0.4,
	})

	active := allActive(12)

	// Two clusters of unequal size.
	phases := make([]float64, 12)
	for i := 8; i < 12; i++ {
		phases[i] = math.Pi
	}
	before := d.Update(phases, active)
	bigID := before[0]
	smallID := before[8]
	if bigID == smallID {
		t.Fatal("expected two distinct clusters before the merge")
	}

	// They synchronize into one.
	for i := 8; i < 12; i++ {
		phases[i] = 0
	}
	after := d.Update(phases, active)

	for i := 1; i < 12; i++ {
		if after[i] != after[0] {
			t.Fatalf("merge incomplete at oscillator %d", i)
		}
	}
	if after[0] != bigID {
		t.Errorf("merged cluster has id %d, want the larger fragment's id %d", after[0], bigID)
	}
}

func TestDetector_IDsNeverReused(t *testing.T) {
	d, _ := rowDetector(t, 6, Config{
		PhaseThreshold: 0.5,
		MinSize:        3,
		CoherenceMin:   0.9,
		OverlapMin:     0.5,
	})

	active := allActive(6)
	aligned := make([]float64, 6)
	scattered := []float64{0, 2.0, -2.0, 1.0, -1.0, 2.8}

	first := d.Update(aligned, active)
	d.Update(scattered, active) // cluster dissolves
	second := d.Update(aligned, active)

	if second[0] == first[0] {
		t.Errorf("dissolved cluster id %d was reused", first[0])
	}
}

func TestNewDetector_Invalid(t *testing.T) {
	layout, _ := kuramoto.NewGridLayout(6, 1)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero radius", Config{PhaseThreshold: 0.5, MinSize: 3, CoherenceMin: 0.9, OverlapMin: 0.5}},
		{"zero phase threshold", Config{NeighborRadius: 170, MinSize: 3, CoherenceMin: 0.9, OverlapMin: 0.5}},
		{"zero min size", Config{NeighborRadius: 170, PhaseThreshold: 0.5, CoherenceMin: 0.9, OverlapMin: 0.5}},
		{"coherence above 1", Config{NeighborRadius: 170, PhaseThreshold: 0.5, MinSize: 3, CoherenceMin: 1.5, OverlapMin: 0.5}},
		{"overlap above 1", Config{NeighborRadius: 170, PhaseThreshold: 0.5, MinSize: 3, CoherenceMin: 0.9, OverlapMin: 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewDetector(layout, tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		a, b []int
		want float64
	}{
		{[]int{0, 1, 2}, []int{0, 1, 2}, 1.0},
		{[]int{0, 1}, []int{2, 3}, 0.0},
		{[]int{0, 1, 2, 3}, []int{2, 3, 4, 5}, 1.0 / 3.0},
		{nil, nil, 0.0},
		{[]int{1}, nil, 0.0},
	}

	for _, tt := range tests {
		if got := jaccard(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("jaccard(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
