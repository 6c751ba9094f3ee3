package compute

import (
	"math"
	"math/rand"
	"testing"
)

func randomProblem(n int, seed int64) (weights [][]float64, theta, gain []float64) {
	rng := rand.New(rand.NewSource(seed))
	weights = make([][]float64, n)
	for i := range weights {
		weights[i] = make([]float64, n)
		for j := range weights[i] {
			if i != j {
				weights[i][j] = rng.Float64()
			}
		}
	}
	theta = make([]float64, n)
	gain = make([]float64, n)
	for i := range theta {
		theta[i] = -math.Pi + 2*math.Pi*rng.Float64()
		gain[i] = 1.0
	}
	return weights, theta, gain
}

func TestCPUBackend_Small(t *testing.T) {
	weights := [][]float64{
		{0, 0.5},
		{0.5, 0},
	}
	theta := []float64{0, math.Pi / 2}
	gain := []float64{1, 1}

	b := NewCPUBackend()
	sums := b.CouplingSums(weights, theta, gain)

	// result[0] = 0.5*sin(pi/2) = 0.5; result[1] = 0.5*sin(-pi/2) = -0.5
	if math.Abs(sums[0]-0.5) > 1e-12 {
		t.Errorf("sums[0] = %v, want 0.5", sums[0])
	}
	if math.Abs(sums[1]+0.5) > 1e-12 {
		t.Errorf("sums[1] = %v, want -0.5", sums[1])
	}
}

func TestCPUBackend_ZeroGainSkipped(t *testing.T) {
	weights := [][]float64{
		{0, 1, 1},
		{1, 0, 1},
		{1, 1, 0},
	}
	theta := []float64{0, 1.0, 2.0}
	gain := []float64{1, 0, 1}

	b := NewCPUBackend()
	sums := b.CouplingSums(weights, theta, gain)

	if sums[1] != 0 {
		t.Errorf("zero-gain row should stay 0, got %v", sums[1])
	}
	// Source 1 contributes nothing to the others.
	want0 := math.Sin(2.0 - 0)
	if math.Abs(sums[0]-want0) > 1e-12 {
		t.Errorf("sums[0] = %v, want %v", sums[0], want0)
	}
}

func TestCPUBackend_SerialParallelAgree(t *testing.T) {
	// 128 oscillators takes the parallel path; recompute serially and compare.
	n := 128
	weights, theta, gain := randomProblem(n, 42)

	b := NewCPUBackend()
	got := b.CouplingSums(weights, theta, gain)

	want := make([]float64, n)
	couplingRows(weights, theta, gain, want, 0, n)

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: parallel %v != serial %v", i, got[i], want[i])
		}
	}
}

func TestCPUBackend_SnapshotUntouched(t *testing.T) {
	n := 96
	weights, theta, gain := randomProblem(n, 9)

	before := make([]float64, n)
	copy(before, theta)

	b := NewCPUBackend()
	b.CouplingSums(weights, theta, gain)

	for i := range theta {
		if theta[i] != before[i] {
			t.Fatalf("theta[%d] mutated by CouplingSums", i)
		}
	}
}

func TestBackendRegistry(t *testing.T) {
	b := GetBackend()
	if b == nil {
		t.Fatal("no default backend")
	}
	if b.Name() != "cpu" {
		t.Errorf("default backend = %s, want cpu", b.Name())
	}
	if !b.Available() {
		t.Error("cpu backend should always be available")
	}
}
