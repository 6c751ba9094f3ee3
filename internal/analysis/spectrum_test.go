package analysis

import (
	"math"
	"testing"
)

func TestPowerSpectrum(t *testing.T) {
	// A pure 2 Hz tone on a 30 Hz sample clock.
	dt := 1.0 / 30.0
	series := make([]float64, 256)
	for i := range series {
		series[i] = 0.5 + 0.2*math.Sin(2*math.Pi*2.0*float64(i)*dt)
	}

	ps := PowerSpectrum(series)
	if len(ps) != 128 {
		t.Fatalf("expected 128 bins for a 256-sample series, got %d", len(ps))
	}

	// Peak bin: f*n*dt = 2 * 256 / 30 ≈ 17.
	maxIdx := 0
	for i, p := range ps {
		if p > ps[maxIdx] {
			maxIdx = i
		}
	}
	if maxIdx < 16 || maxIdx > 18 {
		t.Errorf("spectral peak at bin %d, want near 17", maxIdx)
	}
}

func TestPowerSpectrum_Empty(t *testing.T) {
	if ps := PowerSpectrum(nil); ps != nil {
		t.Errorf("expected nil spectrum for empty series, got %v", ps)
	}
}

func TestPowerSpectrum_MeanSubtracted(t *testing.T) {
	series := make([]float64, 64)
	for i := range series {
		series[i] = 0.83
	}

	ps := PowerSpectrum(series)
	for i, p := range ps {
		if p > 1e-9 {
			t.Errorf("constant series should have empty spectrum, bin %d = %v", i, p)
		}
	}
}

func TestDominantFrequency(t *testing.T) {
	dt := 1.0 / 30.0
	series := make([]float64, 512)
	for i := range series {
		series[i] = math.Sin(2 * math.Pi * 1.5 * float64(i) * dt)
	}

	freq := DominantFrequency(series, dt)
	if math.Abs(freq-1.5) > 0.1 {
		t.Errorf("dominant frequency = %v, want about 1.5", freq)
	}
}

func TestDominantFrequency_Degenerate(t *testing.T) {
	if f := DominantFrequency([]float64{1.0}, 0.1); f != 0 {
		t.Errorf("expected 0 for a one-sample series, got %v", f)
	}
	if f := DominantFrequency([]float64{1, 2, 3, 4}, 0); f != 0 {
		t.Errorf("expected 0 for zero dt, got %v", f)
	}
}

func TestMeanPhaseVelocity(t *testing.T) {
	// psi advancing at 1.1 Hz, reported wrapped to (-pi, pi].
	dt := 1.0 / 30.0
	hz := 1.1
	psi := make([]float64, 300)
	for i := range psi {
		raw := 2 * math.Pi * hz * float64(i) * dt
		psi[i] = math.Mod(raw+math.Pi, 2*math.Pi) - math.Pi
	}

	got := MeanPhaseVelocity(psi, dt)
	if math.Abs(got-hz) > 0.01 {
		t.Errorf("mean phase velocity = %v, want %v", got, hz)
	}
}

func TestMeanPhaseVelocity_Degenerate(t *testing.T) {
	if v := MeanPhaseVelocity([]float64{0.5}, 0.1); v != 0 {
		t.Errorf("expected 0 for a one-sample series, got %v", v)
	}
}
