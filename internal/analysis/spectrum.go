// Package analysis provides frequency-domain views of a finished run, mainly
// the beat spectrum of the order-parameter series.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns magnitudes for the positive-frequency half of the
// series' spectrum. The input is mean-subtracted and zero-padded to a power
// of two so the DC level of r(t) does not swamp the beat components.
func PowerSpectrum(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	n := 1
	for n < len(series) {
		n *= 2
	}
	padded := make([]float64, n)
	for i, v := range series {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency locates the strongest non-DC spectral peak of the series
// in Hz, given the sampling interval dt. Returns 0 for series too short to
// carry a peak.
func DominantFrequency(series []float64, dt float64) float64 {
	ps := PowerSpectrum(series)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}

	n := 1
	for n < len(series) {
		n *= 2
	}

	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 {
		return 0
	}
	return float64(maxIdx) / (float64(n) * dt)
}

// MeanPhaseVelocity estimates the average beat frequency in Hz from the
// unwrapped mean-phase series.
func MeanPhaseVelocity(psi []float64, dt float64) float64 {
	if len(psi) < 2 || dt <= 0 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(psi); i++ {
		d := psi[i] - psi[i-1]
		// psi is reported wrapped; undo the jumps.
		for d > math.Pi {
			d -= 2 * math.Pi
		}
		for d < -math.Pi {
			d += 2 * math.Pi
		}
		total += d
	}
	return total / (float64(len(psi)-1) * dt) / (2 * math.Pi)
}
