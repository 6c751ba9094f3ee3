package kuramoto

import (
	"math"
	"math/rand"

	"github.com/san-kum/kurasim/internal/compute"
)

// Integrator advances the bank's phases by one outer time step using an
// explicit scheme with a fixed number of substeps. K(t) is evaluated once per
// outer step, not per substep; this is the documented reproducibility
// contract for the ramped variant.
type Integrator struct {
	weights  *Weights
	coupling CouplingSchedule
	backend  compute.Backend
	substeps int
	noiseStd float64
	rng      *rand.Rand

	step int
	gain []float64
}

func NewIntegrator(w *Weights, coupling CouplingSchedule, substeps int, noiseStd float64, rng *rand.Rand, backend compute.Backend) (*Integrator, error) {
	if w == nil || w.N == 0 {
		return nil, ConfigError{Param: "weights", Message: "weight matrix must cover at least one oscillator"}
	}
	if substeps < 1 {
		return nil, ConfigError{Param: "substeps", Message: "substep count must be at least 1"}
	}
	if noiseStd < 0 {
		return nil, ConfigError{Param: "noise_std", Message: "noise level must be non-negative"}
	}
	if backend == nil {
		backend = compute.GetBackend()
	}
	return &Integrator{
		weights:  w,
		coupling: coupling,
		backend:  backend,
		substeps: substeps,
		noiseStd: noiseStd,
		rng:      rng,
		gain:     make([]float64, w.N),
	}, nil
}

// Advance mutates bank's phases from time t to t+dt. Inactive oscillators
// hold their phase and are excluded from the coupling sums as both source and
// target; activation is re-evaluated at each substep so mid-step starts take
// effect on the substep where they occur.
func (in *Integrator) Advance(bank *Bank, t, dt float64) error {
	if dt <= 0 {
		return ConfigError{Param: "dt", Message: "time step must be positive"}
	}
	if bank.N != in.weights.N {
		return ConfigError{Param: "n", Message: "bank size does not match weight matrix"}
	}

	k := in.coupling.K(t)
	h := dt / float64(in.substeps)
	sqrtH := math.Sqrt(h)

	for s := 0; s < in.substeps; s++ {
		ts := t + float64(s)*h

		for i := 0; i < bank.N; i++ {
			in.gain[i] = bank.Gain(i, ts)
		}

		snapshot := bank.Snapshot()
		sums := in.backend.CouplingSums(in.weights.W, snapshot, in.gain)

		for i := 0; i < bank.N; i++ {
			if !bank.Active(i, ts) {
				continue
			}
			eta := 0.0
			if in.noiseStd > 0 {
				// Increment scales as noiseStd*sqrt(h): phase diffusion.
				eta = in.noiseStd * in.rng.NormFloat64() / sqrtH
			}
			theta := snapshot[i] + (bank.Omegas[i]+k*in.gain[i]*sums[i]+eta)*h
			if math.IsNaN(theta) || math.IsInf(theta, 0) {
				return StepError{Step: in.step, Oscillator: i, Time: ts}
			}
			bank.Phases[i] = theta
		}
	}

	in.step++
	return nil
}
