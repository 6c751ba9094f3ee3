package kuramoto

import (
	"math"
	"math/rand"
)

// Bank owns the full per-oscillator state: unwrapped phases, natural angular
// frequencies and the activation schedule. Phases are mutated only by the
// Integrator; readers receive snapshots.
type Bank struct {
	N      int
	Phases []float64
	Omegas []float64
	act    *Activation
}

// NewBank samples the per-oscillator state from rng in a fixed order
// (frequencies, then initial phases, then start times) so a given seed always
// reproduces the same population. meanHz is the mean natural frequency in Hz;
// spread is the standard deviation of the angular frequency in rad/s.
func NewBank(n int, meanHz, spread, stagger, fadeIn float64, rng *rand.Rand) (*Bank, error) {
	if n <= 0 {
		return nil, ConfigError{Param: "n", Message: "oscillator count must be positive"}
	}
	if spread < 0 {
		return nil, ConfigError{Param: "omega_spread", Message: "frequency spread must be non-negative"}
	}
	if stagger < 0 {
		return nil, ConfigError{Param: "stagger_window", Message: "stagger window must be non-negative"}
	}

	omegas := make([]float64, n)
	for i := range omegas {
		omegas[i] = 2*math.Pi*meanHz + spread*rng.NormFloat64()
	}

	phases := make([]float64, n)
	for i := range phases {
		phases[i] = -math.Pi + 2*math.Pi*rng.Float64()
	}

	starts := make([]float64, n)
	for i := range starts {
		starts[i] = stagger * rng.Float64()
	}

	act, err := NewActivation(starts, fadeIn)
	if err != nil {
		return nil, err
	}

	return &Bank{N: n, Phases: phases, Omegas: omegas, act: act}, nil
}

func (b *Bank) Active(i int, t float64) bool  { return b.act.Active(i, t) }
func (b *Bank) Gain(i int, t float64) float64 { return b.act.Gain(i, t) }

// ActiveFlags returns the activation mask at time t.
func (b *Bank) ActiveFlags(t float64) []bool {
	flags := make([]bool, b.N)
	for i := range flags {
		flags[i] = b.act.Active(i, t)
	}
	return flags
}

// Snapshot returns a copy of the phase vector.
func (b *Bank) Snapshot() []float64 {
	s := make([]float64, b.N)
	copy(s, b.Phases)
	return s
}
