package kuramoto

import "math"

// CouplingSchedule produces the scalar global coupling strength K(t).
// Implementations must be monotonic non-decreasing in t.
type CouplingSchedule interface {
	K(t float64) float64
}

// ConstantCoupling holds K fixed for the whole run.
type ConstantCoupling struct {
	k float64
}

func NewConstantCoupling(k float64) (*ConstantCoupling, error) {
	if k < 0 {
		return nil, ConfigError{Param: "k", Message: "coupling strength must be non-negative"}
	}
	return &ConstantCoupling{k: k}, nil
}

func (c *ConstantCoupling) K(t float64) float64 { return c.k }

// RampCoupling eases K from kStart to kEnd over [tStart, tEnd] with a
// smoothstep, holding the endpoints outside the window. Used to keep the
// population desynchronized early and force a late lock.
type RampCoupling struct {
	kStart, kEnd float64
	tStart, tEnd float64
}

func NewRampCoupling(kStart, kEnd, tStart, tEnd float64) (*RampCoupling, error) {
	if kStart < 0 {
		return nil, ConfigError{Param: "k_start", Message: "coupling strength must be non-negative"}
	}
	if kEnd < kStart {
		return nil, ConfigError{Param: "k_end", Message: "ramp must be non-decreasing"}
	}
	if tEnd <= tStart {
		return nil, ConfigError{Param: "ramp", Message: "ramp window must have positive length"}
	}
	return &RampCoupling{kStart: kStart, kEnd: kEnd, tStart: tStart, tEnd: tEnd}, nil
}

func (r *RampCoupling) K(t float64) float64 {
	if t <= r.tStart {
		return r.kStart
	}
	z := (t - r.tStart) / (r.tEnd - r.tStart)
	return r.kStart + smoothstep(z)*(r.kEnd-r.kStart)
}

func smoothstep(z float64) float64 {
	z = math.Max(0, math.Min(1, z))
	return z * z * (3 - 2*z)
}

// Activation holds the per-oscillator staggered start times. Before its start
// time an oscillator neither advances phase nor participates in coupling.
// After activation its coupling gain fades from 0 to 1 over fadeIn seconds,
// so a freshly started metronome does not yank its neighbors.
type Activation struct {
	start  []float64
	fadeIn float64
}

func NewActivation(start []float64, fadeIn float64) (*Activation, error) {
	if fadeIn < 0 {
		return nil, ConfigError{Param: "fade_in", Message: "fade-in window must be non-negative"}
	}
	return &Activation{start: start, fadeIn: fadeIn}, nil
}

func (a *Activation) Active(i int, t float64) bool { return t >= a.start[i] }

// Gain returns the coupling gain for oscillator i at time t: 0 while
// inactive, ramping linearly to 1 over the fade-in window.
func (a *Activation) Gain(i int, t float64) float64 {
	dt := t - a.start[i]
	if dt < 0 {
		return 0
	}
	if a.fadeIn == 0 || dt >= a.fadeIn {
		return 1
	}
	return dt / a.fadeIn
}
