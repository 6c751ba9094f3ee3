package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/kurasim/internal/cluster"
	"github.com/san-kum/kurasim/internal/kuramoto"
)

// Metric accumulates a scalar over the frame stream.
type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// Observer receives every frame as it is produced.
type Observer interface {
	OnFrame(f Frame)
}

type Config struct {
	Dt       float64
	Duration float64
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
}

// Runner owns the driving loop: integrate, derive the order parameter, update
// the cluster partition, emit a frame. Frames are produced strictly in time
// order; the detector's hysteresis state and the bank's phase vector are only
// ever touched from here.
type Runner struct {
	bank      *kuramoto.Bank
	integ     *kuramoto.Integrator
	coupling  kuramoto.CouplingSchedule
	detector  *cluster.Detector
	dt        float64
	t         float64
	step      int
	metrics   []Metric
	observers []Observer
}

func New(bank *kuramoto.Bank, integ *kuramoto.Integrator, coupling kuramoto.CouplingSchedule, detector *cluster.Detector, dt float64) (*Runner, error) {
	if dt <= 0 {
		return nil, kuramoto.ConfigError{Param: "dt", Message: "time step must be positive"}
	}
	return &Runner{
		bank:     bank,
		integ:    integ,
		coupling: coupling,
		detector: detector,
		dt:       dt,
	}, nil
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Bank exposes the oscillator bank for read-only consumers (renderers).
func (r *Runner) Bank() *kuramoto.Bank { return r.bank }

// Time returns the current simulated time.
func (r *Runner) Time() float64 { return r.t }

// Step advances the simulation by one outer time step and returns the frame
// record for the new state.
func (r *Runner) Step() (Frame, error) {
	k := r.coupling.K(r.t)
	if err := r.integ.Advance(r.bank, r.t, r.dt); err != nil {
		return Frame{}, err
	}
	r.t += r.dt
	r.step++

	active := r.bank.ActiveFlags(r.t)
	phases := r.bank.Snapshot()
	order, psi := kuramoto.Order(phases, active)
	clusters := r.detector.Update(phases, active)

	f := Frame{
		Step:     r.step,
		T:        r.t,
		Phases:   phases,
		R:        order,
		Psi:      psi,
		K:        k,
		Active:   active,
		Clusters: clusters,
	}

	for _, m := range r.metrics {
		m.Observe(f)
	}
	for _, obs := range r.observers {
		obs.OnFrame(f)
	}

	return f, nil
}

// Run produces frames until the configured duration is reached.
func (r *Runner) Run(ctx context.Context, duration float64) (*Result, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %f", duration)
	}

	steps := int(duration / r.dt)
	result := &Result{
		Frames:  make([]Frame, 0, steps),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		f, err := r.Step()
		if err != nil {
			return result, err
		}
		result.Frames = append(result.Frames, f)
		result.StepsTaken++
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback produces frames until duration, handing each to callback;
// a false return stops the run early.
func (r *Runner) RunWithCallback(ctx context.Context, duration float64, callback func(Frame) bool) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", duration)
	}

	for r.t < duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f, err := r.Step()
		if err != nil {
			return err
		}
		if !callback(f) {
			return nil
		}
	}

	return nil
}
