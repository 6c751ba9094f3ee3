package metrics

import "github.com/san-kum/kurasim/internal/sim"

// MeanOrder averages the order parameter over all observed frames.
type MeanOrder struct {
	sum     float64
	samples int
}

func NewMeanOrder() *MeanOrder { return &MeanOrder{} }

func (m *MeanOrder) Name() string { return "mean_order" }

func (m *MeanOrder) Observe(f sim.Frame) {
	m.sum += f.R
	m.samples++
}

func (m *MeanOrder) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanOrder) Reset() {
	m.sum = 0
	m.samples = 0
}

// LockTime records the first simulated time the order parameter reaches the
// threshold. Value is -1 if the run never locks.
type LockTime struct {
	threshold float64
	locked    bool
	t         float64
}

func NewLockTime(threshold float64) *LockTime {
	return &LockTime{threshold: threshold}
}

func (m *LockTime) Name() string { return "lock_time" }

func (m *LockTime) Observe(f sim.Frame) {
	if !m.locked && f.R >= m.threshold {
		m.locked = true
		m.t = f.T
	}
}

func (m *LockTime) Value() float64 {
	if !m.locked {
		return -1
	}
	return m.t
}

func (m *LockTime) Reset() {
	m.locked = false
	m.t = 0
}

// PeakClusters tracks the maximum number of simultaneous clusters.
type PeakClusters struct {
	max int
}

func NewPeakClusters() *PeakClusters { return &PeakClusters{} }

func (m *PeakClusters) Name() string { return "peak_clusters" }

func (m *PeakClusters) Observe(f sim.Frame) {
	if n := f.ClusterCount(); n > m.max {
		m.max = n
	}
}

func (m *PeakClusters) Value() float64 { return float64(m.max) }

func (m *PeakClusters) Reset() { m.max = 0 }

// FinalOrder keeps the order parameter of the last observed frame.
type FinalOrder struct {
	r float64
}

func NewFinalOrder() *FinalOrder { return &FinalOrder{} }

func (m *FinalOrder) Name() string { return "final_order" }

func (m *FinalOrder) Observe(f sim.Frame) { m.r = f.R }

func (m *FinalOrder) Value() float64 { return m.r }

func (m *FinalOrder) Reset() { m.r = 0 }

// Default returns the metric set attached to every stored run.
func Default() []sim.Metric {
	return []sim.Metric{
		NewMeanOrder(),
		NewLockTime(0.95),
		NewPeakClusters(),
		NewFinalOrder(),
	}
}
