package sim

// Frame is the per-step output record and the sole boundary between the
// simulation core and rendering/export collaborators.
type Frame struct {
	Step     int
	T        float64
	Phases   []float64 // unwrapped phase snapshot
	R        float64   // global order parameter
	Psi      float64   // mean phase
	K        float64   // coupling strength used for this step
	Active   []bool
	Clusters []int // cluster id per oscillator, cluster.Unassigned if none
}

// ClusterCount returns the number of distinct cluster ids in the frame.
func (f Frame) ClusterCount() int {
	seen := make(map[int]struct{})
	for _, id := range f.Clusters {
		if id >= 0 {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}

// ActiveCount returns the number of active oscillators in the frame.
func (f Frame) ActiveCount() int {
	n := 0
	for _, a := range f.Active {
		if a {
			n++
		}
	}
	return n
}
