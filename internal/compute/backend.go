package compute

// Backend computes the weighted coupling sums that dominate every substep.
// CouplingSums must treat weights, theta and gain as a read-only snapshot:
// result[i] = sum_j weights[i][j] * gain[j] * sin(theta[j] - theta[i]).
// Rows with gain[i] == 0 may be skipped; their result is never consumed.
type Backend interface {
	Name() string
	Available() bool
	CouplingSums(weights [][]float64, theta, gain []float64) []float64
	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = NewCPUBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}
