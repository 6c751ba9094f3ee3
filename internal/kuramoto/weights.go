package kuramoto

import "math"

// Weights is the precomputed N x N coupling weight matrix. Entries decay
// exponentially with pairwise distance over the length scale lambda; the
// diagonal is zero (no self-coupling). Immutable after construction.
type Weights struct {
	N int
	W [][]float64
}

// NewWeights builds the weight matrix from the layout positions. With
// normalizeRows set, each row is scaled to sum to 1, trading symmetry for the
// per-oscillator input normalization used by the row-normalized variant.
func NewWeights(layout *GridLayout, lambda float64, normalizeRows bool) (*Weights, error) {
	if lambda <= 0 {
		return nil, ConfigError{Param: "lambda", Message: "coupling length scale must be positive"}
	}

	n := layout.N
	w := make([][]float64, n)
	for i := range w {
		w[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			w[i][j] = math.Exp(-layout.Distance(i, j) / lambda)
		}
	}

	if normalizeRows {
		for i := range w {
			sum := 0.0
			for _, v := range w[i] {
				sum += v
			}
			if sum == 0 {
				continue
			}
			for j := range w[i] {
				w[i][j] /= sum
			}
		}
	}

	return &Weights{N: n, W: w}, nil
}

// At returns the coupling weight between oscillators i and j.
func (w *Weights) At(i, j int) float64 { return w.W[i][j] }
