package compute

import (
	"math"
	"runtime"
	"sync"
)

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) CouplingSums(weights [][]float64, theta, gain []float64) []float64 {
	n := len(theta)
	result := make([]float64, n)

	if n < 64 || c.workers < 2 {
		couplingRows(weights, theta, gain, result, 0, n)
		return result
	}

	// Workers own disjoint output rows and only read the shared snapshot,
	// so every oscillator sees the same pre-step phase vector. The WaitGroup
	// is the write barrier.
	var wg sync.WaitGroup
	chunkSize := (n + c.workers - 1) / c.workers

	for w := 0; w < c.workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			couplingRows(weights, theta, gain, result, start, end)
		}(start, end)
	}

	wg.Wait()
	return result
}

func couplingRows(weights [][]float64, theta, gain, result []float64, start, end int) {
	for i := start; i < end; i++ {
		if gain[i] == 0 {
			continue
		}
		wi := weights[i]
		ti := theta[i]
		sum := 0.0
		for j, g := range gain {
			if g == 0 {
				continue
			}
			sum += wi[j] * g * math.Sin(theta[j]-ti)
		}
		result[i] = sum
	}
}
