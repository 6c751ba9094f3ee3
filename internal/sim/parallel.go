package sim

import (
	"context"
	"sync"
)

// Ensemble runs the same configuration under a range of noise seeds in
// parallel. Each run gets its own Runner from the factory, so no simulation
// state is shared across goroutines.
type Ensemble struct {
	factory   func(seed int64) (*Runner, error)
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory func(seed int64) (*Runner, error), numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, duration float64) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			runner, err := e.factory(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = runner.Run(ctx, duration)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// MeanFinalOrder averages the final-frame order parameter across ensemble
// results, skipping empty runs.
func MeanFinalOrder(results []*Result) float64 {
	sum, count := 0.0, 0
	for _, res := range results {
		if res == nil || len(res.Frames) == 0 {
			continue
		}
		sum += res.Frames[len(res.Frames)-1].R
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
