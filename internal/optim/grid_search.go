package optim

import (
	"context"
	"math"

	"github.com/san-kum/kurasim/internal/sim"
)

// RunFunc builds and runs a full simulation for one grid point. The params map
// holds the config overrides for that point (yaml names, numeric values).
type RunFunc func(ctx context.Context, params map[string]float64) (*sim.Result, error)

// GridSearch exhaustively evaluates a metric over the cartesian product of
// parameter value lists. Useful for mapping out the critical coupling: sweep
// k_end or lambda and find where the board stops locking.
type GridSearch struct {
	paramNames []string
	values     [][]float64
}

func NewGridSearch(params []string, values [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, values: values}
}

// Point is one evaluated grid point.
type Point struct {
	Params map[string]float64
	Score  float64
}

// Search evaluates every grid point and returns all points plus the one that
// minimizes the named metric. A metric value of -1 (never reached, as
// lock_time reports) counts as +Inf so non-locking runs never win.
func (g *GridSearch) Search(ctx context.Context, run RunFunc, metricName string) ([]Point, Point, error) {
	points := make([]Point, 0)
	best := Point{Score: math.Inf(1)}

	err := g.searchRecursive(ctx, 0, make(map[string]float64), run, metricName, &points, &best)
	return points, best, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	run RunFunc,
	metricName string,
	points *[]Point,
	best *Point,
) error {
	if depth == len(g.paramNames) {
		result, err := run(ctx, current)
		if err != nil {
			return err
		}

		val := result.Metrics[metricName]
		score := val
		if score < 0 {
			score = math.Inf(1)
		}

		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		p := Point{Params: params, Score: score}
		*points = append(*points, p)

		if score < best.Score {
			*best = p
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.values[depth] {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		current[name] = val
		if err := g.searchRecursive(ctx, depth+1, current, run, metricName, points, best); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}

// Linspace returns count evenly spaced values from min to max inclusive.
func Linspace(min, max float64, count int) []float64 {
	if count < 2 {
		return []float64{min}
	}
	step := (max - min) / float64(count-1)
	out := make([]float64, count)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	return out
}
