package cluster

import (
	"math"
	"sort"

	"github.com/san-kum/kurasim/internal/kuramoto"
)

// Unassigned is the reserved cluster id for oscillators that belong to no
// synchronized group.
const Unassigned = -1

type Config struct {
	NeighborRadius float64 // spatial edge cutoff, board pixels
	PhaseThreshold float64 // max |wrapped phase difference| along an edge, radians
	MinSize        int     // components smaller than this dissolve
	CoherenceMin   float64 // min local order parameter for a surviving component
	OverlapMin     float64 // min Jaccard overlap to inherit a previous id
}

// Detector partitions active oscillators into spatially-near, phase-aligned
// groups and labels them with ids that are stable across frames: a component
// inherits the id of the previous cluster it overlaps best, and ids are never
// reused within a run.
type Detector struct {
	cfg    Config
	n      int
	pairs  [][2]int
	prev   []int
	nextID int
}

func NewDetector(layout *kuramoto.GridLayout, cfg Config) (*Detector, error) {
	if cfg.NeighborRadius <= 0 {
		return nil, kuramoto.ConfigError{Param: "neighbor_radius", Message: "neighbor radius must be positive"}
	}
	if cfg.PhaseThreshold <= 0 {
		return nil, kuramoto.ConfigError{Param: "phase_threshold", Message: "phase threshold must be positive"}
	}
	if cfg.MinSize < 1 {
		return nil, kuramoto.ConfigError{Param: "min_size", Message: "minimum cluster size must be at least 1"}
	}
	if cfg.CoherenceMin < 0 || cfg.CoherenceMin > 1 {
		return nil, kuramoto.ConfigError{Param: "coherence_min", Message: "coherence threshold must be in [0,1]"}
	}
	if cfg.OverlapMin < 0 || cfg.OverlapMin > 1 {
		return nil, kuramoto.ConfigError{Param: "overlap_min", Message: "overlap threshold must be in [0,1]"}
	}

	d := &Detector{cfg: cfg, n: layout.N}

	// Positions are fixed for the whole run, so the spatial-neighbor graph is
	// built once.
	for i := 0; i < layout.N; i++ {
		for j := i + 1; j < layout.N; j++ {
			if layout.Distance(i, j) < cfg.NeighborRadius {
				d.pairs = append(d.pairs, [2]int{i, j})
			}
		}
	}

	d.prev = make([]int, layout.N)
	for i := range d.prev {
		d.prev[i] = Unassigned
	}

	return d, nil
}

// Update computes the cluster partition for the current frame and retains it
// as the hysteresis reference for the next call. The returned slice maps
// oscillator index to cluster id, Unassigned for unclustered oscillators.
func (d *Detector) Update(phases []float64, active []bool) []int {
	uf := newUnionFind(d.n)
	for _, p := range d.pairs {
		i, j := p[0], p[1]
		if !active[i] || !active[j] {
			continue
		}
		if math.Abs(kuramoto.WrapAngle(phases[i]-phases[j])) < d.cfg.PhaseThreshold {
			uf.union(i, j)
		}
	}

	// Connected components over the active set, members in index order.
	comps := make(map[int][]int)
	roots := make([]int, 0)
	for i := 0; i < d.n; i++ {
		if !active[i] {
			continue
		}
		r := uf.find(i)
		if _, ok := comps[r]; !ok {
			roots = append(roots, r)
		}
		comps[r] = append(comps[r], i)
	}

	surviving := make([][]int, 0, len(roots))
	for _, r := range roots {
		m := comps[r]
		if len(m) < d.cfg.MinSize {
			continue
		}
		if rc, _ := kuramoto.OrderSubset(phases, m); rc < d.cfg.CoherenceMin {
			continue
		}
		surviving = append(surviving, m)
	}

	labels := d.label(surviving)

	result := make([]int, d.n)
	for i := range result {
		result[i] = Unassigned
	}
	for ci, m := range surviving {
		for _, i := range m {
			result[i] = labels[ci]
		}
	}

	d.prev = append([]int(nil), result...)
	return result
}

// label matches surviving components to previous cluster ids by Jaccard
// overlap, best matches first. On a split the larger-overlap component
// inherits the id; on a merge the larger-overlap previous id wins. Unmatched
// components mint fresh ids from a monotonic counter.
func (d *Detector) label(surviving [][]int) []int {
	prevSets := make(map[int][]int)
	for i, id := range d.prev {
		if id != Unassigned {
			prevSets[id] = append(prevSets[id], i)
		}
	}

	type candidate struct {
		comp    int
		id      int
		overlap float64
	}
	var cands []candidate
	for ci, m := range surviving {
		for id, pm := range prevSets {
			if ov := jaccard(m, pm); ov >= d.cfg.OverlapMin {
				cands = append(cands, candidate{comp: ci, id: id, overlap: ov})
			}
		}
	}
	sort.Slice(cands, func(a, b int) bool {
		if cands[a].overlap != cands[b].overlap {
			return cands[a].overlap > cands[b].overlap
		}
		if cands[a].id != cands[b].id {
			return cands[a].id < cands[b].id
		}
		return cands[a].comp < cands[b].comp
	})

	labels := make([]int, len(surviving))
	for i := range labels {
		labels[i] = Unassigned
	}
	used := make(map[int]bool)
	for _, c := range cands {
		if labels[c.comp] != Unassigned || used[c.id] {
			continue
		}
		labels[c.comp] = c.id
		used[c.id] = true
	}
	for i := range labels {
		if labels[i] == Unassigned {
			labels[i] = d.nextID
			d.nextID++
		}
	}
	return labels
}

// jaccard computes |a ∩ b| / |a ∪ b| for two ascending index slices.
func jaccard(a, b []int) float64 {
	inter := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			inter++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
