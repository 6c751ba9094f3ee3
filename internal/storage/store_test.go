package storage

import (
	"math"
	"testing"

	"github.com/san-kum/kurasim/internal/sim"
)

func sampleResult(n, frames int) *sim.Result {
	result := &sim.Result{
		Metrics: map[string]float64{"mean_order": 0.62, "lock_time": 21.5},
	}
	for s := 1; s <= frames; s++ {
		f := sim.Frame{
			Step:     s,
			T:        float64(s) / 30.0,
			R:        0.2 + 0.01*float64(s),
			Psi:      -0.4,
			K:        0.18,
			Phases:   make([]float64, n),
			Clusters: make([]int, n),
			Active:   make([]bool, n),
		}
		for i := 0; i < n; i++ {
			f.Phases[i] = float64(i) * 0.1
			f.Clusters[i] = i % 2
			f.Active[i] = i != 0
		}
		result.Frames = append(result.Frames, f)
		result.StepsTaken++
	}
	return result
}

func TestStore_SaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	result := sampleResult(6, 10)
	runID, err := st.Save(6, 1.0/30.0, 30.0, 7, "lock25", result)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("Save returned empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if meta.N != 6 || meta.Seed != 7 || meta.Preset != "lock25" {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Metrics["lock_time"] != 21.5 {
		t.Errorf("metrics not persisted: %v", meta.Metrics)
	}
}

func TestStore_LoadFrames(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	result := sampleResult(6, 10)
	runID, err := st.Save(6, 1.0/30.0, 30.0, 7, "", result)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("LoadFrames failed: %v", err)
	}
	if len(frames) != 10 {
		t.Fatalf("expected 10 frames, got %d", len(frames))
	}

	for i, f := range frames {
		orig := result.Frames[i]
		if math.Abs(f.T-orig.T) > 1e-5 {
			t.Errorf("frame %d: t = %v, want %v", i, f.T, orig.T)
		}
		if math.Abs(f.R-orig.R) > 1e-5 {
			t.Errorf("frame %d: r = %v, want %v", i, f.R, orig.R)
		}
		if len(f.Phases) != 6 {
			t.Fatalf("frame %d: recovered %d oscillators, want 6", i, len(f.Phases))
		}
		for j := range f.Phases {
			if math.Abs(f.Phases[j]-orig.Phases[j]) > 1e-5 {
				t.Errorf("frame %d: phase[%d] = %v, want %v", i, j, f.Phases[j], orig.Phases[j])
			}
			if f.Clusters[j] != orig.Clusters[j] {
				t.Errorf("frame %d: cluster[%d] = %d, want %d", i, j, f.Clusters[j], orig.Clusters[j])
			}
			if f.Active[j] != orig.Active[j] {
				t.Errorf("frame %d: active[%d] = %v, want %v", i, j, f.Active[j], orig.Active[j])
			}
		}
	}
}

func TestStore_List(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("fresh store should list no runs, got %d", len(runs))
	}

	if _, err := st.Save(4, 1.0/30.0, 5.0, 1, "", sampleResult(4, 3)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStore_List_MissingDir(t *testing.T) {
	st := New("/nonexistent/kurasim-test")

	runs, err := st.List()
	if err != nil {
		t.Fatalf("List on missing dir should not fail, got %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStore_LoadUnknownRun(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("run_0"); err == nil {
		t.Error("expected error for unknown run")
	}
	if _, err := st.LoadFrames("run_0"); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestStore_EmptyResult(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	runID, err := st.Save(4, 1.0/30.0, 5.0, 1, "", &sim.Result{Metrics: map[string]float64{}})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("LoadFrames failed: %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("expected no frames, got %d", len(frames))
	}
}

func TestStore_SaveTwice_DistinctIDs(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	id1, err := st.Save(4, 1.0/30.0, 5.0, 1, "", sampleResult(4, 2))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	id2, err := st.Save(4, 1.0/30.0, 5.0, 2, "", sampleResult(4, 2))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if id1 == id2 {
		t.Errorf("consecutive saves share id %s", id1)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}
