package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/kurasim/internal/sim"
)

type RunData struct {
	ID       string             `json:"id"`
	N        int                `json:"n"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Times    []float64          `json:"times"`
	R        []float64          `json:"r"`
	Psi      []float64          `json:"psi"`
	K        []float64          `json:"k"`
	Phases   [][]float64        `json:"phases"`
	Clusters [][]int            `json:"clusters"`
	Active   [][]bool           `json:"active"`
	Metrics  map[string]float64 `json:"metrics"`
}

func buildRunData(id string, n int, dt, duration float64, frames []sim.Frame, metrics map[string]float64) RunData {
	data := RunData{
		ID:       id,
		N:        n,
		Dt:       dt,
		Duration: duration,
		Steps:    len(frames),
		Times:    make([]float64, len(frames)),
		R:        make([]float64, len(frames)),
		Psi:      make([]float64, len(frames)),
		K:        make([]float64, len(frames)),
		Phases:   make([][]float64, len(frames)),
		Clusters: make([][]int, len(frames)),
		Active:   make([][]bool, len(frames)),
		Metrics:  metrics,
	}
	for i, f := range frames {
		data.Times[i] = f.T
		data.R[i] = f.R
		data.Psi[i] = f.Psi
		data.K[i] = f.K
		data.Phases[i] = f.Phases
		data.Clusters[i] = f.Clusters
		data.Active[i] = f.Active
	}
	return data
}

func writeJSON(w io.Writer, data RunData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func JSON(path, id string, n int, dt, duration float64, frames []sim.Frame, metrics map[string]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, buildRunData(id, n, dt, duration, frames, metrics))
}

func JSONStdout(id string, n int, dt, duration float64, frames []sim.Frame, metrics map[string]float64) error {
	return writeJSON(os.Stdout, buildRunData(id, n, dt, duration, frames, metrics))
}
