package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/kurasim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	N         int                `json:"n"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Preset    string             `json:"preset,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save persists a run as metadata.json plus frames.csv. Each CSV row holds
// time, r, psi, k followed by per-oscillator phase, cluster id and active
// flag columns.
func (s *Store) Save(n int, dt, duration float64, seed int64, preset string, result *sim.Result) (string, error) {
	// Nanosecond stamp: batch scenarios save several runs per second.
	runID := fmt.Sprintf("run_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Seed:      seed,
		N:         n,
		Dt:        dt,
		Duration:  duration,
		Preset:    preset,
		Metrics:   result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "frames.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.Frames) == 0 {
		return runID, nil
	}

	header := []string{"time", "r", "psi", "k"}
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("theta%d", i))
	}
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("cluster%d", i))
	}
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("active%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, f := range result.Frames {
		row := make([]string, 0, len(header))
		row = append(row,
			strconv.FormatFloat(f.T, 'f', 6, 64),
			strconv.FormatFloat(f.R, 'f', 6, 64),
			strconv.FormatFloat(f.Psi, 'f', 6, 64),
			strconv.FormatFloat(f.K, 'f', 6, 64),
		)
		for _, th := range f.Phases {
			row = append(row, strconv.FormatFloat(th, 'f', 6, 64))
		}
		for _, id := range f.Clusters {
			row = append(row, strconv.Itoa(id))
		}
		for _, a := range f.Active {
			if a {
				row = append(row, "1")
			} else {
				row = append(row, "0")
			}
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads frames.csv back into frame records. The oscillator count
// is recovered from the column layout.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	csvPath := filepath.Join(s.baseDir, runID, "frames.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	n := (len(records[0]) - 4) / 3
	if n <= 0 || len(records[0]) != 4+3*n {
		return nil, fmt.Errorf("frames.csv has a malformed header (%d columns)", len(records[0]))
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for step, record := range records[1:] {
		if len(record) != 4+3*n {
			continue
		}

		f := sim.Frame{
			Step:     step + 1,
			Phases:   make([]float64, n),
			Clusters: make([]int, n),
			Active:   make([]bool, n),
		}
		f.T, _ = strconv.ParseFloat(record[0], 64)
		f.R, _ = strconv.ParseFloat(record[1], 64)
		f.Psi, _ = strconv.ParseFloat(record[2], 64)
		f.K, _ = strconv.ParseFloat(record[3], 64)
		for i := 0; i < n; i++ {
			f.Phases[i], _ = strconv.ParseFloat(record[4+i], 64)
			f.Clusters[i], _ = strconv.Atoi(record[4+n+i])
			f.Active[i] = record[4+2*n+i] == "1"
		}
		frames = append(frames, f)
	}

	return frames, nil
}
