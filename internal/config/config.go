package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/kurasim/internal/kuramoto"
)

const (
	DefaultN           = 90
	DefaultRows        = 3
	DefaultLambda      = 160.0
	DefaultKStart      = 0.18
	DefaultKEnd        = 1.60
	DefaultRampStart   = 5.0
	DefaultRampEnd     = 25.0
	DefaultOmegaMeanHz = 1.1
	DefaultOmegaSpread = 0.10
	DefaultStagger     = 10.0
	DefaultFadeIn      = 2.5
	DefaultNoiseStd    = 0.02
	DefaultDuration    = 30.0
	DefaultDt          = 1.0 / 30.0
	DefaultSubsteps    = 4
	DefaultSeed        = 7
)

type Config struct {
	N             int     `yaml:"n"`
	Rows          int     `yaml:"rows"`
	Lambda        float64 `yaml:"lambda"`
	KStart        float64 `yaml:"k_start"`
	KEnd          float64 `yaml:"k_end"`
	RampStart     float64 `yaml:"ramp_start"`
	RampEnd       float64 `yaml:"ramp_end"`
	OmegaMeanHz   float64 `yaml:"omega_mean_hz"`
	OmegaSpread   float64 `yaml:"omega_spread"`
	StaggerWindow float64 `yaml:"stagger_window"`
	FadeIn        float64 `yaml:"fade_in"`
	NoiseStd      float64 `yaml:"noise_std"`
	Duration      float64 `yaml:"duration"`
	Dt            float64 `yaml:"dt"`
	Substeps      int     `yaml:"substeps"`
	Seed          int64   `yaml:"seed"`
	NormalizeRows bool    `yaml:"normalize_rows"`

	Cluster ClusterConfig `yaml:"cluster"`
}

type ClusterConfig struct {
	NeighborRadius float64 `yaml:"neighbor_radius"`
	PhaseThreshold float64 `yaml:"phase_threshold"`
	MinSize        int     `yaml:"min_size"`
	CoherenceMin   float64 `yaml:"coherence_min"`
	OverlapMin     float64 `yaml:"overlap_min"`
}

func DefaultConfig() *Config {
	return &Config{
		N:             DefaultN,
		Rows:          DefaultRows,
		Lambda:        DefaultLambda,
		KStart:        DefaultKStart,
		KEnd:          DefaultKEnd,
		RampStart:     DefaultRampStart,
		RampEnd:       DefaultRampEnd,
		OmegaMeanHz:   DefaultOmegaMeanHz,
		OmegaSpread:   DefaultOmegaSpread,
		StaggerWindow: DefaultStagger,
		FadeIn:        DefaultFadeIn,
		NoiseStd:      DefaultNoiseStd,
		Duration:      DefaultDuration,
		Dt:            DefaultDt,
		Substeps:      DefaultSubsteps,
		Seed:          DefaultSeed,
		Cluster: ClusterConfig{
			NeighborRadius: 170.0,
			PhaseThreshold: 0.5,
			MinSize:        3,
			CoherenceMin:   0.9,
			OverlapMin:     0.5,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SetParam sets a numeric parameter by its yaml name. Batch scenarios and
// parameter sweeps use this to override fields without knowing the struct.
func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "n":
		c.N = int(value)
	case "rows":
		c.Rows = int(value)
	case "lambda":
		c.Lambda = value
	case "k_start":
		c.KStart = value
	case "k_end":
		c.KEnd = value
	case "ramp_start":
		c.RampStart = value
	case "ramp_end":
		c.RampEnd = value
	case "omega_mean_hz":
		c.OmegaMeanHz = value
	case "omega_spread":
		c.OmegaSpread = value
	case "stagger_window":
		c.StaggerWindow = value
	case "fade_in":
		c.FadeIn = value
	case "noise_std":
		c.NoiseStd = value
	case "duration":
		c.Duration = value
	case "dt":
		c.Dt = value
	case "substeps":
		c.Substeps = int(value)
	case "seed":
		c.Seed = int64(value)
	default:
		return kuramoto.ConfigError{Param: name, Message: "unknown parameter"}
	}
	return nil
}

// Validate rejects parameter values the construction-time contracts would
// refuse, so bad runs fail before any state is allocated.
func (c *Config) Validate() error {
	switch {
	case c.N <= 0:
		return kuramoto.ConfigError{Param: "n", Message: "oscillator count must be positive"}
	case c.Rows <= 0:
		return kuramoto.ConfigError{Param: "rows", Message: "row count must be positive"}
	case c.Lambda <= 0:
		return kuramoto.ConfigError{Param: "lambda", Message: "coupling length scale must be positive"}
	case c.KStart < 0:
		return kuramoto.ConfigError{Param: "k_start", Message: "coupling strength must be non-negative"}
	case c.KEnd < c.KStart:
		return kuramoto.ConfigError{Param: "k_end", Message: "coupling ramp must be non-decreasing"}
	case c.KStart != c.KEnd && c.RampEnd <= c.RampStart:
		return kuramoto.ConfigError{Param: "ramp_end", Message: "ramp window must have positive length"}
	case c.OmegaSpread < 0:
		return kuramoto.ConfigError{Param: "omega_spread", Message: "frequency spread must be non-negative"}
	case c.StaggerWindow < 0:
		return kuramoto.ConfigError{Param: "stagger_window", Message: "stagger window must be non-negative"}
	case c.FadeIn < 0:
		return kuramoto.ConfigError{Param: "fade_in", Message: "fade-in window must be non-negative"}
	case c.NoiseStd < 0:
		return kuramoto.ConfigError{Param: "noise_std", Message: "noise level must be non-negative"}
	case c.Duration <= 0:
		return kuramoto.ConfigError{Param: "duration", Message: "duration must be positive"}
	case c.Dt <= 0:
		return kuramoto.ConfigError{Param: "dt", Message: "time step must be positive"}
	case c.Substeps < 1:
		return kuramoto.ConfigError{Param: "substeps", Message: "substep count must be at least 1"}
	case c.Cluster.NeighborRadius <= 0:
		return kuramoto.ConfigError{Param: "cluster.neighbor_radius", Message: "neighbor radius must be positive"}
	case c.Cluster.PhaseThreshold <= 0:
		return kuramoto.ConfigError{Param: "cluster.phase_threshold", Message: "phase threshold must be positive"}
	case c.Cluster.MinSize < 1:
		return kuramoto.ConfigError{Param: "cluster.min_size", Message: "minimum cluster size must be at least 1"}
	case c.Cluster.CoherenceMin < 0 || c.Cluster.CoherenceMin > 1:
		return kuramoto.ConfigError{Param: "cluster.coherence_min", Message: "coherence threshold must be in [0,1]"}
	case c.Cluster.OverlapMin < 0 || c.Cluster.OverlapMin > 1:
		return kuramoto.ConfigError{Param: "cluster.overlap_min", Message: "overlap threshold must be in [0,1]"}
	}
	return nil
}
