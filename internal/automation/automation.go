package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/kurasim/internal/config"
	"github.com/san-kum/kurasim/internal/metrics"
	"github.com/san-kum/kurasim/internal/sim"
	"github.com/san-kum/kurasim/internal/storage"
)

// Scenario is a scripted batch of runs loaded from a YAML file. Each step
// starts from a preset (or the defaults) and applies numeric overrides.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

type ScenarioStep struct {
	Name   string             `yaml:"name"`
	Preset string             `yaml:"preset"`
	Params map[string]float64 `yaml:"params"`
	Save   bool               `yaml:"save"`
}

// BuildFunc assembles a runner from a validated config.
type BuildFunc func(cfg *config.Config) (*sim.Runner, error)

// StepResult pairs a scenario step with its run outcome.
type StepResult struct {
	Step    ScenarioStep
	RunID   string
	Metrics map[string]float64
	Frames  int
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// RunScenario executes every step in order. Steps marked save are written to
// the store; the others only report their metrics.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, build BuildFunc) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg := config.DefaultConfig()
		if step.Preset != "" {
			p := config.GetPreset(step.Preset)
			if p == nil {
				return results, fmt.Errorf("step %d (%s): unknown preset %q", i+1, step.Name, step.Preset)
			}
			c := *p
			cfg = &c
		}

		for name, val := range step.Params {
			if err := cfg.SetParam(name, val); err != nil {
				return results, fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
			}
		}
		if err := cfg.Validate(); err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
		}

		runner, err := build(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
		}
		for _, m := range metrics.Default() {
			runner.AddMetric(m)
		}

		result, err := runner.Run(ctx, cfg.Duration)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
		}

		sr := StepResult{
			Step:    step,
			Metrics: result.Metrics,
			Frames:  len(result.Frames),
		}

		if step.Save && store != nil {
			runID, err := store.Save(cfg.N, cfg.Dt, cfg.Duration, cfg.Seed, step.Name, result)
			if err != nil {
				return results, fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
			}
			sr.RunID = runID
		}

		results = append(results, sr)
	}

	return results, nil
}
