package config

import "sort"

// Presets are complete run configurations. "lock25" reproduces the published
// 30-second run that reaches full lock near t=25s.
var Presets = map[string]*Config{
	"lock25": lock25(),
	"quick":  quick(),
	"uncoupled": func() *Config {
		c := DefaultConfig()
		c.KStart = 0
		c.KEnd = 0
		c.NoiseStd = 0
		c.Duration = 15.0
		return c
	}(),
	"tight": tight(),
}

func lock25() *Config {
	c := DefaultConfig()
	c.NormalizeRows = true
	return c
}

func quick() *Config {
	c := DefaultConfig()
	c.N = 24
	c.Rows = 2
	c.KStart = 0.4
	c.KEnd = 2.0
	c.RampStart = 1.0
	c.RampEnd = 6.0
	c.StaggerWindow = 2.0
	c.FadeIn = 0.5
	c.Duration = 10.0
	return c
}

func tight() *Config {
	c := DefaultConfig()
	c.N = 16
	c.Rows = 4
	c.Lambda = 800.0
	c.KStart = 3.0
	c.KEnd = 3.0
	c.OmegaSpread = 0.02
	c.StaggerWindow = 0
	c.NoiseStd = 0
	c.Duration = 12.0
	return c
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
