package kuramoto

import "fmt"

// ConfigError reports an invalid parameter detected at construction time.
type ConfigError struct {
	Param   string
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("kuramoto: %s: %s", e.Param, e.Message)
}

// StepError reports a non-finite phase produced during integration, usually
// an unstable dt/K combination.
type StepError struct {
	Step       int
	Oscillator int
	Time       float64
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): oscillator %d phase is not finite", e.Step, e.Time, e.Oscillator)
}
