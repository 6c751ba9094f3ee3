// Package cluster detects locally-synchronized groups of oscillators for
// visualization. Detection runs per frame: spatial-neighbor edges filtered by
// phase alignment, union-find components, size and coherence filters, then
// hysteresis labeling against the previous frame so cluster colors do not
// flicker.
package cluster
