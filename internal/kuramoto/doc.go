// Package kuramoto implements a spatially-coupled Kuramoto model of
// mechanical metronomes: a fixed grid of phase oscillators with
// distance-decaying coupling weights, staggered starts, a time-ramped global
// coupling strength and a small phase-diffusion noise term.
//
// Phases are stored unwrapped; reduction mod 2*pi happens only where angles
// are compared or displayed.
package kuramoto
