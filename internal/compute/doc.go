// Package compute provides backends for the O(N^2) coupling-sum kernel.
//
// The kernel is the dominant cost of every integration substep:
//
//	backend := compute.GetBackend()
//	sums := backend.CouplingSums(weights, theta, gain)
//
// The CPU backend parallelizes across rows for large populations. All
// backends read the phase vector at a fixed snapshot and return before any
// phase write happens, so the explicit update for each oscillator sees the
// same pre-step state.
package compute
