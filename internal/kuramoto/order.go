package kuramoto

import "math"

// Order computes the global order parameter r and mean phase psi over the
// active oscillators: z = mean of e^{i*theta}, r = |z|, psi = arg(z).
// With no active oscillators both are reported as 0.
func Order(phases []float64, active []bool) (r, psi float64) {
	var re, im float64
	count := 0
	for i, th := range phases {
		if active != nil && !active[i] {
			continue
		}
		re += math.Cos(th)
		im += math.Sin(th)
		count++
	}
	if count == 0 {
		return 0, 0
	}
	re /= float64(count)
	im /= float64(count)
	return math.Hypot(re, im), math.Atan2(im, re)
}

// OrderSubset computes the order parameter restricted to the given member
// indices. Used for per-cluster coherence checks.
func OrderSubset(phases []float64, members []int) (r, psi float64) {
	if len(members) == 0 {
		return 0, 0
	}
	var re, im float64
	for _, i := range members {
		re += math.Cos(phases[i])
		im += math.Sin(phases[i])
	}
	re /= float64(len(members))
	im /= float64(len(members))
	return math.Hypot(re, im), math.Atan2(im, re)
}

// WrapAngle reduces an angle difference to (-pi, pi].
func WrapAngle(d float64) float64 {
	d = math.Mod(d, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
