package engine

import "math"

// Discrete derivatives of price and volume series. The unit time step is one
// bar; entries with no prior point(s) to differentiate against are NaN,
// mirroring how downstream rolling statistics treat warm-up values.

const volumeDeltaEpsilon = 1e-10

// Velocity computes the first discrete derivative of price:
// velocity[t] = price[t] - price[t-1]. velocity[0] is NaN.
func Velocity(prices []float64) []float64 {
	out := make([]float64, len(prices))
	if len(out) == 0 {
		return out
	}
	out[0] = math.NaN()
	for t := 1; t < len(prices); t++ {
		out[t] = prices[t] - prices[t-1]
	}
	return out
}

// Curvature computes the second discrete derivative of price:
// curvature[t] = velocity[t] - velocity[t-1]. The first two entries are NaN.
func Curvature(prices []float64) []float64 {
	vel := Velocity(prices)
	out := make([]float64, len(vel))
	if len(out) == 0 {
		return out
	}
	out[0] = math.NaN()
	for t := 1; t < len(vel); t++ {
		out[t] = vel[t] - vel[t-1]
	}
	return out
}

// VolumeSensitivity computes price responsiveness to volume changes:
// (price[t]-price[t-1]) / (volume[t]-volume[t-1] + ε). A zero volume delta is
// guarded by ε and any ±Inf is sanitized to 0, never surfaced as an error.
func VolumeSensitivity(prices, volumes []float64) []float64 {
	n := len(prices)
	if len(volumes) < n {
		n = len(volumes)
	}
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	out[0] = math.NaN()
	for t := 1; t < n; t++ {
		v := (prices[t] - prices[t-1]) / (volumes[t] - volumes[t-1] + volumeDeltaEpsilon)
		if math.IsInf(v, 0) {
			v = 0
		}
		out[t] = v
	}
	return out
}
