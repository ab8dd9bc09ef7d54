package engine

import "math"

// RollingMean computes the rolling arithmetic mean over the given window.
// Entries before a full window of history are NaN.
func RollingMean(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	if window <= 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	var sum float64
	for i := range xs {
		sum += xs[i]
		if i >= window {
			sum -= xs[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// trendConfirmed reports whether the short average sits above the long
// average and price sits above the short average. NaN averages (not enough
// history) never confirm.
func trendConfirmed(smaShort, smaLong, price float64) bool {
	return smaShort > smaLong && price > smaShort
}
