package engine

import "math"

// PctChange computes per-step fractional change. The first entry is NaN, as
// is any step whose previous value is zero.
func PctChange(xs []float64) []float64 {
	out := make([]float64, len(xs))
	if len(out) == 0 {
		return out
	}
	out[0] = math.NaN()
	for t := 1; t < len(xs); t++ {
		if xs[t-1] == 0 {
			out[t] = math.NaN()
			continue
		}
		out[t] = xs[t]/xs[t-1] - 1
	}
	return out
}

// RollingCorrelation computes the rolling Pearson correlation of two series
// over the given window. Entries are NaN until a full window is available, if
// any input in the window is non-finite, or if either series has zero
// variance in the window.
func RollingCorrelation(a, b []float64, window int) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 1 {
		return out
	}
	for t := window - 1; t < n; t++ {
		out[t] = pearson(a[t-window+1:t+1], b[t-window+1:t+1])
	}
	return out
}

func pearson(a, b []float64) float64 {
	n := float64(len(a))
	var sumA, sumB float64
	for i := range a {
		if !isFinite(a[i]) || !isFinite(b[i]) {
			return math.NaN()
		}
		sumA += a[i]
		sumB += b[i]
	}
	meanA, meanB := sumA/n, sumB/n
	var cov, varA, varB float64
	for i := range a {
		da, db := a[i]-meanA, b[i]-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varA*varB)
}

// InstitutionalFactor combines the volume-surge ratio against its rolling
// mean with the rolling price/volume correlation of fractional changes:
// factor[t] = (volume[t]/volumeMA[t]) * |corr[t]|. Undefined correlation
// counts as 0 and any non-finite factor is sanitized to 0, so the factor is
// always >= 0.
func InstitutionalFactor(prices, volumes []float64, volumeWindow, correlationWindow int) []float64 {
	volumeMA := RollingMean(volumes, volumeWindow)
	corr := RollingCorrelation(PctChange(prices), PctChange(volumes), correlationWindow)

	n := len(volumes)
	out := make([]float64, n)
	for t := 0; t < n; t++ {
		c := 0.0
		if t < len(corr) && isFinite(corr[t]) {
			c = math.Abs(corr[t])
		}
		f := volumes[t] / volumeMA[t] * c
		if !isFinite(f) || f < 0 {
			f = 0
		}
		out[t] = f
	}
	return out
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
