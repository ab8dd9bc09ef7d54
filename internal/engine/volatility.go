package engine

import (
	"math"

	"PDMScan/internal/domain/models"
)

// TrueRange computes per-bar true range:
// max(high-low, |high-prevClose|, |low-prevClose|). The first bar has no
// previous close, so its true range is just high-low.
func TrueRange(bars []models.Bar) []float64 {
	out := make([]float64, len(bars))
	for t, b := range bars {
		tr := b.High - b.Low
		if t > 0 {
			prev := bars[t-1].Close
			tr = math.Max(tr, math.Abs(b.High-prev))
			tr = math.Max(tr, math.Abs(b.Low-prev))
		}
		out[t] = tr
	}
	return out
}

// ATR computes the Average True Range as a rolling mean of true range over
// the given period. NaN until a full period of history is available.
func ATR(bars []models.Bar, period int) []float64 {
	return RollingMean(TrueRange(bars), period)
}

// StopLevels derives volatility-scaled stop levels from the latest close and
// latest ATR.
func StopLevels(close, atr, hardMult, trailingMult float64) (hardStop, trailingStop float64) {
	return close - atr*hardMult, close - atr*trailingMult
}
