package engine

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"PDMScan/internal/domain/models"
)

// longSeries builds 220 bars engineered to satisfy every LONG condition:
// a steadily rising price with a final decelerating up-move, and volume whose
// fractional changes track price changes (correlation 1) while surging hard
// enough to clear the institutional threshold.
func longSeries() []models.Bar {
	const n = 220
	prices := make([]float64, n)
	for i := 0; i < 218; i++ {
		prices[i] = 100 + float64(i)
	}
	prices[218] = prices[217] + 5
	prices[219] = prices[218] + 2 // still rising, but slower: curvature < 0

	volumes := make([]float64, n)
	volumes[0] = 1_000_000
	for i := 1; i < n; i++ {
		r := prices[i]/prices[i-1] - 1
		volumes[i] = volumes[i-1] * (1 + 50*r)
	}

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{
			Timestamp: day.AddDate(0, 0, i),
			Symbol:    "LONGY",
			Open:      prices[i],
			High:      prices[i] + 1,
			Low:       prices[i] - 1,
			Close:     prices[i],
			Volume:    volumes[i],
		}
	}
	return bars
}

func holdSeries() []models.Bar {
	bars := longSeries()
	// Invert the trend: strictly falling closes kill positive velocity.
	for i := range bars {
		c := 500 - float64(i)
		bars[i].Open = c
		bars[i].High = c + 1
		bars[i].Low = c - 1
		bars[i].Close = c
	}
	return bars
}

func TestClassifyInsufficientHistory(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	_, err := c.Classify("SHORTY", longSeries()[:150])
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestClassifyLong(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	sig, err := c.Classify("LONGY", longSeries())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if sig.SignalType != models.SignalLong {
		t.Fatalf("signal type = %s, want LONG (confidence %v, factor %v)",
			sig.SignalType, sig.ConfidenceScore, sig.InstitutionalFactor)
	}
	if sig.ConfidenceScore <= 0.7 || sig.ConfidenceScore > 1 {
		t.Fatalf("confidence = %v, want in (0.7, 1]", sig.ConfidenceScore)
	}
	if sig.Velocity <= 0 {
		t.Fatalf("velocity = %v, want > 0", sig.Velocity)
	}
	if sig.Curvature >= 0 {
		t.Fatalf("curvature = %v, want < 0", sig.Curvature)
	}
	if sig.InstitutionalFactor <= 1.2 {
		t.Fatalf("institutional factor = %v, want > 1.2", sig.InstitutionalFactor)
	}
	if sig.ATRHardStop >= sig.Price || sig.ATRTrailingStop >= sig.ATRHardStop {
		t.Fatalf("stops out of order: price %v hard %v trailing %v",
			sig.Price, sig.ATRHardStop, sig.ATRTrailingStop)
	}
	if !sig.Timestamp.Equal(longSeries()[219].Timestamp) {
		t.Fatalf("timestamp should come from the latest bar")
	}
}

func TestClassifyHold(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	sig, err := c.Classify("DROPPY", holdSeries())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if sig.SignalType != models.SignalHold {
		t.Fatalf("signal type = %s, want HOLD", sig.SignalType)
	}
	// Risk levels are advisory and reported regardless of signal type.
	if sig.ATRHardStop >= sig.Price {
		t.Fatalf("hard stop %v should sit below price %v", sig.ATRHardStop, sig.Price)
	}
	if sig.ConfidenceScore < 0 || sig.ConfidenceScore > 1 {
		t.Fatalf("confidence = %v, want in [0, 1]", sig.ConfidenceScore)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	a, err := c.Classify("LONGY", longSeries())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	b, err := c.Classify("LONGY", longSeries())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical input produced different signals:\n%+v\n%+v", a, b)
	}
}
