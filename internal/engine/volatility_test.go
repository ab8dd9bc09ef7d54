package engine

import (
	"math"
	"testing"
	"time"

	"PDMScan/internal/domain/models"
)

func barsFrom(ohlcv [][4]float64) []models.Bar {
	out := make([]models.Bar, len(ohlcv))
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, r := range ohlcv {
		out[i] = models.Bar{
			Timestamp: day.AddDate(0, 0, i),
			High:      r[0],
			Low:       r[1],
			Close:     r[2],
			Volume:    r[3],
		}
	}
	return out
}

func TestTrueRange(t *testing.T) {
	bars := barsFrom([][4]float64{
		{105, 95, 100, 1000},
		{112, 104, 110, 1000}, // gap up: |high-prevClose|=12 dominates
		{111, 90, 95, 1000},   // high-low=21 dominates
	})
	got := TrueRange(bars)
	want := []float64{10, 12, 21}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("tr[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestATRNonNegative(t *testing.T) {
	rows := make([][4]float64, 40)
	for i := range rows {
		c := 100 + float64(i%7)
		rows[i] = [4]float64{c + 2, c - 2, c, 1000}
	}
	atr := ATR(barsFrom(rows), 14)
	for i := 13; i < len(atr); i++ {
		if atr[i] < 0 {
			t.Fatalf("atr[%d] = %v, must be >= 0", i, atr[i])
		}
	}
	for i := 0; i < 13; i++ {
		if !math.IsNaN(atr[i]) {
			t.Fatalf("atr[%d] should be undefined before a full period", i)
		}
	}
}

func TestStopLevels(t *testing.T) {
	hard, trailing := StopLevels(100, 5, 2.0, 3.0)
	if hard != 90 {
		t.Fatalf("hard stop = %v, want 90", hard)
	}
	if trailing != 85 {
		t.Fatalf("trailing stop = %v, want 85", trailing)
	}
}
