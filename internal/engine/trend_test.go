package engine

import (
	"math"
	"testing"
)

func TestRollingMean(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	got := RollingMean(xs, 3)
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Fatalf("warm-up entries should be undefined")
	}
	want := []float64{0, 0, 2, 3, 4}
	for i := 2; i < len(xs); i++ {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("mean[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRollingMeanWindowLargerThanSeries(t *testing.T) {
	got := RollingMean([]float64{1, 2}, 5)
	for i, v := range got {
		if !math.IsNaN(v) {
			t.Fatalf("mean[%d] should be undefined, got %v", i, v)
		}
	}
}

func TestTrendConfirmed(t *testing.T) {
	cases := []struct {
		name               string
		short, long, price float64
		want               bool
	}{
		{"confirmed", 110, 100, 115, true},
		{"short below long", 95, 100, 115, false},
		{"price below short", 110, 100, 105, false},
		{"undefined averages", math.NaN(), math.NaN(), 100, false},
	}
	for _, tc := range cases {
		if got := trendConfirmed(tc.short, tc.long, tc.price); got != tc.want {
			t.Fatalf("%s: trendConfirmed = %v, want %v", tc.name, got, tc.want)
		}
	}
}
