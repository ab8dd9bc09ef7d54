package engine

import (
	"math"
	"testing"
)

func TestPctChange(t *testing.T) {
	got := PctChange([]float64{100, 110, 99})
	if !math.IsNaN(got[0]) {
		t.Fatalf("first pct change should be undefined")
	}
	if math.Abs(got[1]-0.1) > 1e-12 {
		t.Fatalf("pct[1] = %v, want 0.1", got[1])
	}
	if math.Abs(got[2]-(-0.1)) > 1e-12 {
		t.Fatalf("pct[2] = %v, want -0.1", got[2])
	}
}

func TestPctChangeZeroPrevious(t *testing.T) {
	got := PctChange([]float64{0, 5})
	if !math.IsNaN(got[1]) {
		t.Fatalf("pct over zero base should be undefined, got %v", got[1])
	}
}

func TestRollingCorrelationPerfect(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6}
	b := []float64{2, 4, 6, 8, 10, 12}
	got := RollingCorrelation(a, b, 3)
	for i := 2; i < len(a); i++ {
		if math.Abs(got[i]-1) > 1e-9 {
			t.Fatalf("corr[%d] = %v, want 1", i, got[i])
		}
	}
}

func TestRollingCorrelationZeroVariance(t *testing.T) {
	a := []float64{1, 1, 1, 1}
	b := []float64{2, 3, 4, 5}
	got := RollingCorrelation(a, b, 3)
	if !math.IsNaN(got[3]) {
		t.Fatalf("zero-variance correlation should be undefined, got %v", got[3])
	}
}

func TestInstitutionalFactorNonNegative(t *testing.T) {
	n := 60
	prices := make([]float64, n)
	volumes := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + 3*math.Sin(float64(i))
		volumes[i] = 1000 + 200*math.Cos(float64(i)*0.7)
	}
	factor := InstitutionalFactor(prices, volumes, 20, 10)
	for i, f := range factor {
		if f < 0 {
			t.Fatalf("factor[%d] = %v, must be >= 0", i, f)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Fatalf("factor[%d] = %v, must be sanitized", i, f)
		}
	}
}

func TestInstitutionalFactorUndefinedCorrelationIsZero(t *testing.T) {
	// Constant volume: zero variance in volume pct changes, so the
	// correlation is undefined everywhere and the factor collapses to 0.
	n := 40
	prices := make([]float64, n)
	volumes := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + float64(i)
		volumes[i] = 1000
	}
	factor := InstitutionalFactor(prices, volumes, 20, 10)
	for i, f := range factor {
		if f != 0 {
			t.Fatalf("factor[%d] = %v, want 0 for undefined correlation", i, f)
		}
	}
}
