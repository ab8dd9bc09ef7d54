package engine

import (
	"math"
	"testing"
)

func TestVelocity(t *testing.T) {
	prices := []float64{100, 101, 103, 102, 105}
	got := Velocity(prices)
	if !math.IsNaN(got[0]) {
		t.Fatalf("velocity[0] should be undefined, got %v", got[0])
	}
	want := []float64{0, 1, 2, -1, 3}
	for i := 1; i < len(want); i++ {
		if got[i] != want[i] {
			t.Fatalf("velocity[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCurvature(t *testing.T) {
	prices := []float64{100, 101, 103, 102, 105}
	got := Curvature(prices)
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Fatalf("curvature[0..1] should be undefined, got %v %v", got[0], got[1])
	}
	want := []float64{0, 0, 1, -3, 4}
	for i := 2; i < len(want); i++ {
		if got[i] != want[i] {
			t.Fatalf("curvature[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestVolumeSensitivityNeverInfinite(t *testing.T) {
	prices := []float64{100, 105, 110, 108}
	volumes := []float64{1000, 1000, 1000, 1000} // zero volume deltas throughout
	got := VolumeSensitivity(prices, volumes)
	for i, v := range got {
		if math.IsInf(v, 0) {
			t.Fatalf("sensitivity[%d] is infinite", i)
		}
	}
	// With eps guarding the zero delta the ratio is enormous but finite;
	// a true overflow would have been sanitized to 0.
	if math.IsNaN(got[1]) {
		t.Fatalf("sensitivity[1] should be defined")
	}
}

func TestVolumeSensitivityDefinedValues(t *testing.T) {
	prices := []float64{100, 102}
	volumes := []float64{1000, 3000}
	got := VolumeSensitivity(prices, volumes)
	want := 2.0 / (2000 + volumeDeltaEpsilon)
	if math.Abs(got[1]-want) > 1e-15 {
		t.Fatalf("sensitivity[1] = %v, want %v", got[1], want)
	}
}

func TestDerivativesEmptyInput(t *testing.T) {
	if got := Velocity(nil); len(got) != 0 {
		t.Fatalf("expected empty velocity, got %v", got)
	}
	if got := Curvature([]float64{100}); !math.IsNaN(got[0]) {
		t.Fatalf("single-point curvature should be undefined")
	}
}
