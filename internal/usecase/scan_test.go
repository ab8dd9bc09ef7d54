package usecase

import (
	"context"
	"testing"

	"PDMScan/internal/domain/models"
	"PDMScan/internal/engine"
)

func newScanUC(p *fakeProvider, universe []string) *ScanUseCase {
	cfg := engine.DefaultConfig()
	cfg.MinDailyLiquidityUSD = 1 // keep test series liquid
	scanner := engine.NewUniverseScanner(p, cfg, nil, nil)
	return NewScanUseCase(scanner, universe)
}

func TestScanUsesConfiguredUniverse(t *testing.T) {
	p := &fakeProvider{bars: map[string][]models.Bar{
		"A": steadySeries(260),
		"B": steadySeries(260),
	}}
	uc := newScanUC(p, []string{"A", "B"})

	report, err := uc.Scan(context.Background(), ScanParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.UniverseSize != 2 {
		t.Fatalf("expected universe size 2, got %d", report.UniverseSize)
	}
	if report.Evaluated != 2 {
		t.Fatalf("expected 2 evaluated, got %d", report.Evaluated)
	}
}

func TestScanSymbolOverride(t *testing.T) {
	p := &fakeProvider{bars: map[string][]models.Bar{
		"A": steadySeries(260),
		"C": steadySeries(260),
	}}
	uc := newScanUC(p, []string{"A"})

	report, err := uc.Scan(context.Background(), ScanParams{Symbols: []string{"C"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.UniverseSize != 1 {
		t.Fatalf("expected universe size 1, got %d", report.UniverseSize)
	}
}

func TestScanFailureIsolation(t *testing.T) {
	p := &fakeProvider{
		bars: map[string][]models.Bar{"GOOD": steadySeries(260)},
		fail: map[string]bool{"BAD": true},
	}
	uc := newScanUC(p, []string{"GOOD", "BAD"})

	report, err := uc.Scan(context.Background(), ScanParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Evaluated != 1 {
		t.Fatalf("expected 1 evaluated, got %d", report.Evaluated)
	}
	if _, ok := report.SymbolFailures["BAD"]; !ok {
		t.Fatalf("expected BAD in failures, got %v", report.SymbolFailures)
	}
}
