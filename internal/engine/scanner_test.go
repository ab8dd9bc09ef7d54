package engine

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"PDMScan/internal/domain/models"
)

// fakeProvider serves canned bar series per symbol and fails on demand.
type fakeProvider struct {
	bars map[string][]models.Bar
	fail map[string]bool
}

func (p *fakeProvider) DailyBars(_ context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	if p.fail[symbol] {
		return nil, fmt.Errorf("provider down for %s", symbol)
	}
	out := make([]models.Bar, 0)
	for _, b := range p.bars[symbol] {
		if !b.Timestamp.Before(from) && !b.Timestamp.After(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (p *fakeProvider) RecentDailyBars(_ context.Context, symbol string, n int) ([]models.Bar, error) {
	if p.fail[symbol] {
		return nil, fmt.Errorf("provider down for %s", symbol)
	}
	bars := p.bars[symbol]
	if len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return bars, nil
}

// flatSeries builds n bars at a constant close and volume.
func flatSeries(n int, close, volume float64) []models.Bar {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{
			Timestamp: day.AddDate(0, 0, i),
			Open:      close,
			High:      close + 1,
			Low:       close - 1,
			Close:     close,
			Volume:    volume,
		}
	}
	return bars
}

func TestLiquidityFilterThreshold(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]models.Bar{
		"RICH": flatSeries(30, 100, 20_000), // 2,000,000 daily liquidity
		"POOR": flatSeries(30, 50, 10_000),  // 500,000 daily liquidity
	}}
	cfg := DefaultConfig()
	f := NewLiquidityFilter(provider, cfg, nil, nil)

	retained, failures := f.Filter(context.Background(), []string{"RICH", "POOR"})
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if !reflect.DeepEqual(retained, []string{"RICH"}) {
		t.Fatalf("retained = %v, want [RICH]", retained)
	}
}

func TestLiquidityFilterIsolatesFailures(t *testing.T) {
	provider := &fakeProvider{
		bars: map[string][]models.Bar{
			"A": flatSeries(30, 100, 50_000),
			"C": flatSeries(30, 100, 50_000),
		},
		fail: map[string]bool{"B": true},
	}
	f := NewLiquidityFilter(provider, DefaultConfig(), nil, nil)

	retained, failures := f.Filter(context.Background(), []string{"A", "B", "C"})
	if !reflect.DeepEqual(retained, []string{"A", "C"}) {
		t.Fatalf("retained = %v, want [A C]", retained)
	}
	if _, ok := failures["B"]; !ok {
		t.Fatalf("failure for B should be recorded, got %v", failures)
	}
}

func TestLiquidityFilterPreservesOrder(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]models.Bar{
		"Z": flatSeries(30, 100, 50_000),
		"M": flatSeries(30, 100, 50_000),
		"A": flatSeries(30, 100, 50_000),
	}}
	f := NewLiquidityFilter(provider, DefaultConfig(), nil, nil)

	retained, _ := f.Filter(context.Background(), []string{"Z", "M", "A"})
	if !reflect.DeepEqual(retained, []string{"Z", "M", "A"}) {
		t.Fatalf("retained = %v, order must be preserved", retained)
	}
}

func TestRankSignalsDescendingAndTruncated(t *testing.T) {
	signals := []models.PDMSignal{
		{Symbol: "A", ConfidenceScore: 0.9},
		{Symbol: "B", ConfidenceScore: 0.75},
		{Symbol: "C", ConfidenceScore: 0.72},
	}
	got := RankSignals(signals, 2)
	if len(got) != 2 || got[0].Symbol != "A" || got[1].Symbol != "B" {
		t.Fatalf("ranked = %+v, want [A B]", got)
	}
}

func TestRankSignalsStableTieBreak(t *testing.T) {
	signals := []models.PDMSignal{
		{Symbol: "FIRST", ConfidenceScore: 0.8},
		{Symbol: "SECOND", ConfidenceScore: 0.8},
		{Symbol: "TOP", ConfidenceScore: 0.9},
	}
	got := RankSignals(signals, 0)
	want := []string{"TOP", "FIRST", "SECOND"}
	for i, w := range want {
		if got[i].Symbol != w {
			t.Fatalf("ranked[%d] = %s, want %s", i, got[i].Symbol, w)
		}
	}
}

func TestScanIsolatesSymbolFailures(t *testing.T) {
	provider := &fakeProvider{
		bars: map[string][]models.Bar{
			"GOOD":  longSeries(),
			"OTHER": holdSeries(),
		},
		fail: map[string]bool{"BAD": true},
	}
	// Liquidity floor of 0 lets every reachable symbol through.
	cfg := DefaultConfig()
	cfg.MinDailyLiquidityUSD = 0

	s := NewUniverseScanner(provider, cfg, nil, nil)
	report, err := s.Scan(context.Background(), []string{"GOOD", "BAD", "OTHER"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if report.Evaluated != 2 {
		t.Fatalf("evaluated = %d, want 2", report.Evaluated)
	}
	if _, ok := report.SymbolFailures["BAD"]; !ok {
		t.Fatalf("failure for BAD should be recorded, got %v", report.SymbolFailures)
	}
	if len(report.Signals) != 1 || report.Signals[0].Symbol != "GOOD" {
		t.Fatalf("signals = %+v, want one LONG for GOOD", report.Signals)
	}
}

func TestScanEvalLimit(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]models.Bar{
		"A": holdSeries(),
		"B": holdSeries(),
		"C": holdSeries(),
	}}
	cfg := DefaultConfig()
	cfg.MinDailyLiquidityUSD = 0
	cfg.ScanEvalLimit = 2

	s := NewUniverseScanner(provider, cfg, nil, nil)
	report, err := s.Scan(context.Background(), []string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if report.Evaluated != 2 {
		t.Fatalf("evaluated = %d, want eval cap of 2", report.Evaluated)
	}
}

func TestScanIdempotent(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]models.Bar{
		"GOOD":  longSeries(),
		"OTHER": holdSeries(),
	}}
	cfg := DefaultConfig()
	cfg.MinDailyLiquidityUSD = 0

	s := NewUniverseScanner(provider, cfg, nil, nil)
	first, err := s.Scan(context.Background(), []string{"GOOD", "OTHER"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	second, err := s.Scan(context.Background(), []string{"GOOD", "OTHER"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !reflect.DeepEqual(first.Signals, second.Signals) {
		t.Fatalf("same snapshot produced different rankings:\n%+v\n%+v",
			first.Signals, second.Signals)
	}
}

func TestScanEmptyUniverse(t *testing.T) {
	provider := &fakeProvider{fail: map[string]bool{"A": true, "B": true}}
	s := NewUniverseScanner(provider, DefaultConfig(), nil, nil)

	report, err := s.Scan(context.Background(), []string{"A", "B"})
	if err != nil {
		t.Fatalf("total provider unavailability is a valid empty result, got %v", err)
	}
	if len(report.Signals) != 0 {
		t.Fatalf("signals = %+v, want none", report.Signals)
	}
}

func TestEvaluateSymbolInsufficientHistory(t *testing.T) {
	provider := &fakeProvider{bars: map[string][]models.Bar{
		"THIN": flatSeries(50, 100, 1000),
	}}
	s := NewUniverseScanner(provider, DefaultConfig(), nil, nil)

	_, err := s.EvaluateSymbol(context.Background(), "THIN")
	if ErrorKind(err) != "insufficient_history" {
		t.Fatalf("expected insufficient history, got %v", err)
	}
}
