package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"PDMScan/internal/domain/models"
	"PDMScan/internal/engine"
)

func TestBacktestBenchmarkFallback(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []models.Bar{
		{Timestamp: day, Symbol: "^NSEI", Close: 100, Volume: 1},
		{Timestamp: day.AddDate(0, 0, 1), Symbol: "^NSEI", Close: 120, Volume: 1},
		{Timestamp: day.AddDate(0, 0, 2), Symbol: "^NSEI", Close: 145, Volume: 1},
	}
	p := &fakeProvider{bars: map[string][]models.Bar{"^NSEI": bars}}
	uc := NewBacktestUseCase(engine.NewBacktestRunner(p, "^NSEI"), "^NSEI")

	cmp, err := uc.Run(context.Background(), BacktestParams{
		From: day,
		To:   day.AddDate(0, 0, 2),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.BenchmarkSymbol != "^NSEI" {
		t.Fatalf("expected configured benchmark, got %s", cmp.BenchmarkSymbol)
	}
	if math.Abs(cmp.BenchmarkReturnPct-45.0) > 1e-9 {
		t.Fatalf("expected 45%% return, got %v", cmp.BenchmarkReturnPct)
	}
	if cmp.StrategyReturnPct != nil {
		t.Fatalf("strategy return must be nil")
	}
}

func TestBacktestValidation(t *testing.T) {
	p := &fakeProvider{}
	uc := NewBacktestUseCase(engine.NewBacktestRunner(p, "^NSEI"), "^NSEI")

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := uc.Run(context.Background(), BacktestParams{To: day}); err == nil {
		t.Fatalf("expected error for missing from")
	}
	if _, err := uc.Run(context.Background(), BacktestParams{From: day.AddDate(0, 0, 5), To: day}); err == nil {
		t.Fatalf("expected error for inverted range")
	}
	if _, err := uc.Run(context.Background(), BacktestParams{From: day, To: day}); err == nil {
		t.Fatalf("expected error for empty range")
	}
}
