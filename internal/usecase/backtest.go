package usecase

import (
	"context"
	"fmt"
	"time"

	"PDMScan/internal/domain/models"
	"PDMScan/internal/engine"
)

// BacktestUseCase provides business logic for benchmark comparisons.
type BacktestUseCase struct {
	runner    *engine.BacktestRunner
	benchmark string
}

func NewBacktestUseCase(runner *engine.BacktestRunner, benchmark string) *BacktestUseCase {
	return &BacktestUseCase{runner: runner, benchmark: benchmark}
}

type BacktestParams struct {
	From      time.Time
	To        time.Time
	Benchmark string // optional; falls back to the configured index
}

func (uc *BacktestUseCase) Run(ctx context.Context, p BacktestParams) (*models.BacktestComparison, error) {
	if p.From.IsZero() || p.To.IsZero() {
		return nil, fmt.Errorf("from and to required")
	}
	if !p.From.Before(p.To) {
		return nil, fmt.Errorf("from must be before to")
	}

	benchmark := p.Benchmark
	if benchmark == "" {
		benchmark = uc.benchmark
	}

	cmp, err := uc.runner.Run(ctx, p.From, p.To, benchmark)
	if err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}
	return cmp, nil
}
