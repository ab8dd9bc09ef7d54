package engine

import (
	"context"
	"fmt"
	"time"

	"PDMScan/internal/domain/models"
	domrepo "PDMScan/internal/domain/repository"
)

// strategySimulationNote explains the deliberately missing half of the
// comparison. Holding period, re-entry rules and transaction costs are
// undefined, so no trade simulation is attempted.
const strategySimulationNote = "not implemented: comparison reports the benchmark side only"

// BacktestRunner compares a benchmark index return over a date range against
// the strategy. Only the benchmark side is computed.
type BacktestRunner struct {
	provider  domrepo.BarProvider
	benchmark string
}

func NewBacktestRunner(provider domrepo.BarProvider, benchmark string) *BacktestRunner {
	return &BacktestRunner{provider: provider, benchmark: benchmark}
}

// Run fetches the benchmark series for [from, to] and computes
// (lastClose/firstClose - 1) * 100. An empty benchmark symbol falls back to
// the configured default.
func (r *BacktestRunner) Run(ctx context.Context, from, to time.Time, benchmark string) (*models.BacktestComparison, error) {
	if benchmark == "" {
		benchmark = r.benchmark
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("backtest range %s..%s: %w", from.Format("2006-01-02"), to.Format("2006-01-02"), ErrInvalidRange)
	}

	bars, err := r.provider.DailyBars(ctx, benchmark, from, to)
	if err != nil {
		return nil, wrapUnavailable(benchmark, err)
	}
	if len(bars) < 2 {
		return nil, fmt.Errorf("%s: %d bars in range: %w", benchmark, len(bars), ErrInsufficientHistory)
	}

	first := bars[0].Close
	last := bars[len(bars)-1].Close
	if first == 0 {
		return nil, fmt.Errorf("%s: zero first close: %w", benchmark, ErrComputation)
	}

	return &models.BacktestComparison{
		BenchmarkSymbol:    benchmark,
		From:               from,
		To:                 to,
		BenchmarkReturnPct: (last/first - 1) * 100,
		StrategyReturnPct:  nil,
		StrategySimulation: strategySimulationNote,
		BarsUsed:           len(bars),
		FirstClose:         first,
		LastClose:          last,
	}, nil
}
