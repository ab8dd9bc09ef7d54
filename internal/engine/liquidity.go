package engine

import (
	"context"
	"time"

	domrepo "PDMScan/internal/domain/repository"
	applogger "PDMScan/pkg/logger"
)

// LiquidityFilter screens a symbol universe by trailing dollar-volume:
// mean(volume) * mean(close) over the liquidity window must reach the
// configured floor. Per-symbol provider failures exclude the symbol and are
// recorded; the filter never aborts on one symbol.
type LiquidityFilter struct {
	provider domrepo.BarProvider
	cfg      Config
	logger   *applogger.Logger
	metrics  domrepo.Metrics
}

func NewLiquidityFilter(provider domrepo.BarProvider, cfg Config, logger *applogger.Logger, metrics domrepo.Metrics) *LiquidityFilter {
	return &LiquidityFilter{provider: provider, cfg: cfg, logger: logger, metrics: metrics}
}

// Filter returns the retained symbols in input order plus a map of excluded
// symbols to failure reasons. Symbols below the liquidity floor are excluded
// silently (not a failure).
func (f *LiquidityFilter) Filter(ctx context.Context, symbols []string) ([]string, map[string]string) {
	retained := make([]string, 0, len(symbols))
	failures := make(map[string]string)

	for _, symbol := range symbols {
		liquidity, err := f.dailyLiquidity(ctx, symbol)
		if err != nil {
			failures[symbol] = err.Error()
			if f.logger != nil {
				f.logger.Warn("liquidity check failed",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			if f.metrics != nil {
				f.metrics.RecordSymbolError(ErrorKind(err))
			}
			continue
		}
		if liquidity >= f.cfg.MinDailyLiquidityUSD {
			retained = append(retained, symbol)
			if f.logger != nil {
				f.logger.Debug("symbol retained",
					applogger.String("symbol", symbol),
					applogger.Float64("daily_liquidity", liquidity),
				)
			}
		}
	}
	return retained, failures
}

func (f *LiquidityFilter) dailyLiquidity(ctx context.Context, symbol string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.SymbolTimeout)
	defer cancel()

	start := time.Now()
	bars, err := f.provider.RecentDailyBars(ctx, symbol, f.cfg.LiquidityWindow)
	if f.metrics != nil {
		f.metrics.RecordFetchLatency("liquidity_bars", time.Since(start).Seconds())
	}
	if err != nil {
		return 0, wrapUnavailable(symbol, err)
	}
	if len(bars) == 0 {
		return 0, wrapUnavailable(symbol, nil)
	}

	var sumVolume, sumClose float64
	for _, b := range bars {
		sumVolume += b.Volume
		sumClose += b.Close
	}
	n := float64(len(bars))
	return (sumVolume / n) * (sumClose / n), nil
}
