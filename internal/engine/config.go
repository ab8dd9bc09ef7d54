package engine

import (
	"fmt"
	"time"
)

// Config holds the engine parameters. Fixed at construction; all multipliers
// and windows must be positive.
type Config struct {
	LookbackPeriodDays        int
	MinDailyLiquidityUSD      float64
	MaxPositions              int
	ATRHardStopMultiplier     float64
	ATRTrailingStopMultiplier float64
	ATRPeriod                 int
	InstitutionalVolumeWindow int
	CorrelationWindow         int
	TrendShortWindow          int
	TrendLongWindow           int
	LiquidityWindow           int

	// ScanEvalLimit caps how many liquidity-filtered symbols one scan
	// evaluates. 0 disables the cap.
	ScanEvalLimit        int
	MaxConcurrentFetches int
	SymbolTimeout        time.Duration
}

// DefaultConfig returns the canonical PDM parameters.
func DefaultConfig() Config {
	return Config{
		LookbackPeriodDays:        252,
		MinDailyLiquidityUSD:      1_000_000,
		MaxPositions:              25,
		ATRHardStopMultiplier:     2.0,
		ATRTrailingStopMultiplier: 3.0,
		ATRPeriod:                 14,
		InstitutionalVolumeWindow: 20,
		CorrelationWindow:         10,
		TrendShortWindow:          20,
		TrendLongWindow:           200,
		LiquidityWindow:           30,
		ScanEvalLimit:             10,
		MaxConcurrentFetches:      4,
		SymbolTimeout:             10 * time.Second,
	}
}

// Validate checks the construction invariants.
func (c Config) Validate() error {
	if c.ATRHardStopMultiplier <= 0 || c.ATRTrailingStopMultiplier <= 0 {
		return fmt.Errorf("stop multipliers must be positive")
	}
	for name, w := range map[string]int{
		"lookback period":             c.LookbackPeriodDays,
		"max positions":               c.MaxPositions,
		"atr period":                  c.ATRPeriod,
		"institutional volume window": c.InstitutionalVolumeWindow,
		"correlation window":          c.CorrelationWindow,
		"trend short window":          c.TrendShortWindow,
		"trend long window":           c.TrendLongWindow,
		"liquidity window":            c.LiquidityWindow,
	} {
		if w <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if c.MinDailyLiquidityUSD < 0 {
		return fmt.Errorf("minimum liquidity must not be negative")
	}
	return nil
}

// fetchBuffer is the extra history requested beyond the lookback period so
// front-anchored rolling windows are fully warmed up.
const fetchBuffer = 50

// HistoryBars is how many daily bars one evaluation fetches.
func (c Config) HistoryBars() int {
	return c.LookbackPeriodDays + fetchBuffer
}
