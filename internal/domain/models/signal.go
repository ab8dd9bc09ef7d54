package models

import "time"

// SignalType classifies the outcome of a PDM evaluation.
type SignalType string

const (
	SignalLong SignalType = "LONG"
	SignalHold SignalType = "HOLD"
)

// PDMSignal is the engine's primary output: one immutable evaluation of a
// symbol at a point in time. A later scan produces a new instance, never an
// update of an old one.
type PDMSignal struct {
	Symbol              string     `json:"symbol"`
	SignalType          SignalType `json:"signal_type"`
	Price               float64    `json:"price"`
	Timestamp           time.Time  `json:"timestamp"`
	Velocity            float64    `json:"velocity"`
	Curvature           float64    `json:"curvature"`
	VolumeSensitivity   float64    `json:"volume_sensitivity"`
	ATRHardStop         float64    `json:"atr_hard_stop"`
	ATRTrailingStop     float64    `json:"atr_trailing_stop"`
	ConfidenceScore     float64    `json:"confidence_score"`
	InstitutionalFactor float64    `json:"institutional_factor"`
}

// ScanReport is the result of a universe scan: ranked LONG signals plus
// bookkeeping about what was evaluated and what failed.
type ScanReport struct {
	Signals        []PDMSignal       `json:"signals"`
	UniverseSize   int               `json:"universe_size"`
	LiquidSymbols  int               `json:"liquid_symbols"`
	Evaluated      int               `json:"evaluated"`
	SymbolFailures map[string]string `json:"symbol_failures,omitempty"`
	ScannedAt      time.Time         `json:"scanned_at"`
}

// EvaluationStatus reports why a single-symbol evaluation produced no signal.
type EvaluationStatus string

const (
	EvaluationOK                  EvaluationStatus = "ok"
	EvaluationInsufficientHistory EvaluationStatus = "insufficient_history"
	EvaluationDataUnavailable     EvaluationStatus = "data_unavailable"
)

// EvaluationResult wraps a single-symbol evaluation so callers can render a
// "not enough data" state instead of handling an error.
type EvaluationResult struct {
	Symbol string           `json:"symbol"`
	Status EvaluationStatus `json:"status"`
	Signal *PDMSignal       `json:"signal,omitempty"`
}

// BacktestComparison compares a benchmark index return over a date range
// against the strategy. StrategyReturnPct is nil: trade simulation is not
// implemented, and the comparison reports only the benchmark side.
type BacktestComparison struct {
	BenchmarkSymbol    string    `json:"benchmark_symbol"`
	From               time.Time `json:"from"`
	To                 time.Time `json:"to"`
	BenchmarkReturnPct float64   `json:"benchmark_return_pct"`
	StrategyReturnPct  *float64  `json:"strategy_return_pct"`
	StrategySimulation string    `json:"strategy_simulation"`
	BarsUsed           int       `json:"bars_used"`
	FirstClose         float64   `json:"first_close"`
	LastClose          float64   `json:"last_close"`
}
