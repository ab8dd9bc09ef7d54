package engine

import (
	"errors"
	"fmt"
)

// Error taxonomy for per-symbol evaluation. Batch operations catch these at
// the symbol boundary and continue; they never abort sibling symbols.
var (
	// ErrInsufficientHistory: fewer bars than a statistic requires.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrDataUnavailable: the provider returned empty or failed for a symbol.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrComputation: an unexpected numeric fault not otherwise sanitized.
	ErrComputation = errors.New("computation error")
	// ErrInvalidRange: a caller-supplied range that cannot be evaluated,
	// e.g. a backtest window whose start is not before its end.
	ErrInvalidRange = errors.New("invalid range")
)

func wrapUnavailable(symbol string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: empty series: %w", symbol, ErrDataUnavailable)
	}
	return fmt.Errorf("%s: %v: %w", symbol, err, ErrDataUnavailable)
}

// ErrorKind maps a per-symbol error to a metrics label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientHistory):
		return "insufficient_history"
	case errors.Is(err, ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, ErrComputation):
		return "computation"
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	default:
		return "other"
	}
}
