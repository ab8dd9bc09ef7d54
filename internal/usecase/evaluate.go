package usecase

import (
	"context"
	"errors"
	"fmt"

	"PDMScan/internal/domain/models"
	"PDMScan/internal/engine"
)

// EvaluateUseCase provides business logic for single-symbol evaluation.
type EvaluateUseCase struct {
	scanner *engine.UniverseScanner
}

func NewEvaluateUseCase(scanner *engine.UniverseScanner) *EvaluateUseCase {
	return &EvaluateUseCase{scanner: scanner}
}

// Evaluate classifies one symbol. Insufficient history and missing data are
// reported as statuses, not errors, so the caller can render them.
func (uc *EvaluateUseCase) Evaluate(ctx context.Context, symbol string) (*models.EvaluationResult, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}

	signal, err := uc.scanner.EvaluateSymbol(ctx, symbol)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrInsufficientHistory):
			return &models.EvaluationResult{
				Symbol: symbol,
				Status: models.EvaluationInsufficientHistory,
			}, nil
		case errors.Is(err, engine.ErrDataUnavailable):
			return &models.EvaluationResult{
				Symbol: symbol,
				Status: models.EvaluationDataUnavailable,
			}, nil
		default:
			return nil, fmt.Errorf("evaluate %s: %w", symbol, err)
		}
	}

	return &models.EvaluationResult{
		Symbol: symbol,
		Status: models.EvaluationOK,
		Signal: signal,
	}, nil
}
