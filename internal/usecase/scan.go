package usecase

import (
	"context"
	"fmt"

	"PDMScan/internal/domain/models"
	"PDMScan/internal/engine"
)

// ScanUseCase provides business logic for universe scans.
type ScanUseCase struct {
	scanner  *engine.UniverseScanner
	universe []string
}

func NewScanUseCase(scanner *engine.UniverseScanner, universe []string) *ScanUseCase {
	return &ScanUseCase{scanner: scanner, universe: universe}
}

type ScanParams struct {
	// Symbols overrides the configured universe when non-empty.
	Symbols []string
	// Limit truncates the ranked signal list; 0 keeps the engine cap.
	Limit int
}

func (uc *ScanUseCase) Scan(ctx context.Context, p ScanParams) (*models.ScanReport, error) {
	universe := p.Symbols
	if len(universe) == 0 {
		universe = uc.universe
	}

	report, err := uc.scanner.Scan(ctx, universe)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	if p.Limit > 0 && len(report.Signals) > p.Limit {
		report.Signals = report.Signals[:p.Limit]
	}
	return report, nil
}

// Universe returns the configured default universe.
func (uc *ScanUseCase) Universe() []string { return uc.universe }
