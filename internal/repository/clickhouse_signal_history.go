package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"PDMScan/internal/domain/models"
	"PDMScan/internal/domain/repository"
	pkgch "PDMScan/pkg/clickhouse"
)

// CHSignalHistory implements SignalHistory backed by ClickHouse.
type CHSignalHistory struct {
	db    *sql.DB
	table string
}

func NewCHSignalHistory(ch *pkgch.Client, table string) repository.SignalHistory {
	return &CHSignalHistory{db: ch.DB(), table: table}
}

func (s *CHSignalHistory) Store(ctx context.Context, signals []models.PDMSignal) error {
	if len(signals) == 0 {
		return nil
	}

	values := make([]string, 0, len(signals))
	args := make([]interface{}, 0, len(signals)*10)
	for _, sig := range signals {
		if sig.Symbol == "" {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			sig.Timestamp,
			sig.Symbol,
			string(sig.SignalType),
			sig.ConfidenceScore,
			sig.Price,
			sig.Velocity,
			sig.Curvature,
			sig.InstitutionalFactor,
			sig.ATRHardStop,
			sig.ATRTrailingStop,
		)
	}
	if len(values) == 0 {
		return nil
	}

	q := fmt.Sprintf(
		"INSERT INTO %s (ts, symbol, signal, confidence, price, velocity, curvature, institutional_factor, hard_stop, trailing_stop) VALUES %s",
		s.table, strings.Join(values, ","),
	)
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("store signals: %w", err)
	}
	return nil
}
