package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"PDMScan/internal/domain/models"
	domrepo "PDMScan/internal/domain/repository"
	applogger "PDMScan/pkg/logger"
)

// UniverseScanner orchestrates liquidity filtering, per-symbol classification
// and ranking across a symbol universe. Per-symbol work is independent and
// side-effect-free, so evaluation fans out over a bounded worker pool; each
// symbol fails in isolation and the final ordering is applied only after all
// results are collected.
type UniverseScanner struct {
	provider   domrepo.BarProvider
	classifier *Classifier
	liquidity  *LiquidityFilter
	cfg        Config
	logger     *applogger.Logger
	metrics    domrepo.Metrics
}

func NewUniverseScanner(provider domrepo.BarProvider, cfg Config, logger *applogger.Logger, metrics domrepo.Metrics) *UniverseScanner {
	return &UniverseScanner{
		provider:   provider,
		classifier: NewClassifier(cfg),
		liquidity:  NewLiquidityFilter(provider, cfg, logger, metrics),
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
	}
}

// EvaluateSymbol fetches history for one symbol and classifies its latest
// bar. Outside a batch the caller sees the taxonomy errors directly.
func (s *UniverseScanner) EvaluateSymbol(ctx context.Context, symbol string) (*models.PDMSignal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SymbolTimeout)
	defer cancel()

	start := time.Now()
	bars, err := s.provider.RecentDailyBars(ctx, symbol, s.cfg.HistoryBars())
	if s.metrics != nil {
		s.metrics.RecordFetchLatency("history_bars", time.Since(start).Seconds())
	}
	if err != nil {
		return nil, wrapUnavailable(symbol, err)
	}
	if len(bars) == 0 {
		return nil, wrapUnavailable(symbol, nil)
	}
	return s.classifier.Classify(symbol, bars)
}

// Scan runs the full pipeline over the universe:
//  1. liquidity filter (order-preserving),
//  2. evaluation cap,
//  3. bounded parallel classification with per-symbol error isolation,
//  4. keep LONG signals, rank by confidence descending (stable: ties keep
//     first-encounter order), truncate to MaxPositions.
//
// An empty result is a normal outcome, not an error.
func (s *UniverseScanner) Scan(ctx context.Context, universe []string) (*models.ScanReport, error) {
	liquid, failures := s.liquidity.Filter(ctx, universe)

	candidates := liquid
	if s.cfg.ScanEvalLimit > 0 && len(candidates) > s.cfg.ScanEvalLimit {
		candidates = candidates[:s.cfg.ScanEvalLimit]
	}

	// Results land in their submission slot so ranking ties break on
	// first-encounter order regardless of completion order.
	results := make([]*models.PDMSignal, len(candidates))
	errs := make([]error, len(candidates))

	workers := s.cfg.MaxConcurrentFetches
	if workers <= 0 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, symbol := range candidates {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i], errs[i] = s.EvaluateSymbol(ctx, symbol)
		}(i, symbol)
	}
	wg.Wait()

	evaluated := 0
	longs := make([]models.PDMSignal, 0, len(candidates))
	for i, symbol := range candidates {
		if errs[i] != nil {
			failures[symbol] = errs[i].Error()
			if s.logger != nil {
				s.logger.Warn("symbol evaluation failed",
					applogger.String("symbol", symbol),
					applogger.Error(errs[i]),
				)
			}
			if s.metrics != nil {
				s.metrics.RecordSymbolError(ErrorKind(errs[i]))
			}
			continue
		}
		evaluated++
		if results[i].SignalType == models.SignalLong {
			longs = append(longs, *results[i])
			if s.logger != nil {
				s.logger.Info("LONG signal",
					applogger.String("symbol", symbol),
					applogger.Float64("price", results[i].Price),
					applogger.Float64("confidence", results[i].ConfidenceScore),
				)
			}
			if s.metrics != nil {
				s.metrics.RecordSignal(symbol, results[i].ConfidenceScore)
			}
		}
	}

	signals := RankSignals(longs, s.cfg.MaxPositions)

	if s.metrics != nil {
		s.metrics.RecordScan(len(universe), len(liquid), evaluated, len(signals))
	}
	if len(failures) == 0 {
		failures = nil
	}

	return &models.ScanReport{
		Signals:        signals,
		UniverseSize:   len(universe),
		LiquidSymbols:  len(liquid),
		Evaluated:      evaluated,
		SymbolFailures: failures,
		ScannedAt:      time.Now().UTC(),
	}, nil
}

// RankSignals sorts signals by confidence descending and truncates to
// maxPositions. The sort is stable: equal-confidence signals keep their
// first-encounter order.
func RankSignals(signals []models.PDMSignal, maxPositions int) []models.PDMSignal {
	ranked := make([]models.PDMSignal, len(signals))
	copy(ranked, signals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ConfidenceScore > ranked[j].ConfidenceScore
	})
	if maxPositions > 0 && len(ranked) > maxPositions {
		ranked = ranked[:maxPositions]
	}
	return ranked
}
