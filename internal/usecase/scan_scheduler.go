package usecase

import (
	"context"
	"sync"
	"time"

	"PDMScan/internal/domain/models"
	drepo "PDMScan/internal/domain/repository"
	applogger "PDMScan/pkg/logger"
)

// ScanScheduler runs the universe scan on a fixed interval and fans the
// resulting LONG signals out to the sink and signal history. Both are
// optional; a nil sink simply skips publication.
type ScanScheduler struct {
	scan     *ScanUseCase
	sink     drepo.SignalSink
	history  drepo.SignalHistory
	logger   *applogger.Logger
	interval time.Duration

	stopCh  chan struct{}
	mu      sync.Mutex
	started bool
}

func NewScanScheduler(scan *ScanUseCase, sink drepo.SignalSink, history drepo.SignalHistory, logger *applogger.Logger, interval time.Duration) *ScanScheduler {
	return &ScanScheduler{
		scan:     scan,
		sink:     sink,
		history:  history,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the periodic scan loop. The first scan runs after one full
// interval, not at startup, so boot is never blocked on provider calls.
func (s *ScanScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

// Stop halts the scan loop.
func (s *ScanScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	close(s.stopCh)
}

func (s *ScanScheduler) runOnce(ctx context.Context) {
	start := time.Now()
	report, err := s.scan.Scan(ctx, ScanParams{})
	if err != nil {
		s.logger.Error("scheduled scan failed", applogger.Error(err))
		return
	}

	s.logger.Info("scheduled scan complete",
		applogger.Int("universe", report.UniverseSize),
		applogger.Int("signals", len(report.Signals)),
		applogger.Duration("duration_ms", time.Since(start)),
	)

	if len(report.Signals) == 0 {
		return
	}
	s.publish(ctx, report.Signals)
}

func (s *ScanScheduler) publish(ctx context.Context, signals []models.PDMSignal) {
	if s.sink != nil {
		for _, sig := range signals {
			if err := s.sink.Publish(ctx, sig); err != nil {
				s.logger.Error("signal publish failed",
					applogger.String("symbol", sig.Symbol),
					applogger.Error(err),
				)
			}
		}
	}
	if s.history != nil {
		if err := s.history.Store(ctx, signals); err != nil {
			s.logger.Error("signal history store failed", applogger.Error(err))
		}
	}
}
