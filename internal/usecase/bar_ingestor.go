package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PDMScan/internal/domain/models"
	drepo "PDMScan/internal/domain/repository"
	applogger "PDMScan/pkg/logger"
	"PDMScan/pkg/util"
)

// BarIngestor aggregates live ticks into daily OHLCV bars, one open bar per
// symbol. A bar is queued for persistence when its trading day rolls over;
// the queue is flushed in the background. The bars table uses
// ReplacingMergeTree keyed on (symbol, ts), so re-writing a day is safe.
type BarIngestor struct {
	writer        drepo.BarWriter
	logger        *applogger.Logger
	flushInterval time.Duration

	mu      sync.Mutex
	open    map[string]*models.Bar
	pending []models.Bar

	stopCh  chan struct{}
	started bool
}

func NewBarIngestor(writer drepo.BarWriter, logger *applogger.Logger, flushInterval time.Duration) *BarIngestor {
	return &BarIngestor{
		writer:        writer,
		logger:        logger,
		flushInterval: flushInterval,
		open:          make(map[string]*models.Bar),
		stopCh:        make(chan struct{}),
	}
}

// Process folds one tick into the symbol's open daily bar.
func (b *BarIngestor) Process(ctx context.Context, t *models.Trade) error {
	if t == nil {
		return fmt.Errorf("trade is nil")
	}

	day := util.TruncateToDay(time.Unix(t.Timestamp, 0).UTC())

	b.mu.Lock()
	defer b.mu.Unlock()

	bar, ok := b.open[t.Symbol]
	if ok && bar.Timestamp.Before(day) {
		// day rolled over; queue the finished bar
		b.pending = append(b.pending, *bar)
		ok = false
	}
	if !ok {
		b.open[t.Symbol] = &models.Bar{
			Timestamp: day,
			Symbol:    t.Symbol,
			Open:      t.Price,
			High:      t.Price,
			Low:       t.Price,
			Close:     t.Price,
			Volume:    t.Volume,
		}
		return nil
	}

	if t.Price > bar.High {
		bar.High = t.Price
	}
	if t.Price < bar.Low {
		bar.Low = t.Price
	}
	bar.Close = t.Price
	bar.Volume += t.Volume
	return nil
}

// Start launches the background flush loop.
func (b *BarIngestor) Start(ctx context.Context) {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return
	}
	b.started = true
	b.mu.Unlock()

	go func() {
		ticker := time.NewTicker(b.flushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-b.stopCh:
				return
			case <-ticker.C:
				if err := b.Flush(ctx); err != nil && b.logger != nil {
					b.logger.Error("bar flush failed", applogger.Error(err))
				}
			}
		}
	}()
}

// Flush persists queued bars plus a snapshot of every open bar.
func (b *BarIngestor) Flush(ctx context.Context) error {
	b.mu.Lock()
	finished := b.pending
	b.pending = nil
	bars := make([]models.Bar, 0, len(finished)+len(b.open))
	bars = append(bars, finished...)
	for _, bar := range b.open {
		bars = append(bars, *bar)
	}
	b.mu.Unlock()

	if len(bars) == 0 {
		return nil
	}
	if err := b.writer.StoreBars(ctx, bars); err != nil {
		// requeue finished bars only; open bars are re-snapshotted next flush
		b.mu.Lock()
		b.pending = append(b.pending, finished...)
		b.mu.Unlock()
		return fmt.Errorf("store bars: %w", err)
	}
	if b.logger != nil {
		b.logger.Debug("bars flushed", applogger.Int("count", len(bars)))
	}
	return nil
}

// Stop halts the flush loop and performs a final flush.
func (b *BarIngestor) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return nil
	}
	b.started = false
	b.mu.Unlock()
	close(b.stopCh)
	return b.Flush(ctx)
}
