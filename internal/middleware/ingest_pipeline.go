package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PDMScan/internal/domain/models"
	domrepo "PDMScan/internal/domain/repository"
)

// TickHandler is the minimal downstream interface the pipeline needs.
type TickHandler interface {
	Process(ctx context.Context, t *models.Trade) error
}

// IngestPipeline sits between the market stream and the bar ingestor.
// It validates, throttles per symbol, and buffers when downstream is
// unavailable so a slow ClickHouse flush never stalls the websocket reader.
type IngestPipeline struct {
	handler  TickHandler
	metrics  domrepo.Metrics
	maxRPS   int
	bufSize  int
	bufCh    chan *models.Trade
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	lastSeen map[string]time.Time // per-symbol last accepted time
}

type PipelineOption func(*IngestPipeline)

// WithMaxRPS sets the max ticks per second per symbol.
func WithMaxRPS(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewIngestPipeline creates a new pipeline.
func NewIngestPipeline(handler TickHandler, metrics domrepo.Metrics, opts ...PipelineOption) *IngestPipeline {
	p := &IngestPipeline{
		handler:  handler,
		metrics:  metrics,
		maxRPS:   20,   // default throttle per symbol
		bufSize:  1000, // default buffer
		bufCh:    make(chan *models.Trade, 1000),
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.Trade, p.bufSize)
	}
	return p
}

// Start launches background flushing of buffered ticks.
func (p *IngestPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go p.drainBuffer(ctx)
}

// drainBuffer retries buffered ticks against the downstream handler,
// backing off while it keeps failing. A tick that cannot be requeued
// after a failed retry is dropped and counted.
func (p *IngestPipeline) drainBuffer(ctx context.Context) {
	const minBackoff = 50 * time.Millisecond
	backoff := minBackoff
	for {
		select {
		case <-p.stopCh:
			return
		case t := <-p.bufCh:
			if t == nil {
				continue
			}
			if err := p.handler.Process(ctx, t); err == nil {
				backoff = minBackoff
				continue
			}
			if backoff < 2*time.Second {
				backoff *= 2
			}
			p.metrics.RecordSymbolError("pipeline_flush")
			time.Sleep(backoff)
			select {
			case p.bufCh <- t:
			default:
				p.metrics.RecordSymbolError("pipeline_buffer_drop")
			}
		}
	}
}

// Stop stops the background flushing.
func (p *IngestPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards a tick downstream, buffering on errors.
func (p *IngestPipeline) Process(ctx context.Context, t *models.Trade) error {
	start := time.Now()
	if err := validateTick(t); err != nil {
		p.metrics.RecordSymbolError("pipeline_validate")
		return err
	}
	if !p.allow(t.Symbol, start) {
		// throttled; record and drop silently
		p.metrics.RecordSymbolError("pipeline_throttle")
		return nil
	}

	if err := p.handler.Process(ctx, t); err != nil {
		p.metrics.RecordSymbolError("pipeline_process")
		// buffer non-blocking
		select {
		case p.bufCh <- t:
		default:
			p.metrics.RecordSymbolError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordFetchLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateTick(t *models.Trade) error {
	if t == nil {
		return fmt.Errorf("trade nil")
	}
	if t.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if t.Timestamp <= 0 {
		return fmt.Errorf("timestamp invalid")
	}
	if t.Price < 0 || t.Volume < 0 {
		return fmt.Errorf("negative price/volume")
	}
	return nil
}

func (p *IngestPipeline) allow(symbol string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSeen[symbol]
	if last.IsZero() {
		p.lastSeen[symbol] = now
		return true
	}
	if now.Sub(last) < time.Second/time.Duration(p.maxRPS) {
		return false
	}
	p.lastSeen[symbol] = now
	return true
}
