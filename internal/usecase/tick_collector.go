package usecase

import (
	"context"

	"PDMScan/internal/domain/models"
	drepo "PDMScan/internal/domain/repository"
	mid "PDMScan/internal/middleware"
)

// TickCollector reads ticks from the market stream and pushes them through
// the ingest pipeline into the bar ingestor.
type TickCollector struct {
	stream   drepo.MarketStream
	ingestor *BarIngestor
	metrics  drepo.Metrics
	pipe     *mid.IngestPipeline
}

// NewTickCollector creates a new TickCollector instance.
func NewTickCollector(stream drepo.MarketStream, ingestor *BarIngestor, metrics drepo.Metrics, pipe *mid.IngestPipeline) *TickCollector {
	return &TickCollector{stream: stream, ingestor: ingestor, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the market stream is connected.
func (c *TickCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *TickCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	c.ingestor.Start(ctx)
	tickCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tickCh, errCh)
	return nil
}

func (c *TickCollector) consume(ctx context.Context, tickCh <-chan *models.Trade, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-tickCh:
			if !ok {
				// The stream's read loop died and closed its channels; the
				// terminal error, if any, is buffered on errCh (which closes
				// before tickCh does).
				if err, open := <-errCh; open && err != nil {
					c.metrics.RecordSymbolError("stream")
				}
				tickCh, errCh, ok = c.resume(ctx)
				if !ok {
					return
				}
				continue
			}
			if t == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, t)
			} else {
				_ = c.ingestor.Process(ctx, t)
			}
		}
	}
}

// resume re-dials the stream until it comes back or ctx ends, then opens a
// fresh Read so ticks keep flowing. The old channels are dead after a read
// failure; consuming must switch to the new pair or ingestion stops.
func (c *TickCollector) resume(ctx context.Context) (<-chan *models.Trade, <-chan error, bool) {
	for ctx.Err() == nil {
		if err := c.stream.Reconnect(ctx); err != nil {
			c.metrics.RecordSymbolError("reconnect")
			continue
		}
		tickCh, errCh := c.stream.Read(ctx)
		return tickCh, errCh, true
	}
	return nil, nil, false
}

// Shutdown stops the pipeline, flushes open bars, and closes the stream.
func (c *TickCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	if err := c.ingestor.Stop(ctx); err != nil {
		return err
	}
	return c.stream.Close()
}
