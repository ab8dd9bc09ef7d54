package repository

import (
	"context"
	"time"

	"PDMScan/internal/domain/models"
)

// BarProvider supplies ordered daily OHLCV history for one symbol. The engine
// never performs its own network I/O; all data arrives through this interface.
// Implementations return an empty slice (no error) when a symbol has no data.
type BarProvider interface {
	// DailyBars returns ascending bars between from and to inclusive.
	DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)
	// RecentDailyBars returns the latest n bars in ascending order.
	RecentDailyBars(ctx context.Context, symbol string, n int) ([]models.Bar, error)
}

// MarketStream is a live tick feed used by the ingest path.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	// Read starts one read session. Both channels close when the session
	// ends; a terminal error is buffered on the error channel before the
	// tick channel closes. After Reconnect the caller must call Read again
	// for a fresh pair.
	Read(ctx context.Context) (<-chan *models.Trade, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// SignalSink receives signals emitted by a scan, e.g. a Kafka topic.
type SignalSink interface {
	Publish(ctx context.Context, s models.PDMSignal) error
	Close() error
}

// SignalHistory persists emitted signals for later analysis.
type SignalHistory interface {
	Store(ctx context.Context, signals []models.PDMSignal) error
}

// BarWriter persists daily bars produced by the ingest path.
type BarWriter interface {
	StoreBars(ctx context.Context, bars []models.Bar) error
}

// Metrics records engine-level observability counters.
type Metrics interface {
	RecordScan(universe, liquid, evaluated, signals int)
	RecordSymbolError(kind string)
	RecordSignal(symbol string, confidence float64)
	RecordFetchLatency(op string, seconds float64)
}
