package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"PDMScan/internal/domain/models"
	drepo "PDMScan/internal/domain/repository"
	applogger "PDMScan/pkg/logger"

	"github.com/gorilla/websocket"
)

// Stream implements a MarketStream backed by the Finnhub trade feed.
// Ticks feed the bar ingest path; the scan engine never reads them
// directly.
type Stream struct {
	apiKey         string
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	l              *applogger.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
}

// NewStream creates a new Finnhub MarketStream.
func NewStream(apiKey, websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration, l *applogger.Logger) drepo.MarketStream {
	return &Stream{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		l:              l,
	}
}

func (s *Stream) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", s.websocketURL, s.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("finnhub connect: %w", err)
	}
	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()
	if s.l != nil {
		s.l.Info("finnhub stream connected")
	}
	return nil
}

// Subscribe registers every configured universe symbol on the feed.
func (s *Stream) Subscribe(ctx context.Context) error {
	conn := s.current()
	if conn == nil {
		return fmt.Errorf("finnhub not connected")
	}
	for _, sym := range s.symbols {
		if err := conn.WriteJSON(map[string]string{"type": "subscribe", "symbol": sym}); err != nil {
			return fmt.Errorf("subscribe %s: %w", sym, err)
		}
	}
	if s.l != nil {
		s.l.Info("finnhub stream subscribed", applogger.Int("symbols", len(s.symbols)))
	}
	return nil
}

// Finnhub frame: {"type":"trade","data":[{"s":sym,"p":px,"v":vol,"t":ms}]}
type wsTick struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	V float64 `json:"v"`
	T int64   `json:"t"` // ms
}

type wsFrame struct {
	Type string   `json:"type"`
	Data []wsTick `json:"data"`
}

// Read starts one read session: channels of trades and a terminal error.
// The error channel closes before the tick channel so the terminal error
// is observable once the tick channel drains. Slow consumers lose ticks
// rather than stall the socket. Each Reconnect needs a fresh Read.
func (s *Stream) Read(ctx context.Context) (<-chan *models.Trade, <-chan error) {
	trades := make(chan *models.Trade, 1024)
	errs := make(chan error, 1)
	done := make(chan struct{})

	go s.pingLoop(ctx, done)
	go func() {
		defer close(trades)
		defer close(errs)
		defer close(done)
		if err := s.readLoop(ctx, trades); err != nil {
			errs <- err
		}
	}()

	return trades, errs
}

// pingLoop keeps the socket alive for one read session; it exits with the
// session so reconnects do not pile up ping goroutines.
func (s *Stream) pingLoop(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			if conn := s.current(); conn != nil {
				_ = conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}
}

func (s *Stream) readLoop(ctx context.Context, trades chan<- *models.Trade) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		conn := s.current()
		if conn == nil {
			return fmt.Errorf("finnhub conn nil")
		}
		_, b, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("finnhub read: %w", err)
		}

		var frame wsFrame
		if err := json.Unmarshal(b, &frame); err != nil || frame.Type != "trade" {
			continue // ping/ack frames
		}
		for _, d := range frame.Data {
			t := &models.Trade{Symbol: d.S, Timestamp: d.T / 1000, Price: d.P, Volume: d.V}
			select {
			case trades <- t:
			default:
				// drop on backpressure
			}
		}
	}
}

// Reconnect tears down the socket, waits the configured delay and
// re-subscribes.
func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	time.Sleep(s.reconnectDelay)
	if err := s.Connect(ctx); err != nil {
		return err
	}
	return s.Subscribe(ctx)
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

func (s *Stream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Stream) current() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil
	}
	return s.conn
}
