package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"PDMScan/internal/domain/models"
	"PDMScan/internal/service/ratelimit"
	pkghttp "PDMScan/pkg/http"
	applogger "PDMScan/pkg/logger"
)

// Finnhub free tier allows 60 calls/minute; keep a margin.
const (
	finnhubRateKey    = "finnhub-rest"
	finnhubRateCap    = 30
	finnhubRefillRate = 0.5 // tokens per second
)

// FinnhubBarProvider implements BarProvider over the Finnhub stock candle
// REST endpoint. Responses carry parallel arrays of OHLCV values.
type FinnhubBarProvider struct {
	client  *pkghttp.Client
	limiter *ratelimit.Limiter
	baseURL string
	apiKey  string
	l       *applogger.Logger
}

func NewFinnhubBarProvider(client *pkghttp.Client, limiter *ratelimit.Limiter, baseURL, apiKey string) *FinnhubBarProvider {
	return &FinnhubBarProvider{
		client:  client,
		limiter: limiter,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// SetLogger injects a structured logger.
func (p *FinnhubBarProvider) SetLogger(l *applogger.Logger) { p.l = l }

type candleResponse struct {
	Status string    `json:"s"`
	T      []int64   `json:"t"`
	O      []float64 `json:"o"`
	H      []float64 `json:"h"`
	L      []float64 `json:"l"`
	C      []float64 `json:"c"`
	V      []float64 `json:"v"`
}

// DailyBars returns ascending bars between from and to inclusive.
func (p *FinnhubBarProvider) DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(10 * time.Second)
	}
	if !p.limiter.Wait(finnhubRateKey, finnhubRateCap, finnhubRefillRate, deadline) {
		return nil, fmt.Errorf("finnhub rate limit: no token before deadline")
	}

	var resp candleResponse
	err := p.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    p.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {"D"},
			"from":       {strconv.FormatInt(from.Unix(), 10)},
			"to":         {strconv.FormatInt(to.Unix(), 10)},
			"token":      {p.apiKey},
		},
	}, &resp)
	if err != nil {
		if p.l != nil {
			p.l.Error("finnhub candles request error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("finnhub candles %s: %w", symbol, err)
	}

	// "no_data" is a valid empty result, not an error.
	if resp.Status == "no_data" {
		return []models.Bar{}, nil
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("finnhub candles %s: status %q", symbol, resp.Status)
	}

	n := len(resp.T)
	if len(resp.O) != n || len(resp.H) != n || len(resp.L) != n || len(resp.C) != n || len(resp.V) != n {
		return nil, fmt.Errorf("finnhub candles %s: mismatched array lengths", symbol)
	}

	bars := make([]models.Bar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, models.Bar{
			Timestamp: time.Unix(resp.T[i], 0).UTC(),
			Symbol:    symbol,
			Open:      resp.O[i],
			High:      resp.H[i],
			Low:       resp.L[i],
			Close:     resp.C[i],
			Volume:    resp.V[i],
		})
	}
	return bars, nil
}

// RecentDailyBars returns the latest n bars in ascending order. Finnhub has
// no row-limit parameter, so the range is overshot using calendar days and
// trimmed client-side.
func (p *FinnhubBarProvider) RecentDailyBars(ctx context.Context, symbol string, n int) ([]models.Bar, error) {
	to := time.Now().UTC()
	// Markets close on weekends and holidays; 2x calendar days covers n trading days.
	from := to.AddDate(0, 0, -(n*2 + 7))

	bars, err := p.DailyBars(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	if len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return bars, nil
}
