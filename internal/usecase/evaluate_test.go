package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"PDMScan/internal/domain/models"
	"PDMScan/internal/engine"
)

// fakeProvider serves one canned series and fails on demand.
type fakeProvider struct {
	bars map[string][]models.Bar
	fail map[string]bool
}

func (p *fakeProvider) DailyBars(_ context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	if p.fail[symbol] {
		return nil, fmt.Errorf("provider down for %s", symbol)
	}
	out := make([]models.Bar, 0)
	for _, b := range p.bars[symbol] {
		if !b.Timestamp.Before(from) && !b.Timestamp.After(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (p *fakeProvider) RecentDailyBars(_ context.Context, symbol string, n int) ([]models.Bar, error) {
	if p.fail[symbol] {
		return nil, fmt.Errorf("provider down for %s", symbol)
	}
	bars := p.bars[symbol]
	if len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return bars, nil
}

// steadySeries builds n bars with a gently rising close.
func steadySeries(n int) []models.Bar {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		price := 100 + 0.1*float64(i)
		bars[i] = models.Bar{
			Timestamp: day.AddDate(0, 0, i),
			Symbol:    "STEADY",
			Open:      price,
			High:      price + 1,
			Low:       price - 1,
			Close:     price,
			Volume:    50000,
		}
	}
	return bars
}

func newEvaluateUC(p *fakeProvider) *EvaluateUseCase {
	scanner := engine.NewUniverseScanner(p, engine.DefaultConfig(), nil, nil)
	return NewEvaluateUseCase(scanner)
}

func TestEvaluateOK(t *testing.T) {
	uc := newEvaluateUC(&fakeProvider{
		bars: map[string][]models.Bar{"STEADY": steadySeries(260)},
	})

	res, err := uc.Evaluate(context.Background(), "STEADY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != models.EvaluationOK {
		t.Fatalf("expected ok status, got %s", res.Status)
	}
	if res.Signal == nil {
		t.Fatalf("expected a signal")
	}
	if res.Signal.Symbol != "STEADY" {
		t.Fatalf("unexpected symbol %s", res.Signal.Symbol)
	}
}

func TestEvaluateInsufficientHistory(t *testing.T) {
	uc := newEvaluateUC(&fakeProvider{
		bars: map[string][]models.Bar{"SHORT": steadySeries(50)},
	})

	res, err := uc.Evaluate(context.Background(), "SHORT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != models.EvaluationInsufficientHistory {
		t.Fatalf("expected insufficient_history, got %s", res.Status)
	}
	if res.Signal != nil {
		t.Fatalf("expected no signal")
	}
}

func TestEvaluateDataUnavailable(t *testing.T) {
	uc := newEvaluateUC(&fakeProvider{
		fail: map[string]bool{"DOWN": true},
	})

	res, err := uc.Evaluate(context.Background(), "DOWN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != models.EvaluationDataUnavailable {
		t.Fatalf("expected data_unavailable, got %s", res.Status)
	}
}

func TestEvaluateEmptySymbol(t *testing.T) {
	uc := newEvaluateUC(&fakeProvider{})
	if _, err := uc.Evaluate(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty symbol")
	}
}
