package engine

import (
	"fmt"
	"math"

	"PDMScan/internal/domain/models"
)

// volumeValidationThreshold is the institutional factor above which volume
// participation counts as validated.
const volumeValidationThreshold = 1.2

// confidenceEntryThreshold is the minimum confidence for a LONG signal.
const confidenceEntryThreshold = 0.7

// Classifier performs a stateless, deterministic PDM evaluation at the latest
// timestamp of a symbol's series.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify evaluates the latest bar of an ascending daily series and returns
// one immutable signal. It fails with ErrInsufficientHistory when the series
// is shorter than the long trend window; identical input always yields an
// identical signal.
func (c *Classifier) Classify(symbol string, bars []models.Bar) (*models.PDMSignal, error) {
	if len(bars) < c.cfg.TrendLongWindow {
		return nil, fmt.Errorf("%s: %d of %d bars: %w",
			symbol, len(bars), c.cfg.TrendLongWindow, ErrInsufficientHistory)
	}

	prices := models.Closes(bars)
	volumes := models.Volumes(bars)

	velocity := Velocity(prices)
	curvature := Curvature(prices)
	sensitivity := VolumeSensitivity(prices, volumes)
	smaShort := RollingMean(prices, c.cfg.TrendShortWindow)
	smaLong := RollingMean(prices, c.cfg.TrendLongWindow)
	atr := ATR(bars, c.cfg.ATRPeriod)
	institutional := InstitutionalFactor(prices, volumes, c.cfg.InstitutionalVolumeWindow, c.cfg.CorrelationWindow)

	last := len(bars) - 1
	price := prices[last]

	confirmed := trendConfirmed(smaShort[last], smaLong[last], price)
	positiveVelocity := velocity[last] > 0
	// Deceleration while still rising: the early-stage momentum capture rule.
	earlyImpulse := curvature[last] < 0
	factor := institutional[last]
	volumeValidated := factor > volumeValidationThreshold

	confidence := (boolScore(confirmed) +
		boolScore(positiveVelocity) +
		boolScore(earlyImpulse) +
		math.Min(factor/2, 1)) / 4

	if !isFinite(price) || !isFinite(atr[last]) || !isFinite(confidence) {
		return nil, fmt.Errorf("%s: non-finite evaluation inputs: %w", symbol, ErrComputation)
	}

	signalType := models.SignalHold
	if confirmed && positiveVelocity && earlyImpulse && volumeValidated && confidence > confidenceEntryThreshold {
		signalType = models.SignalLong
	}

	hardStop, trailingStop := StopLevels(price, atr[last],
		c.cfg.ATRHardStopMultiplier, c.cfg.ATRTrailingStopMultiplier)

	return &models.PDMSignal{
		Symbol:              symbol,
		SignalType:          signalType,
		Price:               price,
		Timestamp:           bars[last].Timestamp,
		Velocity:            sanitize(velocity[last]),
		Curvature:           sanitize(curvature[last]),
		VolumeSensitivity:   sanitize(sensitivity[last]),
		ATRHardStop:         hardStop,
		ATRTrailingStop:     trailingStop,
		ConfidenceScore:     confidence,
		InstitutionalFactor: factor,
	}, nil
}

func boolScore(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func sanitize(x float64) float64 {
	if !isFinite(x) {
		return 0
	}
	return x
}
