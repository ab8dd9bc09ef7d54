package api

import (
	"encoding/json"
	"net/http"
	"time"

	models "PDMScan/internal/domain/models"
	icache "PDMScan/internal/service/cache"
	"PDMScan/internal/service/metrics"
	"PDMScan/internal/usecase"
	xhttp "PDMScan/pkg/http"
	xlogger "PDMScan/pkg/logger"
	"PDMScan/pkg/util"

	"github.com/labstack/echo/v4"
)

// PDMEchoHandler exposes the scan engine over HTTP.
type PDMEchoHandler struct {
	logger   *xlogger.Logger
	scan     *usecase.ScanUseCase
	evaluate *usecase.EvaluateUseCase
	backtest *usecase.BacktestUseCase

	cache       icache.BytesCache
	scanTTL     time.Duration
	evaluateTTL time.Duration
}

func NewPDMEchoHandler(logger *xlogger.Logger, scan *usecase.ScanUseCase, evaluate *usecase.EvaluateUseCase, backtest *usecase.BacktestUseCase) *PDMEchoHandler {
	metrics.Register()
	return &PDMEchoHandler{
		logger:      logger,
		scan:        scan,
		evaluate:    evaluate,
		backtest:    backtest,
		scanTTL:     60 * time.Second,
		evaluateTTL: 30 * time.Second,
	}
}

// SetCache injects a cache for scan and evaluate responses.
func (h *PDMEchoHandler) SetCache(c icache.BytesCache, scanTTL, evaluateTTL time.Duration) {
	h.cache = c
	if scanTTL > 0 {
		h.scanTTL = scanTTL
	}
	if evaluateTTL > 0 {
		h.evaluateTTL = evaluateTTL
	}
}

func (h *PDMEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/pdm")
	g.GET("/scan", h.Scan)
	g.GET("/signal", h.Signal)
	g.POST("/backtest", h.Backtest)
	e.GET("/health", h.Health)
}

func (h *PDMEchoHandler) Scan(c echo.Context) error {
	start := time.Now()
	endpoint := "scan"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cacheKey := "scan:" + req.Symbols
	if !req.Refresh {
		if b, ok := h.cached(cacheKey); ok {
			metrics.APICacheHits.WithLabelValues(endpoint).Inc()
			return c.JSONBlob(http.StatusOK, b)
		}
	}

	report, err := h.scan.Scan(c.Request().Context(), usecase.ScanParams{
		Symbols: util.SplitSymbols(req.Symbols),
		Limit:   req.Limit,
	})
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("scan usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	h.store(cacheKey, report, h.scanTTL)
	return xhttp.SuccessResponse(c, report)
}

func (h *PDMEchoHandler) Signal(c echo.Context) error {
	start := time.Now()
	endpoint := "signal"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.EvaluateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cacheKey := "signal:" + req.Symbol
	if b, ok := h.cached(cacheKey); ok {
		metrics.APICacheHits.WithLabelValues(endpoint).Inc()
		return c.JSONBlob(http.StatusOK, b)
	}

	res, err := h.evaluate.Evaluate(c.Request().Context(), req.Symbol)
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("evaluate usecase error",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, err)
	}

	h.store(cacheKey, res, h.evaluateTTL)
	return xhttp.SuccessResponse(c, res)
}

func (h *PDMEchoHandler) Backtest(c echo.Context) error {
	start := time.Now()
	endpoint := "backtest"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	from, ok := util.ParseTime(req.From)
	if !ok {
		return xhttp.BadRequestResponse(c, xhttp.BadRequestError("invalid from date"))
	}
	to, ok := util.ParseTime(req.To)
	if !ok {
		return xhttp.BadRequestResponse(c, xhttp.BadRequestError("invalid to date"))
	}

	cmp, err := h.backtest.Run(c.Request().Context(), usecase.BacktestParams{
		From:      from,
		To:        to,
		Benchmark: req.Benchmark,
	})
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("backtest usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, cmp)
}

// Health reports liveness.
func (h *PDMEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *PDMEchoHandler) cached(key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil || !ok {
		return nil, false
	}
	return b, true
}

func (h *PDMEchoHandler) store(key string, v interface{}, ttl time.Duration) {
	if h.cache == nil {
		return
	}
	// cache the same envelope SuccessResponse writes
	b, err := json.Marshal(xhttp.APIResponse{Status: http.StatusOK, Message: http.StatusText(http.StatusOK), Data: v})
	if err != nil {
		return
	}
	_ = h.cache.SetBytes(key, b, ttl)
}
