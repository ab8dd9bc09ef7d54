package di

import (
	"context"
	"fmt"
	"time"

	"PDMScan/internal/domain/repository"
	"PDMScan/internal/engine"
	"PDMScan/internal/handler/api"
	mid "PDMScan/internal/middleware"
	internalrepo "PDMScan/internal/repository"
	icache "PDMScan/internal/service/cache"
	"PDMScan/internal/service/finnhub"
	"PDMScan/internal/service/ratelimit"
	"PDMScan/internal/usecase"
	pkgch "PDMScan/pkg/clickhouse"
	"PDMScan/pkg/config"
	xhttp "PDMScan/pkg/http"
	pkgkafka "PDMScan/pkg/kafka"
	applogger "PDMScan/pkg/logger"
	"PDMScan/pkg/metrics"
	"PDMScan/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEngineConfig maps YAML engine settings onto the engine config.
func ProvideEngineConfig(cfg *config.Config) (engine.Config, error) {
	ec := engine.Config{
		LookbackPeriodDays:        cfg.Engine.LookbackPeriodDays,
		MinDailyLiquidityUSD:      cfg.Engine.MinDailyLiquidityUSD,
		MaxPositions:              cfg.Engine.MaxPositions,
		ATRHardStopMultiplier:     cfg.Engine.ATRHardStopMultiplier,
		ATRTrailingStopMultiplier: cfg.Engine.ATRTrailingStopMultiplier,
		ATRPeriod:                 cfg.Engine.ATRPeriod,
		InstitutionalVolumeWindow: cfg.Engine.InstitutionalVolumeWindow,
		CorrelationWindow:         cfg.Engine.CorrelationWindow,
		TrendShortWindow:          cfg.Engine.TrendShortWindow,
		TrendLongWindow:           cfg.Engine.TrendLongWindow,
		LiquidityWindow:           cfg.Engine.LiquidityWindow,
		ScanEvalLimit:             cfg.Engine.ScanEvalLimit,
		MaxConcurrentFetches:      cfg.Engine.MaxConcurrentFetches,
		SymbolTimeout:             cfg.Engine.SymbolTimeout,
	}
	if err := ec.Validate(); err != nil {
		return engine.Config{}, fmt.Errorf("engine config: %w", err)
	}
	return ec, nil
}

// ProvideClickHouseClient creates a ClickHouse client. Returns nil when no
// host is configured, e.g. a Finnhub-only deployment without ingest.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.ClickHouse.Host == "" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".daily_bars (ts DateTime, symbol String, open Float64, high Float64, low Float64, close Float64, volume Float64) ENGINE=ReplacingMergeTree ORDER BY (symbol, ts)",
		"CREATE TABLE IF NOT EXISTS " + db + ".signals (ts DateTime, symbol String, signal String, confidence Float64, price Float64, velocity Float64, curvature Float64, institutional_factor Float64, hard_stop Float64, trailing_stop Float64) ENGINE=MergeTree ORDER BY (symbol, ts)",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideBarStore creates the ClickHouse-backed bar store. Nil when
// ClickHouse is not configured.
func ProvideBarStore(chClient *pkgch.Client, cfg *config.Config, logger *applogger.Logger) *internalrepo.CHBarStore {
	if chClient == nil {
		return nil
	}
	store := internalrepo.NewCHBarStore(chClient, cfg.ClickHouse.Database+".daily_bars")
	store.SetLogger(logger)
	return store
}

// ProvideBarProvider selects the bar provider backend.
func ProvideBarProvider(cfg *config.Config, store *internalrepo.CHBarStore, logger *applogger.Logger) (repository.BarProvider, error) {
	switch cfg.Provider.Type {
	case "clickhouse":
		if store == nil {
			return nil, fmt.Errorf("provider clickhouse: no clickhouse host configured")
		}
		return store, nil
	case "finnhub":
		client := xhttp.NewClient(xhttp.WithTimeout(cfg.Provider.Finnhub.Timeout))
		provider := internalrepo.NewFinnhubBarProvider(
			client,
			ratelimit.New(),
			cfg.Provider.Finnhub.BaseURL,
			cfg.Provider.Finnhub.APIKey,
		)
		provider.SetLogger(logger)
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Provider.Type)
	}
}

// ProvideKafkaProducer creates a Kafka producer, nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSignalSink creates the Kafka signal sink, nil when Kafka is disabled.
func ProvideSignalSink(producer *pkgkafka.Producer, cfg *config.Config) repository.SignalSink {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSignalSink(producer, cfg.Kafka.SignalsTopic)
}

// ProvideSignalHistory creates the ClickHouse signal history, nil without ClickHouse.
func ProvideSignalHistory(chClient *pkgch.Client, cfg *config.Config) repository.SignalHistory {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewCHSignalHistory(chClient, cfg.ClickHouse.Database+".signals")
}

// ProvideScanner creates the universe scanner.
func ProvideScanner(provider repository.BarProvider, ec engine.Config, logger *applogger.Logger, m repository.Metrics) *engine.UniverseScanner {
	return engine.NewUniverseScanner(provider, ec, logger, m)
}

// ProvideBacktestRunner creates the benchmark backtest runner.
func ProvideBacktestRunner(provider repository.BarProvider, cfg *config.Config) *engine.BacktestRunner {
	return engine.NewBacktestRunner(provider, cfg.Universe.BenchmarkSymbol)
}

// ProvideScanUseCase creates the scan use case with the configured universe.
func ProvideScanUseCase(scanner *engine.UniverseScanner, cfg *config.Config) *usecase.ScanUseCase {
	return usecase.NewScanUseCase(scanner, cfg.Universe.Symbols)
}

// ProvideEvaluateUseCase creates the single-symbol evaluation use case.
func ProvideEvaluateUseCase(scanner *engine.UniverseScanner) *usecase.EvaluateUseCase {
	return usecase.NewEvaluateUseCase(scanner)
}

// ProvideBacktestUseCase creates the backtest use case.
func ProvideBacktestUseCase(runner *engine.BacktestRunner, cfg *config.Config) *usecase.BacktestUseCase {
	return usecase.NewBacktestUseCase(runner, cfg.Universe.BenchmarkSymbol)
}

// ProvideCache selects the response cache backend.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideHTTPHandler creates the Echo API handler.
func ProvideHTTPHandler(
	logger *applogger.Logger,
	scan *usecase.ScanUseCase,
	evaluate *usecase.EvaluateUseCase,
	backtest *usecase.BacktestUseCase,
	cache icache.BytesCache,
	cfg *config.Config,
) xhttp.Handler {
	h := api.NewPDMEchoHandler(logger, scan, evaluate, backtest)
	h.SetCache(cache, cfg.Cache.ScanTTL, cfg.Cache.EvaluateTTL)
	return h
}

// ProvideScanScheduler creates the periodic scan scheduler, nil when disabled.
func ProvideScanScheduler(
	scan *usecase.ScanUseCase,
	sink repository.SignalSink,
	history repository.SignalHistory,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.ScanScheduler {
	if !cfg.Scheduler.Enabled {
		return nil
	}
	return usecase.NewScanScheduler(scan, sink, history, logger, cfg.Scheduler.Interval)
}

// ProvideTickCollector creates the live ingest path, nil when disabled or
// when there is no bar store to write into.
func ProvideTickCollector(
	cfg *config.Config,
	store *internalrepo.CHBarStore,
	logger *applogger.Logger,
	m repository.Metrics,
) *usecase.TickCollector {
	if !cfg.Ingest.Enabled || store == nil {
		return nil
	}
	stream := finnhub.NewStream(
		cfg.Provider.Finnhub.APIKey,
		cfg.Provider.Finnhub.WebSocketURL,
		cfg.Universe.Symbols,
		cfg.Ingest.ReconnectDelay,
		cfg.Ingest.PingInterval,
		logger,
	)
	ingestor := usecase.NewBarIngestor(store, logger, cfg.Ingest.FlushInterval)
	pipe := mid.NewIngestPipeline(ingestor, m,
		mid.WithMaxRPS(int(cfg.Ingest.MaxRPS)),
		mid.WithBufferSize(cfg.Ingest.BufferSize),
	)
	return usecase.NewTickCollector(stream, ingestor, m, pipe)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	scheduler *usecase.ScanScheduler,
	collector *usecase.TickCollector,
	sink repository.SignalSink,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, logger, handler, scheduler, collector, sink, chClient)
}
