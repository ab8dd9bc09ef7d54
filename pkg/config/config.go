package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8090"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Engine struct {
		LookbackPeriodDays        int           `yaml:"lookback_period_days" default:"252"`
		MinDailyLiquidityUSD      float64       `yaml:"min_daily_liquidity_usd" default:"1000000"`
		MaxPositions              int           `yaml:"max_positions" default:"25"`
		ATRHardStopMultiplier     float64       `yaml:"atr_hard_stop_multiplier" default:"2.0"`
		ATRTrailingStopMultiplier float64       `yaml:"atr_trailing_stop_multiplier" default:"3.0"`
		ATRPeriod                 int           `yaml:"atr_period" default:"14"`
		InstitutionalVolumeWindow int           `yaml:"institutional_volume_window" default:"20"`
		CorrelationWindow         int           `yaml:"correlation_window" default:"10"`
		TrendShortWindow          int           `yaml:"trend_short_window" default:"20"`
		TrendLongWindow           int           `yaml:"trend_long_window" default:"200"`
		LiquidityWindow           int           `yaml:"liquidity_window" default:"30"`
		ScanEvalLimit             int           `yaml:"scan_eval_limit" default:"10"`
		MaxConcurrentFetches      int           `yaml:"max_concurrent_fetches" default:"4"`
		SymbolTimeout             time.Duration `yaml:"symbol_timeout" default:"10s"`
	} `yaml:"engine"`
	Universe struct {
		Symbols         []string `yaml:"symbols"`
		BenchmarkSymbol string   `yaml:"benchmark_symbol" default:"^NSEI"`
	} `yaml:"universe"`
	Provider struct {
		Type    string `yaml:"type" default:"clickhouse"` // clickhouse or finnhub
		Finnhub struct {
			APIKey       string        `yaml:"api_key"`
			BaseURL      string        `yaml:"base_url" default:"https://finnhub.io/api/v1"`
			WebSocketURL string        `yaml:"websocket_url" default:"wss://ws.finnhub.io"`
			Timeout      time.Duration `yaml:"timeout" default:"10s"`
			MaxRPS       float64       `yaml:"max_rps" default:"10"`
			BurstRPS     float64       `yaml:"burst_rps" default:"20"`
		} `yaml:"finnhub"`
	} `yaml:"provider"`
	Ingest struct {
		Enabled        bool          `yaml:"enabled"`
		FlushInterval  time.Duration `yaml:"flush_interval" default:"1m"`
		BufferSize     int           `yaml:"buffer_size" default:"2000"`
		MaxRPS         float64       `yaml:"max_rps" default:"50"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"5s"`
		PingInterval   time.Duration `yaml:"ping_interval" default:"30s"`
	} `yaml:"ingest"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"pdmscan"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		SignalsTopic string   `yaml:"signals_topic" default:"pdm.signals"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"1s"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Cache struct {
		ScanTTL     time.Duration `yaml:"scan_ttl" default:"60s"`
		EvaluateTTL time.Duration `yaml:"evaluate_ttl" default:"30s"`
		Redis       struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Scheduler struct {
		Enabled  bool          `yaml:"enabled"`
		Interval time.Duration `yaml:"interval" default:"15m"`
	} `yaml:"scheduler"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}

	if len(c.Universe.Symbols) == 0 {
		c.Universe.Symbols = DefaultUniverse()
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Provider.Finnhub.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Universe.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("PROVIDER"); v != "" {
		c.Provider.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Provider.Type != "clickhouse" && c.Provider.Type != "finnhub" {
		return fmt.Errorf("provider.type must be 'clickhouse' or 'finnhub', got '%s'", c.Provider.Type)
	}
	if c.Provider.Type == "finnhub" && c.Provider.Finnhub.APIKey == "" {
		return fmt.Errorf("provider.finnhub.api_key is required")
	}
	if c.Provider.Type == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	e := c.Engine
	if e.ATRHardStopMultiplier <= 0 || e.ATRTrailingStopMultiplier <= 0 {
		return fmt.Errorf("engine stop multipliers must be positive")
	}
	for name, w := range map[string]int{
		"atr_period":                  e.ATRPeriod,
		"institutional_volume_window": e.InstitutionalVolumeWindow,
		"correlation_window":          e.CorrelationWindow,
		"trend_short_window":          e.TrendShortWindow,
		"trend_long_window":           e.TrendLongWindow,
		"liquidity_window":            e.LiquidityWindow,
		"lookback_period_days":        e.LookbackPeriodDays,
		"max_positions":               e.MaxPositions,
	} {
		if w <= 0 {
			return fmt.Errorf("engine.%s must be positive", name)
		}
	}
	return nil
}

// DefaultUniverse returns the built-in NIFTY-sample symbol universe.
func DefaultUniverse() []string {
	return []string{
		"RELIANCE.NS", "TCS.NS", "HDFCBANK.NS", "INFY.NS", "HINDUNILVR.NS",
		"ITC.NS", "SBIN.NS", "BHARTIARTL.NS", "ASIANPAINT.NS", "MARUTI.NS",
		"KOTAKBANK.NS", "LT.NS", "AXISBANK.NS", "NESTLEIND.NS", "WIPRO.NS",
		"ULTRACEMCO.NS", "BAJFINANCE.NS", "HCLTECH.NS", "SUNPHARMA.NS", "ONGC.NS",
	}
}
