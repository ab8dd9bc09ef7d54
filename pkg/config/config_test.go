package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: test
clickhouse:
  host: localhost
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8090 {
		t.Fatalf("expected default port 8090, got %d", cfg.Server.Port)
	}
	if cfg.Engine.LookbackPeriodDays != 252 {
		t.Fatalf("expected lookback 252, got %d", cfg.Engine.LookbackPeriodDays)
	}
	if cfg.Engine.ATRHardStopMultiplier != 2.0 || cfg.Engine.ATRTrailingStopMultiplier != 3.0 {
		t.Fatalf("unexpected stop multipliers %+v", cfg.Engine)
	}
	if cfg.Universe.BenchmarkSymbol != "^NSEI" {
		t.Fatalf("expected default benchmark, got %s", cfg.Universe.BenchmarkSymbol)
	}
	if len(cfg.Universe.Symbols) == 0 {
		t.Fatalf("expected default universe")
	}
	if cfg.Kafka.SignalsTopic != "pdm.signals" {
		t.Fatalf("unexpected signals topic %s", cfg.Kafka.SignalsTopic)
	}
	if cfg.Scheduler.Interval != 15*time.Minute {
		t.Fatalf("unexpected scheduler interval %v", cfg.Scheduler.Interval)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: test
clickhouse:
  host: ch.internal
engine:
  max_positions: 10
  scan_eval_limit: 0
universe:
  symbols: [AAA, BBB]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.MaxPositions != 10 {
		t.Fatalf("expected max positions 10, got %d", cfg.Engine.MaxPositions)
	}
	if len(cfg.Universe.Symbols) != 2 {
		t.Fatalf("expected explicit universe, got %v", cfg.Universe.Symbols)
	}
}

func TestValidateProviderType(t *testing.T) {
	path := writeConfig(t, `
environment: test
provider:
  type: csv
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown provider type")
	}
}

func TestValidateFinnhubNeedsKey(t *testing.T) {
	path := writeConfig(t, `
environment: test
provider:
  type: finnhub
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

func TestLoadWithEnvOverride(t *testing.T) {
	path := writeConfig(t, `
environment: test
clickhouse:
  host: localhost
`)
	t.Setenv("SYMBOLS", "X,Y,Z")
	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Universe.Symbols) != 3 {
		t.Fatalf("expected env universe override, got %v", cfg.Universe.Symbols)
	}
}
