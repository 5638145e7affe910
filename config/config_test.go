package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/pkg/validate"
	"github.com/rustyeddy/tradeplan/quote"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, "USD", cfg.Account.Currency)
	assert.Equal(t, 10000.0, cfg.Account.Balance)
	assert.Equal(t, 1.0, cfg.Account.RiskPercent)
	assert.Equal(t, 1.0, cfg.Evaluator.SLMultiplier)
	assert.Equal(t, 2.0, cfg.Evaluator.TPMultiplier)
	assert.Equal(t, market.EURUSD, cfg.Pair())
	assert.Equal(t, "csv", cfg.Ledger.Type)
	assert.Equal(t, "trade_log.csv", cfg.Ledger.Path)
	assert.Equal(t, []string{"1m", "5m", "1h"}, cfg.Market.Intervals)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
		code   string
	}{
		{"valid config", func(*Config) {}, "", ""},
		{"bad currency", func(c *Config) { c.Account.Currency = "US" }, "account.currency", "ERR_LEN"},
		{"negative balance", func(c *Config) { c.Account.Balance = -1000 }, "account.balance", "ERR_GT"},
		{"risk percent too high", func(c *Config) { c.Account.RiskPercent = 150 }, "account.risk_percent", "ERR_LTE"},
		{"negative sl multiplier", func(c *Config) { c.Evaluator.SLMultiplier = -1 }, "evaluator.sl_multiplier", "ERR_GTE"},
		{"bad candle interval", func(c *Config) { c.Evaluator.Interval = "2h" }, "evaluator.interval", "ERR_ONEOF"},
		{"unknown instrument", func(c *Config) { c.Evaluator.Pair = "DOGE/BTC" }, "evaluator.pair", "ERR_INSTRUMENT"},
		{"bad ledger type", func(c *Config) { c.Ledger.Type = "postgres" }, "ledger.type", "ERR_ONEOF"},
		{"missing ledger path", func(c *Config) { c.Ledger.Path = "" }, "ledger.path", "ERR_REQUIRED"},
		{"bad quote interval", func(c *Config) { c.Market.Intervals = []string{"1m", "3m"} }, "market.intervals[1]", "ERR_ONEOF"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level", "ERR_ONEOF"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port", "ERR_MAX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}

			var errs validate.Errors
			require.True(t, errors.As(err, &errs), "got %v", err)
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.code, errs[0].Code)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Account.Balance = 25000
			cfg.Evaluator.Pair = "XAU/USD"
			cfg.Ledger = LedgerConfig{Type: "sqlite", Path: "trades.db"}
			cfg.Log.Pretty = false
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))
			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadFromFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	body := "account:\n  balance: 5000\nlog:\n  pretty: false\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, cfg.Account.Balance)
	assert.Equal(t, 1.0, cfg.Account.RiskPercent)
	assert.Equal(t, "USD", cfg.Account.Currency)
	// an explicit false is not replaced by the default
	assert.False(t, cfg.Log.Pretty)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account: [1, 2\n"), 0o600))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoad_MissingDefaultPathUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(EnvOandaToken, "")
	t.Setenv(EnvLedger, "")

	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(dir, "other.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvOandaToken, "secret")
	t.Setenv(EnvLedger, "/tmp/trades.sqlite")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Market.OandaToken)
	assert.Equal(t, "/tmp/trades.sqlite", cfg.Ledger.Path)
	assert.Equal(t, "sqlite", cfg.Ledger.Type)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(EnvOandaToken, "")
	t.Setenv(EnvLedger, "")
	os.Unsetenv(EnvOandaToken)
	os.Unsetenv(EnvLedger)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TRADEPLAN_LEDGER=journal.csv\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "journal.csv", cfg.Ledger.Path)
	assert.Equal(t, "csv", cfg.Ledger.Type)
}

func TestDerived(t *testing.T) {
	cfg := Default()
	cfg.Policy.MaxRiskPercent = 3
	cfg.Policy.MinRR = 2
	cfg.Market.OandaToken = "tok"
	cfg.Market.Intervals = []string{"5m"}
	cfg.Market.Breaker = true

	p := cfg.RiskPolicy()
	assert.Equal(t, 3.0, p.MaxRiskPct)
	assert.Equal(t, 2.0, p.MinRR)

	opts := cfg.QuoteOptions()
	assert.Equal(t, "tok", opts.OandaToken)
	assert.True(t, opts.OandaPractice)
	assert.True(t, opts.Breaker)
	assert.Equal(t, []quote.Interval{quote.Interval5m}, opts.Intervals)
}
