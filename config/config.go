// Package config loads the tool's settings from YAML (or JSON), fills
// defaults, applies environment overrides and validates the result.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/pkg/logger"
	"github.com/rustyeddy/tradeplan/pkg/validate"
	"github.com/rustyeddy/tradeplan/quote"
	"github.com/rustyeddy/tradeplan/risk"
)

// DefaultPath is used when no --config flag is given.
const DefaultPath = "tradeplan.yaml"

const (
	EnvOandaToken = "OANDA_TOKEN"
	EnvLedger     = "TRADEPLAN_LEDGER"
)

type Config struct {
	Account   AccountConfig   `json:"account" yaml:"account"`
	Evaluator EvaluatorConfig `json:"evaluator" yaml:"evaluator"`
	Policy    PolicyConfig    `json:"policy" yaml:"policy"`
	Ledger    LedgerConfig    `json:"ledger" yaml:"ledger"`
	Market    MarketConfig    `json:"market" yaml:"market"`
	Log       logger.Config   `json:"log" yaml:"log"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}

type AccountConfig struct {
	Currency string  `json:"currency" yaml:"currency" default:"USD" validate:"len=3"`
	Balance  float64 `json:"balance" yaml:"balance" default:"10000" validate:"gt=0"`
	// Percent of balance risked per trade, 1.0 means 1%.
	RiskPercent float64 `json:"risk_percent" yaml:"risk_percent" default:"1" validate:"gt=0,lte=100"`
}

type EvaluatorConfig struct {
	Pair         string  `json:"pair" yaml:"pair" default:"EUR/USD" validate:"required"`
	SLMultiplier float64 `json:"sl_multiplier" yaml:"sl_multiplier" default:"1" validate:"gte=0"`
	TPMultiplier float64 `json:"tp_multiplier" yaml:"tp_multiplier" default:"2" validate:"gte=0"`
	// Candle interval used to prefill indicators.
	Interval string `json:"interval" yaml:"interval" default:"1h" validate:"oneof=1m 5m 15m 1h 1d"`
}

type PolicyConfig struct {
	MaxRiskPercent float64 `json:"max_risk_percent" yaml:"max_risk_percent" default:"2" validate:"gt=0,lte=100"`
	MinRR          float64 `json:"min_rr" yaml:"min_rr" default:"1.5" validate:"gte=0"`
}

type LedgerConfig struct {
	Type string `json:"type" yaml:"type" default:"csv" validate:"oneof=csv sqlite"`
	Path string `json:"path" yaml:"path" default:"trade_log.csv" validate:"required"`
}

type MarketConfig struct {
	Intervals  []string `json:"intervals" yaml:"intervals" default:"[\"1m\",\"5m\",\"1h\"]" validate:"dive,oneof=1m 5m 15m 1h 1d"`
	OandaToken string   `json:"oanda_token,omitempty" yaml:"oanda_token,omitempty"`
	OandaLive  bool     `json:"oanda_live" yaml:"oanda_live"`
	Breaker    bool     `json:"breaker" yaml:"breaker"`
}

type ServerConfig struct {
	Port int `json:"port" yaml:"port" default:"8080" validate:"min=1,max=65535"`
}

// Default returns a configuration with every default filled in.
func Default() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return cfg
}

// Load reads path when it exists and falls back to defaults when it
// does not. A .env file in the working directory and the environment
// override file values.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		loaded, err := read(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
		default:
			return nil, err
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a file, YAML first and JSON as
// a fallback. Keys missing from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides file values with OANDA_TOKEN and TRADEPLAN_LEDGER.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvOandaToken); v != "" {
		c.Market.OandaToken = v
	}
	if v := os.Getenv(EnvLedger); v != "" {
		c.SetLedgerPath(v)
	}
}

// SetLedgerPath points the ledger at path. A path ending in .db, .sqlite
// or .sqlite3 selects the sqlite store, anything else the CSV file.
func (c *Config) SetLedgerPath(path string) {
	c.Ledger.Path = path
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		c.Ledger.Type = "sqlite"
	default:
		c.Ledger.Type = "csv"
	}
}

// Validate checks struct tags and then the values tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Check(context.Background(), c); err != nil {
		return err
	}
	if _, err := market.ParseInstrument(c.Evaluator.Pair); err != nil {
		return validate.Errors{{Code: "ERR_INSTRUMENT", Field: "evaluator.pair", Message: err.Error()}}
	}
	return nil
}

func (c *Config) Pair() market.Instrument {
	inst, _ := market.ParseInstrument(c.Evaluator.Pair)
	return inst
}

func (c *Config) RiskPolicy() risk.Policy {
	return risk.Policy{MaxRiskPct: c.Policy.MaxRiskPercent, MinRR: c.Policy.MinRR}
}

// QuoteOptions configures the live price chain.
func (c *Config) QuoteOptions() quote.Options {
	opts := quote.Options{
		OandaToken:    c.Market.OandaToken,
		OandaPractice: !c.Market.OandaLive,
		Breaker:       c.Market.Breaker,
	}
	for _, iv := range c.Market.Intervals {
		opts.Intervals = append(opts.Intervals, quote.Interval(iv))
	}
	return opts
}
