package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeplan/config"
	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/trade"
)

// snapshotFlags are the trade inputs shared by evaluate and ledger save.
type snapshotFlags struct {
	pair      string
	entry     float64
	atr       float64
	slMult    float64
	tpMult    float64
	direction string
	emaFast   float64
	emaSlow   float64
	rsi       float64
	pattern   string
}

func (f *snapshotFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.pair, "pair", "p", "", "instrument: EUR/USD, GBP/USD or XAU/USD (default from config)")
	fs.Float64VarP(&f.entry, "entry", "e", 0, "entry price")
	fs.Float64Var(&f.atr, "atr", 0, "average true range")
	fs.Float64Var(&f.slMult, "sl-mult", 0, "stop-loss ATR multiplier (default from config)")
	fs.Float64Var(&f.tpMult, "tp-mult", 0, "take-profit ATR multiplier (default from config)")
	fs.StringVarP(&f.direction, "direction", "d", "Buy", "Buy or Sell")
	fs.Float64Var(&f.emaFast, "ema-fast", 0, "EMA 10")
	fs.Float64Var(&f.emaSlow, "ema-slow", 0, "EMA 50")
	fs.Float64Var(&f.rsi, "rsi", 0, "RSI 14")
	fs.StringVar(&f.pattern, "pattern", "None", "candlestick pattern on the last candle")
}

func (f *snapshotFlags) snapshot(cmd *cobra.Command, c *config.Config) (trade.Snapshot, error) {
	pair := c.Pair()
	if f.pair != "" {
		p, err := market.ParseInstrument(f.pair)
		if err != nil {
			return trade.Snapshot{}, err
		}
		pair = p
	}
	dir, err := trade.ParseDirection(f.direction)
	if err != nil {
		return trade.Snapshot{}, err
	}
	pattern, err := trade.ParsePattern(f.pattern)
	if err != nil {
		return trade.Snapshot{}, err
	}

	if err := requireFinite(
		"entry", f.entry, "atr", f.atr, "sl-mult", f.slMult, "tp-mult", f.tpMult,
		"ema-fast", f.emaFast, "ema-slow", f.emaSlow, "rsi", f.rsi,
	); err != nil {
		return trade.Snapshot{}, err
	}

	s := trade.Snapshot{
		Pair:         pair,
		EntryPrice:   f.entry,
		ATR:          f.atr,
		SLMultiplier: c.Evaluator.SLMultiplier,
		TPMultiplier: c.Evaluator.TPMultiplier,
		Direction:    dir,
		EMAFast:      f.emaFast,
		EMASlow:      f.emaSlow,
		RSI:          f.rsi,
		Pattern:      pattern,
	}
	if cmd.Flags().Changed("sl-mult") {
		s.SLMultiplier = f.slMult
	}
	if cmd.Flags().Changed("tp-mult") {
		s.TPMultiplier = f.tpMult
	}
	return s, nil
}

// indicatorFlagsSet reports which indicator inputs the user typed in, so
// prefilled values never replace them.
func indicatorFlagsSet(cmd *cobra.Command) map[string]bool {
	set := map[string]bool{}
	for _, name := range []string{"atr", "ema-fast", "ema-slow", "rsi", "pattern"} {
		set[name] = cmd.Flags().Changed(name)
	}
	return set
}

func requirePositive(name string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("--%s must be a positive price", name)
	}
	return nil
}

// requireFinite takes flag name and value pairs and rejects the first NaN
// or infinity, which pflag happily parses.
func requireFinite(pairs ...any) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if v := pairs[i+1].(float64); !market.IsFinite(v) {
			return fmt.Errorf("--%s must be a finite number", pairs[i])
		}
	}
	return nil
}
