// Package trade evaluates a trade idea: ATR-based stop and target levels,
// indicator alignment and a confirmation verdict.
package trade

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradeplan/market"
)

type Direction string

const (
	Buy  Direction = "Buy"
	Sell Direction = "Sell"
)

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "long":
		return Buy, nil
	case "sell", "short":
		return Sell, nil
	}
	return "", fmt.Errorf("unknown direction: %q", s)
}

// Pattern is the candlestick pattern observed at entry.
type Pattern string

const (
	NoPattern        Pattern = "None"
	BullishEngulfing Pattern = "Bullish Engulfing"
	BearishEngulfing Pattern = "Bearish Engulfing"
	Hammer           Pattern = "Hammer"
	ShootingStar     Pattern = "Shooting Star"
	Doji             Pattern = "Doji"
)

func Patterns() []Pattern {
	return []Pattern{NoPattern, BullishEngulfing, BearishEngulfing, Hammer, ShootingStar, Doji}
}

// ParsePattern matches case-insensitively and ignores separators, so
// "bullish-engulfing" and "Bullish Engulfing" are the same. Empty means None.
func ParsePattern(s string) (Pattern, error) {
	norm := func(v string) string {
		v = strings.ToLower(strings.TrimSpace(v))
		return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(v)
	}
	k := norm(s)
	if k == "" {
		return NoPattern, nil
	}
	for _, p := range Patterns() {
		if norm(string(p)) == k {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown candlestick pattern: %q", s)
}

// Snapshot is the full set of inputs for one evaluation. It is passed by
// value; nothing in this package modifies it.
type Snapshot struct {
	Pair         market.Instrument `json:"pair" yaml:"pair"`
	EntryPrice   float64           `json:"entry_price" yaml:"entry_price"`
	ATR          float64           `json:"atr" yaml:"atr"`
	SLMultiplier float64           `json:"sl_multiplier" yaml:"sl_multiplier"`
	TPMultiplier float64           `json:"tp_multiplier" yaml:"tp_multiplier"`
	Direction    Direction         `json:"direction" yaml:"direction"`
	EMAFast      float64           `json:"ema_fast" yaml:"ema_fast"`
	EMASlow      float64           `json:"ema_slow" yaml:"ema_slow"`
	RSI          float64           `json:"rsi" yaml:"rsi"`
	Pattern      Pattern           `json:"pattern" yaml:"pattern"`
}
