package indicators

import (
	"math"

	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/trade"
)

// Shape thresholds, as fractions of the candle's range.
const (
	dojiBody   = 0.1
	pinBody    = 0.35
	pinWick    = 2.0 // long wick vs body
	pinOpposed = 0.1 // short wick vs range
)

// DetectPattern classifies the last candle, looking back one candle for
// engulfing patterns. Engulfing wins over single-candle shapes.
func DetectPattern(candles []market.Candle) trade.Pattern {
	n := len(candles)
	if n == 0 {
		return trade.NoPattern
	}
	cur := candles[n-1]

	if n >= 2 {
		prev := candles[n-2]
		switch {
		case bearish(prev) && bullish(cur) && cur.Open <= prev.Close && cur.Close >= prev.Open:
			return trade.BullishEngulfing
		case bullish(prev) && bearish(cur) && cur.Open >= prev.Close && cur.Close <= prev.Open:
			return trade.BearishEngulfing
		}
	}

	rng := cur.High - cur.Low
	if rng <= 0 {
		return trade.NoPattern
	}
	body := math.Abs(cur.Close - cur.Open)
	upper := cur.High - math.Max(cur.Open, cur.Close)
	lower := math.Min(cur.Open, cur.Close) - cur.Low

	switch {
	case body <= dojiBody*rng:
		return trade.Doji
	case body <= pinBody*rng && lower >= pinWick*body && upper <= pinOpposed*rng:
		return trade.Hammer
	case body <= pinBody*rng && upper >= pinWick*body && lower <= pinOpposed*rng:
		return trade.ShootingStar
	}
	return trade.NoPattern
}

func bullish(c market.Candle) bool { return c.Close > c.Open }
func bearish(c market.Candle) bool { return c.Close < c.Open }
