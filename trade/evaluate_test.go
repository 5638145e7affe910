package trade

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradeplan/market"
)

func eurusd(dir Direction) Snapshot {
	return Snapshot{
		Pair:         market.EURUSD,
		EntryPrice:   1.07000,
		ATR:          0.00185,
		SLMultiplier: 1.0,
		TPMultiplier: 2.0,
		Direction:    dir,
		EMAFast:      1.0710,
		EMASlow:      1.0690,
		RSI:          55,
		Pattern:      NoPattern,
	}
}

func TestLevelsBuy(t *testing.T) {
	t.Parallel()

	e := Evaluate(eurusd(Buy))
	assert.InDelta(t, 1.06815, e.SL, 1e-9)
	assert.InDelta(t, 1.07370, e.TP, 1e-9)
	assert.InDelta(t, 2.0, e.RewardRisk, 1e-9)
}

func TestLevelsSell(t *testing.T) {
	t.Parallel()

	e := Evaluate(eurusd(Sell))
	assert.InDelta(t, 1.07185, e.SL, 1e-9)
	assert.InDelta(t, 1.06630, e.TP, 1e-9)
}

func TestLevelsOrdering(t *testing.T) {
	t.Parallel()

	entries := []float64{0.5, 1.07, 1.2634, 2350.4}
	atrs := []float64{0.0001, 0.00185, 1.5, 12}
	mults := []float64{0.5, 1, 1.5, 3}

	for _, entry := range entries {
		for _, atr := range atrs {
			for _, m := range mults {
				s := Snapshot{EntryPrice: entry, ATR: atr, SLMultiplier: m, TPMultiplier: m * 2}

				s.Direction = Buy
				sl, tp := Levels(s)
				assert.Less(t, sl, entry)
				assert.LessOrEqual(t, entry, tp)

				s.Direction = Sell
				sl, tp = Levels(s)
				assert.Greater(t, sl, entry)
				assert.GreaterOrEqual(t, entry, tp)
			}
		}
	}
}

func TestLevelsZeroATR(t *testing.T) {
	t.Parallel()

	s := eurusd(Buy)
	s.ATR = 0
	e := Evaluate(s)
	assert.Equal(t, s.EntryPrice, e.SL)
	assert.Equal(t, s.EntryPrice, e.TP)
	assert.Equal(t, 0.0, e.RewardRisk)
}

func TestEvaluateOverflow(t *testing.T) {
	t.Parallel()

	s := eurusd(Buy)
	s.EntryPrice = 1e308
	s.ATR = 1e308
	s.SLMultiplier = 10

	var e Evaluation
	require.NotPanics(t, func() { e = Evaluate(s) })
	assert.True(t, math.IsInf(e.SL, -1))
	assert.False(t, e.Finite())
	assert.True(t, Evaluate(eurusd(Buy)).Finite())
}

func TestEvaluateDoesNotModifySnapshot(t *testing.T) {
	t.Parallel()

	s := eurusd(Buy)
	before := s
	_ = Evaluate(s)
	assert.Equal(t, before, s)
}

func TestEMAAligned(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		fast, slow float64
		dir        Direction
		want       bool
	}{
		{"buy uptrend", 1.2, 1.1, Buy, true},
		{"buy downtrend", 1.1, 1.2, Buy, false},
		{"sell downtrend", 1.1, 1.2, Sell, true},
		{"sell uptrend", 1.2, 1.1, Sell, false},
		{"buy equal", 1.1, 1.1, Buy, false},
		{"sell equal", 1.1, 1.1, Sell, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := Snapshot{EMAFast: tt.fast, EMASlow: tt.slow, Direction: tt.dir}
			assert.Equal(t, tt.want, EMAAligned(s))
		})
	}
}

func TestRSIAligned(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rsi  float64
		dir  Direction
		want bool
	}{
		{"buy strong", 62, Buy, true},
		{"buy weak", 38, Buy, false},
		{"sell weak", 38, Sell, true},
		{"sell strong", 62, Sell, false},
		{"buy fifty", 50, Buy, false},
		{"sell fifty", 50, Sell, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := Snapshot{RSI: tt.rsi, Direction: tt.dir}
			assert.Equal(t, tt.want, RSIAligned(s))
		})
	}
}

func TestVerdictBands(t *testing.T) {
	t.Parallel()

	for _, ema := range []bool{false, true} {
		for _, rsi := range []bool{false, true} {
			for _, p := range []Pattern{NoPattern, Hammer} {
				name := fmt.Sprintf("ema=%v rsi=%v pattern=%s", ema, rsi, p)
				got := verdict(ema, rsi, p)

				full := ema && rsi && p != NoPattern
				none := !ema && !rsi && p == NoPattern
				partial := !full && !none

				bands := 0
				for _, b := range []bool{full, none, partial} {
					if b {
						bands++
					}
				}
				require.Equal(t, 1, bands, name)

				switch {
				case full:
					assert.Equal(t, VerdictFull, got, name)
				case none:
					assert.Equal(t, VerdictNone, got, name)
				default:
					assert.Equal(t, VerdictPartial, got, name)
				}
			}
		}
	}
}

func TestEvaluateVerdict(t *testing.T) {
	t.Parallel()

	s := eurusd(Buy)
	s.Pattern = BullishEngulfing
	assert.Equal(t, VerdictFull, Evaluate(s).Verdict)

	s.Pattern = NoPattern
	assert.Equal(t, VerdictPartial, Evaluate(s).Verdict)

	s = eurusd(Sell)
	assert.Equal(t, VerdictNone, Evaluate(s).Verdict)

	// empty pattern is the same as None
	s.Pattern = ""
	assert.Equal(t, VerdictNone, Evaluate(s).Verdict)
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	d, err := ParseDirection("BUY")
	require.NoError(t, err)
	assert.Equal(t, Buy, d)

	d, err = ParseDirection("short")
	require.NoError(t, err)
	assert.Equal(t, Sell, d)

	_, err = ParseDirection("hold")
	assert.Error(t, err)
}

func TestParsePattern(t *testing.T) {
	t.Parallel()

	tests := map[string]Pattern{
		"":                  NoPattern,
		"none":              NoPattern,
		"Bullish Engulfing": BullishEngulfing,
		"bearish-engulfing": BearishEngulfing,
		"hammer":            Hammer,
		"shooting_star":     ShootingStar,
		"DOJI":              Doji,
	}
	for in, want := range tests {
		got, err := ParsePattern(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePattern("three white soldiers")
	assert.Error(t, err)
}
