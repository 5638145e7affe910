package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/trade"
)

func snapshot(pair market.Instrument, dir trade.Direction, entry, atr float64) trade.Snapshot {
	return trade.Snapshot{
		Pair:         pair,
		EntryPrice:   entry,
		ATR:          atr,
		SLMultiplier: 1.5,
		TPMultiplier: 3.0,
		Direction:    dir,
		EMAFast:      entry * 1.001,
		EMASlow:      entry * 0.999,
		RSI:          56.4,
		Pattern:      trade.Hammer,
	}
}

// sampleEntries builds n entries cycling through pairs and directions,
// with levels computed by the evaluator.
func sampleEntries(n int) []Entry {
	base := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	pairs := []struct {
		pair  market.Instrument
		price float64
		atr   float64
	}{
		{market.EURUSD, 1.07000, 0.00185},
		{market.GBPUSD, 1.26345, 0.00231},
		{market.XAUUSD, 2350.45, 12.7},
	}

	out := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		p := pairs[i%len(pairs)]
		dir := trade.Buy
		if i%2 == 1 {
			dir = trade.Sell
		}
		s := snapshot(p.pair, dir, p.price, p.atr)
		out = append(out, NewEntry(base.Add(time.Duration(i)*time.Hour), s, trade.Evaluate(s)))
	}
	return out
}

func requireEntriesEqual(t *testing.T, want, got []Entry) {
	t.Helper()

	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Date.Equal(got[i].Date), "row %d date: want %s got %s", i, want[i].Date, got[i].Date)
		assert.Equal(t, want[i].Snapshot, got[i].Snapshot, "row %d snapshot", i)
		assert.Equal(t, want[i].SL, got[i].SL, "row %d SL", i)
		assert.Equal(t, want[i].TP, got[i].TP, "row %d TP", i)
	}
}
