package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/trade"
)

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	s := Summarize(nil)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0.0, s.WinRate)
	assert.Equal(t, 0.0, s.MeanATR)
	assert.Empty(t, s.ByPair)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	entries := sampleEntries(6)
	// One entry with an inverted target counts as a loss.
	entries[0].TP = entries[0].EntryPrice - 0.001

	s := Summarize(entries)
	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 5, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.InDelta(t, 5.0/6.0, s.WinRate, 1e-12)
	assert.Equal(t, 2, s.ByPair[market.EURUSD])
	assert.Equal(t, 2, s.ByPair[market.XAUUSD])
	assert.Equal(t, 3, s.ByDirection[trade.Buy])
	assert.Equal(t, 3, s.ByDirection[trade.Sell])

	wantATR := (0.00185 + 0.00231 + 12.7) * 2 / 6
	assert.InDelta(t, wantATR, s.MeanATR, 1e-9)
	assert.Greater(t, s.MeanRR, 0.0)
}
