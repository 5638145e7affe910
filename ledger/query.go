package ledger

import (
	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/trade"
)

type Outcome string

const (
	Win  Outcome = "Win"
	Loss Outcome = "Loss"
)

// Outcome labels e from where its TP sits relative to the entry, not from
// how the trade closed; the ledger has no closing data.
func (e Entry) Outcome() Outcome {
	if (e.Direction == trade.Buy && e.TP > e.EntryPrice) ||
		(e.Direction == trade.Sell && e.TP < e.EntryPrice) {
		return Win
	}
	return Loss
}

// Query keeps the entries whose pair is in pairs, preserving order. An
// empty pairs list matches nothing; pass market.AllInstruments() for all.
func Query(entries []Entry, pairs []market.Instrument) []Entry {
	set := make(map[market.Instrument]bool, len(pairs))
	for _, p := range pairs {
		set[p] = true
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if set[e.Pair] {
			out = append(out, e)
		}
	}
	return out
}
