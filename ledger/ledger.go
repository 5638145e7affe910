// Package ledger stores evaluated trades and answers the dashboard's
// filter, outcome and aggregate queries.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/trade"
)

// DateLayout is how Date is written in the ledger file and exports.
const DateLayout = "2006-01-02 15:04:05"

// Columns is the ledger file header, in order.
var Columns = []string{
	"Date", "Pair", "Direction", "Entry", "SL", "TP", "ATR",
	"SL Multiplier", "TP Multiplier", "EMA 10", "EMA 50", "RSI",
	"Candlestick Pattern",
}

// ErrStorageUnavailable means the backing store exists but could not be
// read. Callers treat the ledger as empty and show a notice.
var ErrStorageUnavailable = errors.New("ledger storage unavailable")

// ErrNonFinite rejects entries holding NaN or an infinity, which the JSON
// export cannot represent.
var ErrNonFinite = errors.New("ledger entry has a non-finite number")

// Entry is one saved trade: the snapshot fields flattened plus the levels
// computed for it. Entries are never edited or removed.
type Entry struct {
	Date time.Time
	trade.Snapshot
	SL float64
	TP float64
}

// NewEntry builds the record saved for s. Date is kept at second
// precision in UTC, which is what the ledger file can represent.
func NewEntry(date time.Time, s trade.Snapshot, e trade.Evaluation) Entry {
	return Entry{
		Date:     date.UTC().Truncate(time.Second),
		Snapshot: s,
		SL:       e.SL,
		TP:       e.TP,
	}
}

// Finite reports whether every number in e is finite.
func (e Entry) Finite() bool {
	for _, v := range []float64{
		e.EntryPrice, e.SL, e.TP, e.ATR, e.SLMultiplier, e.TPMultiplier,
		e.EMAFast, e.EMASlow, e.RSI,
	} {
		if !market.IsFinite(v) {
			return false
		}
	}
	return true
}

// Store is an append-only ledger backend.
type Store interface {
	Append(ctx context.Context, e Entry) error
	Load(ctx context.Context) ([]Entry, error)
	Close() error
}
