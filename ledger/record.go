package ledger

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/trade"
)

// record is the column-keyed shape used by the JSON export and the API.
type record struct {
	Date         string  `json:"Date"`
	Pair         string  `json:"Pair"`
	Direction    string  `json:"Direction"`
	Entry        float64 `json:"Entry"`
	SL           float64 `json:"SL"`
	TP           float64 `json:"TP"`
	ATR          float64 `json:"ATR"`
	SLMultiplier float64 `json:"SL Multiplier"`
	TPMultiplier float64 `json:"TP Multiplier"`
	EMAFast      float64 `json:"EMA 10"`
	EMASlow      float64 `json:"EMA 50"`
	RSI          float64 `json:"RSI"`
	Pattern      string  `json:"Candlestick Pattern"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{
		Date:         e.Date.UTC().Format(DateLayout),
		Pair:         string(e.Pair),
		Direction:    string(e.Direction),
		Entry:        e.EntryPrice,
		SL:           e.SL,
		TP:           e.TP,
		ATR:          e.ATR,
		SLMultiplier: e.SLMultiplier,
		TPMultiplier: e.TPMultiplier,
		EMAFast:      e.EMAFast,
		EMASlow:      e.EMASlow,
		RSI:          e.RSI,
		Pattern:      string(e.Pattern),
	})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	date, err := parseDate(r.Date)
	if err != nil {
		return err
	}
	*e = Entry{
		Date: date,
		Snapshot: trade.Snapshot{
			Pair:         market.Instrument(r.Pair),
			EntryPrice:   r.Entry,
			ATR:          r.ATR,
			SLMultiplier: r.SLMultiplier,
			TPMultiplier: r.TPMultiplier,
			Direction:    trade.Direction(r.Direction),
			EMAFast:      r.EMAFast,
			EMASlow:      r.EMASlow,
			RSI:          r.RSI,
			Pattern:      trade.Pattern(r.Pattern),
		},
		SL: r.SL,
		TP: r.TP,
	}
	return nil
}

// row renders e in Columns order.
func (e Entry) row() []string {
	return []string{
		e.Date.UTC().Format(DateLayout),
		string(e.Pair),
		string(e.Direction),
		f(e.EntryPrice),
		f(e.SL),
		f(e.TP),
		f(e.ATR),
		f(e.SLMultiplier),
		f(e.TPMultiplier),
		f(e.EMAFast),
		f(e.EMASlow),
		f(e.RSI),
		string(e.Pattern),
	}
}

// decodeRows maps rows onto entries by header name, so column order in
// the file does not matter.
func decodeRows(header []string, rows [][]string) ([]Entry, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	out := make([]Entry, 0, len(rows))
	for n, row := range rows {
		get := func(col string) string {
			i := idx[col]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		num := func(col string, dst *float64) error {
			v, err := strconv.ParseFloat(get(col), 64)
			if err != nil {
				return fmt.Errorf("row %d: %s: %w", n+1, col, err)
			}
			*dst = v
			return nil
		}

		var e Entry
		date, err := parseDate(get("Date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, err)
		}
		e.Date = date
		e.Pair = market.Instrument(get("Pair"))
		e.Direction = trade.Direction(get("Direction"))
		e.Pattern = trade.Pattern(get("Candlestick Pattern"))

		for _, p := range []struct {
			col string
			dst *float64
		}{
			{"Entry", &e.EntryPrice},
			{"SL", &e.SL},
			{"TP", &e.TP},
			{"ATR", &e.ATR},
			{"SL Multiplier", &e.SLMultiplier},
			{"TP Multiplier", &e.TPMultiplier},
			{"EMA 10", &e.EMAFast},
			{"EMA 50", &e.EMASlow},
			{"RSI", &e.RSI},
		} {
			if err := num(p.col, p.dst); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// f prints the shortest representation that parses back to the same float.
func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
