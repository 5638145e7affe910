package ledger

import (
	"gonum.org/v1/gonum/stat"

	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/risk"
	"github.com/rustyeddy/tradeplan/trade"
)

// Summary aggregates a ledger view for the dashboard.
type Summary struct {
	Total       int                       `json:"total"`
	Wins        int                       `json:"wins"`
	Losses      int                       `json:"losses"`
	WinRate     float64                   `json:"win_rate"`
	ByPair      map[market.Instrument]int `json:"by_pair"`
	ByDirection map[trade.Direction]int   `json:"by_direction"`
	MeanATR     float64                   `json:"mean_atr"`
	MeanRR      float64                   `json:"mean_rr"`
}

func Summarize(entries []Entry) Summary {
	s := Summary{
		Total:       len(entries),
		ByPair:      make(map[market.Instrument]int),
		ByDirection: make(map[trade.Direction]int),
	}
	if len(entries) == 0 {
		return s
	}

	atrs := make([]float64, 0, len(entries))
	rrs := make([]float64, 0, len(entries))
	for _, e := range entries {
		if e.Outcome() == Win {
			s.Wins++
		} else {
			s.Losses++
		}
		s.ByPair[e.Pair]++
		s.ByDirection[e.Direction]++
		atrs = append(atrs, e.ATR)
		rrs = append(rrs, risk.RR(e.EntryPrice, e.SL, e.TP))
	}

	s.WinRate = float64(s.Wins) / float64(s.Total)
	s.MeanATR = stat.Mean(atrs, nil)
	s.MeanRR = stat.Mean(rrs, nil)
	return s
}
