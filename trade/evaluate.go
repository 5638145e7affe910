package trade

import (
	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/risk"
)

type Verdict string

const (
	VerdictFull    Verdict = "Full"
	VerdictPartial Verdict = "Partial"
	VerdictNone    Verdict = "None"
)

// Evaluation is derived from a Snapshot and never stored on its own.
type Evaluation struct {
	SL         float64 `json:"sl_price"`
	TP         float64 `json:"tp_price"`
	EMAAligned bool    `json:"ema_aligned"`
	RSIAligned bool    `json:"rsi_aligned"`
	Verdict    Verdict `json:"verdict"`

	// RewardRisk is the distance to TP over the distance to SL, 0 when the
	// stop sits on the entry.
	RewardRisk float64 `json:"reward_risk"`
}

// Evaluate computes levels, alignment and the verdict. It is total: any
// real inputs produce an Evaluation.
func Evaluate(s Snapshot) Evaluation {
	sl, tp := Levels(s)
	ema := EMAAligned(s)
	rsi := RSIAligned(s)

	return Evaluation{
		SL:         sl,
		TP:         tp,
		EMAAligned: ema,
		RSIAligned: rsi,
		Verdict:    verdict(ema, rsi, s.Pattern),
		RewardRisk: risk.RR(s.EntryPrice, sl, tp),
	}
}

// Finite reports whether the levels and reward:risk are finite. Finite
// but huge inputs can still overflow to an infinity.
func (e Evaluation) Finite() bool {
	return market.IsFinite(e.SL) && market.IsFinite(e.TP) && market.IsFinite(e.RewardRisk)
}

// Levels returns the stop-loss and take-profit prices. No clamping; a
// zero ATR puts both on the entry.
func Levels(s Snapshot) (sl, tp float64) {
	slDist := s.ATR * s.SLMultiplier
	tpDist := s.ATR * s.TPMultiplier
	if s.Direction == Sell {
		return s.EntryPrice + slDist, s.EntryPrice - tpDist
	}
	return s.EntryPrice - slDist, s.EntryPrice + tpDist
}

// EMAAligned reports whether the EMA trend agrees with the direction.
// Equal EMAs never align.
func EMAAligned(s Snapshot) bool {
	return (s.EMAFast > s.EMASlow && s.Direction == Buy) ||
		(s.EMAFast < s.EMASlow && s.Direction == Sell)
}

// RSIAligned reports whether momentum agrees with the direction. An RSI of
// exactly 50 never aligns.
func RSIAligned(s Snapshot) bool {
	return (s.RSI > 50 && s.Direction == Buy) ||
		(s.RSI < 50 && s.Direction == Sell)
}

func verdict(ema, rsi bool, p Pattern) Verdict {
	hasPattern := p != "" && p != NoPattern
	switch {
	case ema && rsi && hasPattern:
		return VerdictFull
	case !ema && !rsi && !hasPattern:
		return VerdictNone
	default:
		return VerdictPartial
	}
}
