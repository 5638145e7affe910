package server

import (
	"github.com/rustyeddy/tradeplan/config"
	"github.com/rustyeddy/tradeplan/ledger"
	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/pkg/validate"
	"github.com/rustyeddy/tradeplan/risk"
	"github.com/rustyeddy/tradeplan/trade"
)

// snapshotRequest is the body of /api/evaluate and POST /api/ledger.
// Multipliers left out fall back to the configured ones. Out-of-range
// indicator values are accepted as given.
type snapshotRequest struct {
	Pair         string   `json:"pair" validate:"required"`
	EntryPrice   float64  `json:"entry_price" validate:"required"`
	ATR          float64  `json:"atr"`
	SLMultiplier *float64 `json:"sl_multiplier"`
	TPMultiplier *float64 `json:"tp_multiplier"`
	Direction    string   `json:"direction" default:"Buy"`
	EMAFast      float64  `json:"ema_fast"`
	EMASlow      float64  `json:"ema_slow"`
	RSI          float64  `json:"rsi"`
	Pattern      string   `json:"pattern" default:"None"`
}

func (r snapshotRequest) snapshot(cfg *config.Config) (trade.Snapshot, error) {
	var errs validate.Errors

	pair, err := market.ParseInstrument(r.Pair)
	if err != nil {
		errs = append(errs, validate.FieldError{Code: "ERR_INSTRUMENT", Field: "pair", Message: err.Error()})
	}
	dir, err := trade.ParseDirection(r.Direction)
	if err != nil {
		errs = append(errs, validate.FieldError{Code: "ERR_DIRECTION", Field: "direction", Message: err.Error()})
	}
	pattern, err := trade.ParsePattern(r.Pattern)
	if err != nil {
		errs = append(errs, validate.FieldError{Code: "ERR_PATTERN", Field: "pattern", Message: err.Error()})
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"entry_price", &r.EntryPrice}, {"atr", &r.ATR}, {"sl_multiplier", r.SLMultiplier},
		{"tp_multiplier", r.TPMultiplier}, {"ema_fast", &r.EMAFast}, {"ema_slow", &r.EMASlow}, {"rsi", &r.RSI},
	} {
		if f.v != nil && !market.IsFinite(*f.v) {
			errs = append(errs, validate.FieldError{Code: "ERR_NOT_FINITE", Field: f.name, Message: f.name + " must be a finite number"})
		}
	}
	if len(errs) > 0 {
		return trade.Snapshot{}, errs
	}

	s := trade.Snapshot{
		Pair:         pair,
		EntryPrice:   r.EntryPrice,
		ATR:          r.ATR,
		SLMultiplier: cfg.Evaluator.SLMultiplier,
		TPMultiplier: cfg.Evaluator.TPMultiplier,
		Direction:    dir,
		EMAFast:      r.EMAFast,
		EMASlow:      r.EMASlow,
		RSI:          r.RSI,
		Pattern:      pattern,
	}
	if r.SLMultiplier != nil {
		s.SLMultiplier = *r.SLMultiplier
	}
	if r.TPMultiplier != nil {
		s.TPMultiplier = *r.TPMultiplier
	}
	return s, nil
}

type evaluateResponse struct {
	Snapshot   trade.Snapshot   `json:"snapshot"`
	Evaluation trade.Evaluation `json:"evaluation"`
	SL         string           `json:"sl_display"`
	TP         string           `json:"tp_display"`
	SLPips     float64          `json:"sl_pips"`
	TPPips     float64          `json:"tp_pips"`
}

func newEvaluateResponse(s trade.Snapshot, e trade.Evaluation) evaluateResponse {
	return evaluateResponse{
		Snapshot:   s,
		Evaluation: e,
		SL:         market.FormatPrice(s.Pair, e.SL),
		TP:         market.FormatPrice(s.Pair, e.TP),
		SLPips:     market.Pips(s.Pair, e.SL-s.EntryPrice),
		TPPips:     market.Pips(s.Pair, e.TP-s.EntryPrice),
	}
}

// sizeRequest is the body of /api/size. Zero account size or risk percent
// fall back to the configured account.
type sizeRequest struct {
	Pair        string  `json:"pair" validate:"required"`
	AccountSize float64 `json:"account_size"`
	RiskPercent float64 `json:"risk_percent"`
	EntryPrice  float64 `json:"entry_price" validate:"required"`
	StopPrice   float64 `json:"sl_price" validate:"required"`
	TakeProfit  float64 `json:"tp_price"`
}

func (r sizeRequest) inputs(cfg *config.Config) (risk.Inputs, error) {
	pair, err := market.ParseInstrument(r.Pair)
	if err != nil {
		return risk.Inputs{}, validate.Errors{{Code: "ERR_INSTRUMENT", Field: "pair", Message: err.Error()}}
	}
	in := risk.Inputs{
		Equity:      r.AccountSize,
		RiskPct:     r.RiskPercent,
		EntryPrice:  r.EntryPrice,
		StopPrice:   r.StopPrice,
		PipLocation: pair.Meta().PipLocation,
	}
	if in.Equity == 0 {
		in.Equity = cfg.Account.Balance
	}
	if in.RiskPct == 0 {
		in.RiskPct = cfg.Account.RiskPercent
	}
	return in, nil
}

type sizeResponse struct {
	Pair      market.Instrument `json:"pair"`
	Inputs    risk.Inputs       `json:"inputs"`
	Result    risk.Result       `json:"result"`
	Lots      float64           `json:"lots"`
	RiskLevel float64           `json:"risk_level"`
	Decision  risk.Decision     `json:"decision"`
}

type ledgerRow struct {
	Entry   ledger.Entry   `json:"entry"`
	Outcome ledger.Outcome `json:"outcome"`
}

type ledgerResponse struct {
	Entries []ledgerRow `json:"entries"`
	Notice  string      `json:"notice,omitempty"`
}

type summaryResponse struct {
	ledger.Summary
	Notice string `json:"notice,omitempty"`
}

type errorResponse struct {
	Errors validate.Errors `json:"errors"`
}
