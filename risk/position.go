package risk

// Sizing is in account currency per unit of price move. For a USD account
// on a USD-quoted pair (EUR/USD, GBP/USD, XAU/USD) no conversion is needed.

import (
	"errors"
	"math"
)

// ErrDivisionUndefined is returned when entry and stop coincide, which
// happens with a zero ATR or a zero SL multiplier.
var ErrDivisionUndefined = errors.New("position size undefined: stop equals entry")

type Inputs struct {
	Equity      float64 `json:"account_size"`
	RiskPct     float64 `json:"risk_percent"` // 1.0 means 1%
	EntryPrice  float64 `json:"entry_price"`
	StopPrice   float64 `json:"sl_price"`
	PipLocation int     `json:"pip_location"`
}

type Result struct {
	Units      float64 `json:"units"`
	RiskAmount float64 `json:"risk_amount"`
	PriceDiff  float64 `json:"price_diff"`
	StopPips   float64 `json:"stop_pips"`
}

func pipSize(loc int) float64 {
	return math.Pow(10, float64(loc))
}

// PipSize returns the pip size for a given pip location.
func PipSize(loc int) float64 {
	return pipSize(loc)
}

// Size returns the largest position that loses RiskPct of Equity if the
// stop is hit. Units are not rounded.
func Size(in Inputs) (Result, error) {
	res := Result{
		RiskAmount: in.Equity * in.RiskPct / 100,
		PriceDiff:  abs(in.EntryPrice - in.StopPrice),
	}
	res.StopPips = res.PriceDiff / pipSize(in.PipLocation)

	if res.PriceDiff == 0 {
		return res, ErrDivisionUndefined
	}
	res.Units = res.RiskAmount / res.PriceDiff
	return res, nil
}

// Lots expresses Units in lots of lotSize units.
func (r Result) Lots(lotSize float64) float64 {
	if lotSize <= 0 {
		return r.Units
	}
	return r.Units / lotSize
}

// RiskLevel maps a risk percent onto 0..1 for a risk meter, with 10% as
// the top of the scale.
func RiskLevel(riskPct float64) float64 {
	return math.Max(0, math.Min(1, riskPct/10))
}
