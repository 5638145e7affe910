package risk

import "fmt"

// Violation is a notice, not a rejection. Out-of-range inputs are accepted
// and reported so the caller can show them next to the result.
type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}

type Decision struct {
	Violations []Violation `json:"violations,omitempty"`

	PlannedRisk    float64 `json:"planned_risk"`
	PlannedRiskPct float64 `json:"planned_risk_pct"`
	PlannedRR      float64 `json:"planned_rr"`
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
}

// OK reports whether no notices were raised.
func (d Decision) OK() bool {
	return len(d.Violations) == 0
}

func Check(p Policy, in Inputs, takeProfit float64) Decision {
	var d Decision

	if in.Equity <= 0 {
		d.add("EQUITY_OUT_OF_RANGE", fmt.Sprintf("account size %.2f should be positive", in.Equity))
	}
	if in.RiskPct <= 0 || in.RiskPct > 100 {
		d.add("RISK_PCT_OUT_OF_RANGE", fmt.Sprintf("risk %.2f%% should be in (0, 100]", in.RiskPct))
	}
	if in.EntryPrice <= 0 {
		d.add("ENTRY_OUT_OF_RANGE", fmt.Sprintf("entry %.5f should be positive", in.EntryPrice))
	}

	res, err := Size(in)
	if err != nil {
		d.add("NO_STOP_DISTANCE", err.Error())
	} else if in.Equity > 0 {
		d.PlannedRisk = PlannedRisk(res.Units, in.EntryPrice, in.StopPrice, 1.0)
		d.PlannedRiskPct = 100 * RiskPct(d.PlannedRisk, in.Equity)
	}
	d.PlannedRR = RR(in.EntryPrice, in.StopPrice, takeProfit)

	if p.MaxRiskPct > 0 && in.RiskPct > p.MaxRiskPct {
		d.add("RISK_TOO_HIGH",
			fmt.Sprintf("risk %.2f%% exceeds max %.2f%%", in.RiskPct, p.MaxRiskPct))
	}
	if p.MinRR > 0 && d.PlannedRR < p.MinRR {
		d.add("RR_TOO_LOW",
			fmt.Sprintf("RR %.2f below minimum %.2f", d.PlannedRR, p.MinRR))
	}

	return d
}
