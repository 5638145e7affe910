package risk

type Policy struct {
	// Percent, 2.0 means 2%.
	MaxRiskPct float64 `json:"max_risk_percent" yaml:"max_risk_percent"`

	MinRR float64 `json:"min_rr" yaml:"min_rr"`
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRiskPct: 2.0,
		MinRR:      1.5,
	}
}
