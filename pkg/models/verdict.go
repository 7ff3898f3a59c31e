package models

// Verdict is the comparison of intrinsic value against market price.
type Verdict string

const (
	VerdictUndervalued Verdict = "Undervalued"
	VerdictOvervalued  Verdict = "Overvalued"
	VerdictEqual       Verdict = "Equal"
)

// ValuationResult is the final output of the valuation assembler.
type ValuationResult struct {
	DCFEnterpriseValue     float64 `json:"dcf_enterprise_value"`
	IntrinsicValuePerShare float64 `json:"intrinsic_value_per_share"`
	CurrentPrice           float64 `json:"current_price"`
	Verdict                Verdict `json:"verdict"`
}
