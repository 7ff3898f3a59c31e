package valuation

import (
	"math"

	"dcf_valuation/pkg/models"
)

// verdictEpsilon guards the equality comparison against float flakiness.
const verdictEpsilon = 1e-9

// Assemble turns the enterprise value into an intrinsic per-share value and
// compares it against the current market price.
func Assemble(enterpriseValue, netDebt, sharesOutstanding, currentPrice float64) models.ValuationResult {
	intrinsic := 0.0
	if sharesOutstanding > 0 {
		intrinsic = (enterpriseValue - netDebt) / sharesOutstanding
	}

	verdict := models.VerdictEqual
	switch {
	case intrinsic-currentPrice > verdictEpsilon:
		verdict = models.VerdictUndervalued
	case currentPrice-intrinsic > verdictEpsilon:
		verdict = models.VerdictOvervalued
	}

	return models.ValuationResult{
		DCFEnterpriseValue:     enterpriseValue,
		IntrinsicValuePerShare: intrinsic,
		CurrentPrice:           currentPrice,
		Verdict:                verdict,
	}
}

// Upside is the relative gap between intrinsic value and market price,
// e.g. 0.15 for 15% upside. Returns 0 when the price is 0.
func Upside(result models.ValuationResult) float64 {
	if result.CurrentPrice == 0 {
		return 0
	}
	return (result.IntrinsicValuePerShare - result.CurrentPrice) / math.Abs(result.CurrentPrice)
}
