// Package fundamentals derives the FinancialSnapshot from the most recent
// annual statements of a company. Every field passes through the numeric
// safety layer, so the extractor never fails: missing statements or fields
// degrade to their documented defaults.
package fundamentals

import (
	"math"

	"dcf_valuation/pkg/core/numeric"
	"dcf_valuation/pkg/models"
)

// DefaultSharesOutstanding is substituted when the overview carries no
// share count. It prevents a division by zero downstream but silently
// biases the per-share result, so the pipeline audits its use.
const DefaultSharesOutstanding = 1e9

// Statements bundles the most recent annual reports for one ticker.
// Any of the records may be nil or partially populated.
type Statements struct {
	Income   models.Record
	CashFlow models.Record
	Balance  models.Record
	Overview models.Record
}

// Extract derives the fundamental metrics for a ticker.
func Extract(ticker string, st Statements) models.FinancialSnapshot {
	ocf := numeric.SafeFloat(st.CashFlow.Get("operatingCashflow"), 0)
	capex := numeric.SafeFloat(st.CashFlow.Get("capitalExpenditures"), 0)

	shortTermDebt := numeric.SafeFloat(st.Balance.Get("shortTermDebt"), 0)
	longTermDebt := numeric.SafeFloat(st.Balance.Get("longTermDebt"), 0)
	cash := numeric.SafeFloat(st.Balance.Get("cashAndCashEquivalentsAtCarryingValue"), 0)

	shares := numeric.SafeFloat(st.Overview.Get("SharesOutstanding"), DefaultSharesOutstanding)
	marketCap := numeric.SafeFloat(st.Overview.Get("MarketCapitalization"), 0)

	currentPrice := 0.0
	if shares > 0 {
		currentPrice = marketCap / shares
	}

	return models.FinancialSnapshot{
		Ticker:            ticker,
		Revenue:           numeric.SafeFloat(st.Income.Get("totalRevenue"), 0),
		OperatingIncome:   numeric.SafeFloat(st.Income.Get("operatingIncome"), 0),
		OperatingCashFlow: ocf,
		Capex:             capex,
		FreeCashFlow:      FreeCashFlow(ocf, capex),
		ShortTermDebt:     shortTermDebt,
		LongTermDebt:      longTermDebt,
		Cash:              cash,
		NetDebt:           shortTermDebt + longTermDebt - cash,
		SharesOutstanding: shares,
		MarketCap:         marketCap,
		CurrentPrice:      currentPrice,
	}
}

// FreeCashFlow computes operating cash flow minus the capex adjustment.
// Providers disagree on the sign convention for capital expenditures:
// some report the outflow as a negative number, some as a positive one.
// A negative capex is used as-is, a positive one is subtracted as abs(capex).
func FreeCashFlow(ocf, capex float64) float64 {
	if capex < 0 {
		return ocf - capex
	}
	return ocf - math.Abs(capex)
}
