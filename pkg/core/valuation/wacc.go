// Package valuation holds the closed-form valuation math: the WACC engine,
// the DCF projector/discounter and the final assembler. Everything in this
// package is deterministic; provider access happens through narrow source
// interfaces so each calculation is testable without a network.
package valuation

import (
	"context"
	"fmt"
	"math"

	"dcf_valuation/pkg/core/fundamentals"
	"dcf_valuation/pkg/core/numeric"
	"dcf_valuation/pkg/models"
)

// Fallback constants for the WACC input fetches.
const (
	FallbackBeta          = 1.2
	FallbackPreviousClose = 200.0

	FallbackTotalDebt       = 1e9
	FallbackInterestExpense = 1e7
	FallbackTaxesPaid       = 1e7
	FallbackPreTaxIncome    = 5e7

	DefaultCostOfDebt = 0.03
	DefaultTaxRate    = 0.21

	DefaultWeightEquity = 0.8
	DefaultWeightDebt   = 0.2
)

// FallbackMarketValueEquity assumes the fallback price over a billion shares.
const FallbackMarketValueEquity = FallbackPreviousClose * 1e9

// CapitalStructure carries the raw figures the WACC derivation works from.
type CapitalStructure struct {
	Beta              float64
	MarketValueEquity float64
	TotalDebt         float64
	InterestExpense   float64
	TaxesPaid         float64
	PreTaxIncome      float64
}

// WACCResult is the derived discount rate with its full breakdown.
type WACCResult struct {
	WACC               float64 `json:"wacc"`
	CostOfEquity       float64 `json:"cost_of_equity"`
	AfterTaxCostOfDebt float64 `json:"after_tax_cost_of_debt"`
	WeightEquity       float64 `json:"weight_equity"`
	WeightDebt         float64 `json:"weight_debt"`
	Beta               float64 `json:"beta"`
	TaxRate            float64 `json:"tax_rate"`
	MarketValueEquity  float64 `json:"market_value_equity"`
	TotalDebt          float64 `json:"total_debt"`
}

// CalculateWACC blends CAPM cost of equity with after-tax cost of debt by
// capital-structure weights. It never fails: degenerate inputs fall back to
// the documented defaults, and the result is always a convex combination of
// the two cost components.
func CalculateWACC(cs CapitalStructure, riskFreeRate, marketRiskPremium float64) WACCResult {
	costOfEquity := riskFreeRate + cs.Beta*marketRiskPremium

	interestRate := DefaultCostOfDebt
	if cs.TotalDebt > 0 {
		interestRate = cs.InterestExpense / cs.TotalDebt
	}
	taxRate := DefaultTaxRate
	if cs.PreTaxIncome > 0 {
		taxRate = cs.TaxesPaid / cs.PreTaxIncome
	}
	afterTaxCostOfDebt := interestRate * (1 - taxRate)

	weightEquity := DefaultWeightEquity
	weightDebt := DefaultWeightDebt
	if totalValue := cs.MarketValueEquity + cs.TotalDebt; totalValue > 0 {
		weightEquity = cs.MarketValueEquity / totalValue
		weightDebt = cs.TotalDebt / totalValue
	}

	return WACCResult{
		WACC:               weightEquity*costOfEquity + weightDebt*afterTaxCostOfDebt,
		CostOfEquity:       costOfEquity,
		AfterTaxCostOfDebt: afterTaxCostOfDebt,
		WeightEquity:       weightEquity,
		WeightDebt:         weightDebt,
		Beta:               cs.Beta,
		TaxRate:            taxRate,
		MarketValueEquity:  cs.MarketValueEquity,
		TotalDebt:          cs.TotalDebt,
	}
}

// MarketSource provides the reports the discount-rate engine reads.
type MarketSource interface {
	CompanyOverview(ctx context.Context, ticker string) (models.Record, error)
	IncomeStatementsAnnual(ctx context.Context, ticker string) ([]models.Record, error)
	BalanceSheetsAnnual(ctx context.Context, ticker string) ([]models.Record, error)
}

// WACCInputs are the fetched capital-structure figures, each tagged with
// its origin so the pipeline can audit fallback substitutions.
type WACCInputs struct {
	Beta              numeric.Sample
	MarketValueEquity numeric.Sample
	TotalDebt         numeric.Sample
	InterestExpense   numeric.Sample
	TaxesPaid         numeric.Sample
	PreTaxIncome      numeric.Sample
}

// CapitalStructure collapses the tagged inputs into plain figures.
func (in WACCInputs) CapitalStructure() CapitalStructure {
	return CapitalStructure{
		Beta:              in.Beta.Value(),
		MarketValueEquity: in.MarketValueEquity.Value(),
		TotalDebt:         in.TotalDebt.Value(),
		InterestExpense:   in.InterestExpense.Value(),
		TaxesPaid:         in.TaxesPaid.Value(),
		PreTaxIncome:      in.PreTaxIncome.Value(),
	}
}

// DiscountRateEngine derives the WACC for a ticker from provider data.
type DiscountRateEngine struct {
	source            MarketSource
	riskFreeRate      float64
	marketRiskPremium float64
}

// NewDiscountRateEngine wires the engine to its data source and CAPM inputs.
func NewDiscountRateEngine(source MarketSource, riskFreeRate, marketRiskPremium float64) *DiscountRateEngine {
	return &DiscountRateEngine{
		source:            source,
		riskFreeRate:      riskFreeRate,
		marketRiskPremium: marketRiskPremium,
	}
}

// Derive fetches the capital structure and computes the WACC. It never
// fails: every fetch has an independent fallback constant.
func (e *DiscountRateEngine) Derive(ctx context.Context, ticker string) (WACCResult, WACCInputs) {
	inputs := e.fetchInputs(ctx, ticker)
	return CalculateWACC(inputs.CapitalStructure(), e.riskFreeRate, e.marketRiskPremium), inputs
}

func (e *DiscountRateEngine) fetchInputs(ctx context.Context, ticker string) WACCInputs {
	var in WACCInputs
	in.Beta, in.MarketValueEquity = e.fetchMarketValueEquity(ctx, ticker)
	in.TotalDebt, in.InterestExpense, in.TaxesPaid, in.PreTaxIncome = e.fetchDebtAndTaxes(ctx, ticker)
	return in
}

// fetchMarketValueEquity reads beta and derives the market value of equity
// from the previous close and share count.
func (e *DiscountRateEngine) fetchMarketValueEquity(ctx context.Context, ticker string) (beta, mve numeric.Sample) {
	overview, err := e.source.CompanyOverview(ctx, ticker)
	if err != nil {
		reason := fmt.Sprintf("overview fetch failed: %v", err)
		return numeric.Fallback(FallbackBeta, reason),
			numeric.Fallback(FallbackMarketValueEquity, reason)
	}

	b := numeric.SafeFloat(overview.Get("Beta"), FallbackBeta)
	shares := numeric.SafeFloat(overview.Get("SharesOutstanding"), fundamentals.DefaultSharesOutstanding)
	price := numeric.SafeFloat(overview.Get("PreviousClose"), FallbackPreviousClose)
	return numeric.Reported(b), numeric.Reported(price * shares)
}

// fetchDebtAndTaxes reads total debt from the latest balance sheet and the
// interest and tax figures from the latest income statement.
func (e *DiscountRateEngine) fetchDebtAndTaxes(ctx context.Context, ticker string) (totalDebt, interest, taxes, preTax numeric.Sample) {
	fallback := func(reason string) (numeric.Sample, numeric.Sample, numeric.Sample, numeric.Sample) {
		return numeric.Fallback(FallbackTotalDebt, reason),
			numeric.Fallback(FallbackInterestExpense, reason),
			numeric.Fallback(FallbackTaxesPaid, reason),
			numeric.Fallback(FallbackPreTaxIncome, reason)
	}

	balances, err := e.source.BalanceSheetsAnnual(ctx, ticker)
	if err != nil {
		return fallback(fmt.Sprintf("balance sheet fetch failed: %v", err))
	}
	if len(balances) == 0 {
		return fallback("no annual balance sheet reports")
	}
	incomes, err := e.source.IncomeStatementsAnnual(ctx, ticker)
	if err != nil {
		return fallback(fmt.Sprintf("income statement fetch failed: %v", err))
	}
	if len(incomes) == 0 {
		return fallback("no annual income statement reports")
	}

	latestBalance := balances[0]
	latestIncome := incomes[0]

	shortTerm := numeric.SafeFloat(latestBalance.Get("shortTermDebt"), 0)
	longTerm := numeric.SafeFloat(latestBalance.Get("longTermDebt"), 0)

	return numeric.Reported(shortTerm + longTerm),
		numeric.Reported(math.Abs(numeric.SafeFloat(latestIncome.Get("interestExpense"), 0))),
		numeric.Reported(numeric.SafeFloat(latestIncome.Get("incomeTaxExpense"), 0)),
		numeric.Reported(numeric.SafeFloat(latestIncome.Get("incomeBeforeTax"), 0))
}
