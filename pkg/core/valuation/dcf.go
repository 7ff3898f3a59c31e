package valuation

import (
	"fmt"
	"math"
)

// InvalidModelInputError reports a discount rate that does not exceed the
// terminal growth rate. The Gordon growth terminal value is undefined in
// that case, so the projector refuses to compute rather than emit an
// economically meaningless number.
type InvalidModelInputError struct {
	WACC           float64
	TerminalGrowth float64
}

func (e *InvalidModelInputError) Error() string {
	return fmt.Sprintf("invalid model input: wacc %.4f must exceed terminal growth rate %.4f for the terminal value to be finite",
		e.WACC, e.TerminalGrowth)
}

// Projection is the output of the DCF projector/discounter.
type Projection struct {
	CashFlows          []float64 // projected FCF, year 1..n
	Discounted         []float64 // present value of each year's FCF
	TerminalValue      float64   // undiscounted Gordon growth terminal value
	DiscountedTerminal float64
	EnterpriseValue    float64 // sum of discounted FCF plus discounted TV
}

// Project compounds a base free cash flow along the growth-rate path,
// caps the horizon with a Gordon growth terminal value and discounts every
// period back to present. The projection spans len(growthRates) years.
// Growth compounds cumulatively: year t uses the product of the first t
// rates, not a year-over-year step from t-1.
func Project(baseFCF float64, growthRates []float64, wacc, terminalGrowth float64) (*Projection, error) {
	if wacc <= terminalGrowth {
		return nil, &InvalidModelInputError{WACC: wacc, TerminalGrowth: terminalGrowth}
	}
	if len(growthRates) == 0 {
		return nil, fmt.Errorf("invalid model input: empty growth-rate path")
	}

	years := len(growthRates)
	cashFlows := make([]float64, years)
	compounded := baseFCF
	for t, g := range growthRates {
		compounded *= 1 + g
		cashFlows[t] = compounded
	}

	terminalValue := cashFlows[years-1] * (1 + terminalGrowth) / (wacc - terminalGrowth)

	discounted := make([]float64, years)
	var pvCashFlows float64
	for t, cf := range cashFlows {
		discounted[t] = cf / math.Pow(1+wacc, float64(t+1))
		pvCashFlows += discounted[t]
	}
	discountedTerminal := terminalValue / math.Pow(1+wacc, float64(years))

	return &Projection{
		CashFlows:          cashFlows,
		Discounted:         discounted,
		TerminalValue:      terminalValue,
		DiscountedTerminal: discountedTerminal,
		EnterpriseValue:    pvCashFlows + discountedTerminal,
	}, nil
}
