// Package growth blends three independent growth signals into a single
// near-term growth rate and expands it into a decaying multi-year path.
// Each signal degrades to a documented fallback constant when its source
// data is unavailable, so estimation never fails outright.
package growth

import (
	"context"
	"fmt"
	"math"

	"dcf_valuation/pkg/core/numeric"
	"dcf_valuation/pkg/models"
)

// Fallback constants, one per signal.
const (
	FallbackHistoricalFCFGrowth  = 0.10
	FallbackPEGImpliedGrowth     = 0.07
	FallbackAnalystRevenueGrowth = 0.06

	DefaultPEGRatio  = 2.5
	DefaultForwardPE = 20.0

	// maxHistoryYears bounds how many annual reports feed the historical
	// FCF signal, and how many analyst estimates feed the forward signal.
	maxHistoryYears = 5
)

// FundamentalsSource provides the provider reports the estimator reads.
type FundamentalsSource interface {
	CompanyOverview(ctx context.Context, ticker string) (models.Record, error)
	CashFlowsAnnual(ctx context.Context, ticker string) ([]models.Record, error)
}

// EstimatesSource provides forward-looking analyst revenue estimates.
type EstimatesSource interface {
	AnalystEstimates(ctx context.Context, ticker string) ([]models.AnalystEstimate, error)
}

// Profile is the estimator output: the blended near-term rate, the three
// signals it was blended from, and the full multi-year growth path.
type Profile struct {
	NearTerm       float64
	Terminal       float64
	HistoricalFCF  numeric.Sample
	PEGImplied     numeric.Sample
	AnalystRevenue numeric.Sample
	Rates          []float64
}

// Estimator computes growth profiles from provider data.
type Estimator struct {
	fundamentals FundamentalsSource
	estimates    EstimatesSource
}

// NewEstimator wires an estimator to its data sources. estimates may be
// nil, in which case the analyst signal always uses its fallback.
func NewEstimator(fundamentals FundamentalsSource, estimates EstimatesSource) *Estimator {
	return &Estimator{fundamentals: fundamentals, estimates: estimates}
}

// Estimate produces the growth profile for a ticker: the arithmetic mean
// of the three signals repeated over the near-term years, followed by an
// interpolated decay toward terminalGrowth. years is the total path length.
func (e *Estimator) Estimate(ctx context.Context, ticker string, terminalGrowth float64, years int) Profile {
	hist := e.historicalFCFGrowth(ctx, ticker)
	peg := e.pegImpliedGrowth(ctx, ticker)
	analyst := e.analystRevenueGrowth(ctx, ticker)

	nearTerm := (hist.Value() + peg.Value() + analyst.Value()) / 3

	return Profile{
		NearTerm:       nearTerm,
		Terminal:       terminalGrowth,
		HistoricalFCF:  hist,
		PEGImplied:     peg,
		AnalystRevenue: analyst,
		Rates:          Path(nearTerm, terminalGrowth, years),
	}
}

// Path expands a near-term rate into a years-long sequence: the near-term
// rate held flat over the first half, then an interpolated tail decaying
// toward (but excluding) the terminal rate. With the default ten-year
// horizon this is five flat years followed by five interpolated ones.
func Path(nearTerm, terminal float64, years int) []float64 {
	if years <= 0 {
		return nil
	}
	tail := years / 2
	head := years - tail

	rates := make([]float64, 0, years)
	for i := 0; i < head; i++ {
		rates = append(rates, nearTerm)
	}
	rates = append(rates, Interpolate(nearTerm, terminal, tail)...)
	return rates
}

// historicalFCFGrowth averages the period-over-period growth of up to five
// most recent annual free-cash-flow values (newest first).
func (e *Estimator) historicalFCFGrowth(ctx context.Context, ticker string) numeric.Sample {
	reports, err := e.fundamentals.CashFlowsAnnual(ctx, ticker)
	if err != nil {
		return numeric.Fallback(FallbackHistoricalFCFGrowth, fmt.Sprintf("cash flow fetch failed: %v", err))
	}

	values := make([]float64, 0, maxHistoryYears)
	for _, report := range reports {
		if len(values) == maxHistoryYears {
			break
		}
		if !report.Has("freeCashFlow") {
			continue
		}
		v := numeric.SafeFloat(report.Get("freeCashFlow"), math.NaN())
		if math.IsNaN(v) || v == 0 {
			continue
		}
		values = append(values, v)
	}
	if len(values) < 2 {
		return numeric.Fallback(FallbackHistoricalFCFGrowth, "fewer than 2 annual FCF values")
	}

	var sum float64
	for i := 0; i < len(values)-1; i++ {
		sum += values[i]/values[i+1] - 1
	}
	return numeric.Reported(sum / float64(len(values)-1))
}

// pegImpliedGrowth infers forward EPS growth from the PEG ratio:
// forwardPE / (PEG * 100).
func (e *Estimator) pegImpliedGrowth(ctx context.Context, ticker string) numeric.Sample {
	overview, err := e.fundamentals.CompanyOverview(ctx, ticker)
	if err != nil {
		return numeric.Fallback(FallbackPEGImpliedGrowth, fmt.Sprintf("overview fetch failed: %v", err))
	}

	peg := numeric.SafeFloat(overview.Get("PEGRatio"), DefaultPEGRatio)
	forwardPE := numeric.SafeFloat(overview.Get("ForwardPE"), DefaultForwardPE)
	if peg <= 0 {
		return numeric.Fallback(FallbackPEGImpliedGrowth, "non-positive PEG ratio")
	}
	return numeric.Reported(forwardPE / (peg * 100))
}

// analystRevenueGrowth annualizes each forward revenue estimate against the
// base-year estimate and averages the results.
func (e *Estimator) analystRevenueGrowth(ctx context.Context, ticker string) numeric.Sample {
	if e.estimates == nil {
		return numeric.Fallback(FallbackAnalystRevenueGrowth, "no estimates provider configured")
	}
	estimates, err := e.estimates.AnalystEstimates(ctx, ticker)
	if err != nil {
		return numeric.Fallback(FallbackAnalystRevenueGrowth, fmt.Sprintf("analyst estimates fetch failed: %v", err))
	}
	if len(estimates) < 2 || estimates[0].EstimatedRevenueAvg <= 0 {
		return numeric.Fallback(FallbackAnalystRevenueGrowth, "no usable analyst estimates")
	}

	base := estimates[0]
	var rates []float64
	for i, est := range estimates[1:] {
		if len(rates) == maxHistoryYears {
			break
		}
		if est.EstimatedRevenueAvg <= 0 {
			continue
		}
		yearsOut := float64(est.Year - base.Year)
		if yearsOut <= 0 {
			yearsOut = float64(i + 1)
		}
		rates = append(rates, (est.EstimatedRevenueAvg/base.EstimatedRevenueAvg-1)/yearsOut)
	}
	if len(rates) == 0 {
		return numeric.Fallback(FallbackAnalystRevenueGrowth, "no usable analyst estimates")
	}

	var sum float64
	for _, r := range rates {
		sum += r
	}
	return numeric.Reported(sum / float64(len(rates)))
}
