// Package pipeline wires the valuation stages together: fundamental
// metrics extraction, growth estimation and WACC derivation run as
// independent stages over the injected providers, fan into the DCF
// projector and end in the valuation assembler. Per-field data problems
// never stop a run; only an invalid model input does.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"dcf_valuation/pkg/config"
	"dcf_valuation/pkg/core/fundamentals"
	"dcf_valuation/pkg/core/growth"
	"dcf_valuation/pkg/core/numeric"
	"dcf_valuation/pkg/core/valuation"
	"dcf_valuation/pkg/models"
)

// FundamentalsProvider is the primary financial-data collaborator.
// Statement sequences are ordered newest first.
type FundamentalsProvider interface {
	CompanyOverview(ctx context.Context, ticker string) (models.Record, error)
	IncomeStatementsAnnual(ctx context.Context, ticker string) ([]models.Record, error)
	BalanceSheetsAnnual(ctx context.Context, ticker string) ([]models.Record, error)
	CashFlowsAnnual(ctx context.Context, ticker string) ([]models.Record, error)
}

// EstimatesProvider supplies forward-looking analyst revenue estimates.
type EstimatesProvider interface {
	AnalystEstimates(ctx context.Context, ticker string) ([]models.AnalystEstimate, error)
}

// FallbackEvent records one substitution of a documented default for
// missing or malformed source data.
type FallbackEvent struct {
	Stage  string  `json:"stage"`
	Input  string  `json:"input"`
	Value  float64 `json:"value"`
	Reason string  `json:"reason"`
}

// ValuationReport is the single output surface of a run.
type ValuationReport struct {
	RunID       string                   `json:"run_id"`
	Ticker      string                   `json:"ticker"`
	GeneratedAt time.Time                `json:"generated_at"`
	Snapshot    models.FinancialSnapshot `json:"snapshot"`
	Growth      growth.Profile           `json:"growth"`
	WACC        valuation.WACCResult     `json:"wacc"`
	Projection  *valuation.Projection    `json:"projection"`
	Result      models.ValuationResult   `json:"result"`
	Fallbacks   []FallbackEvent          `json:"fallbacks"`
}

// Orchestrator runs the valuation pipeline for one ticker at a time.
type Orchestrator struct {
	fundamentals FundamentalsProvider
	estimates    EstimatesProvider
	cfg          *config.Config
	logger       *log.Logger
}

// New creates an orchestrator. estimates may be nil when no FMP key is
// configured; the analyst growth signal then uses its fallback.
func New(fundamentals FundamentalsProvider, estimates EstimatesProvider, cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		fundamentals: fundamentals,
		estimates:    estimates,
		cfg:          cfg,
		logger:       &log.DefaultLogger,
	}
}

// SetLogger replaces the structured logger. Used by tests.
func (o *Orchestrator) SetLogger(logger *log.Logger) {
	o.logger = logger
}

// Run executes the full pipeline. The extractor, growth estimator and
// WACC engine are independent, so they run concurrently and join before
// the projection step. The only errors that escape are invalid model
// inputs (wacc not above terminal growth); everything else degrades to
// audited fallbacks.
func (o *Orchestrator) Run(ctx context.Context, ticker string) (*ValuationReport, error) {
	started := time.Now()

	var (
		wg         sync.WaitGroup
		snapshot   models.FinancialSnapshot
		snapEvents []FallbackEvent
		profile    growth.Profile
		waccResult valuation.WACCResult
		waccInputs valuation.WACCInputs
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		snapshot, snapEvents = o.fetchSnapshot(ctx, ticker)
	}()
	go func() {
		defer wg.Done()
		estimator := growth.NewEstimator(o.fundamentals, o.estimates)
		profile = estimator.Estimate(ctx, ticker, o.cfg.TerminalGrowthRate, o.cfg.ProjectionYears)
	}()
	go func() {
		defer wg.Done()
		engine := valuation.NewDiscountRateEngine(o.fundamentals, o.cfg.RiskFreeRate, o.cfg.MarketRiskPremium)
		waccResult, waccInputs = engine.Derive(ctx, ticker)
	}()
	wg.Wait()

	fallbacks := snapEvents
	fallbacks = append(fallbacks, growthFallbacks(profile)...)
	fallbacks = append(fallbacks, waccFallbacks(waccInputs)...)
	for _, ev := range fallbacks {
		o.logger.Info().
			Str("ticker", ticker).
			Str("stage", ev.Stage).
			Str("input", ev.Input).
			Float64("value", ev.Value).
			Str("reason", ev.Reason).
			Msg("substituted fallback for unavailable data")
	}

	projection, err := valuation.Project(snapshot.FreeCashFlow, profile.Rates, waccResult.WACC, o.cfg.TerminalGrowthRate)
	if err != nil {
		return nil, err
	}

	result := valuation.Assemble(projection.EnterpriseValue, snapshot.NetDebt, snapshot.SharesOutstanding, snapshot.CurrentPrice)

	o.logger.Debug().
		Str("ticker", ticker).
		Dur("elapsed", time.Since(started)).
		Float64("wacc", waccResult.WACC).
		Float64("intrinsic", result.IntrinsicValuePerShare).
		Msg("valuation pipeline finished")

	return &ValuationReport{
		RunID:       uuid.NewString(),
		Ticker:      ticker,
		GeneratedAt: time.Now().UTC(),
		Snapshot:    snapshot,
		Growth:      profile,
		WACC:        waccResult,
		Projection:  projection,
		Result:      result,
		Fallbacks:   fallbacks,
	}, nil
}

// fetchSnapshot gathers the latest annual reports and derives the
// fundamental metrics. A failed fetch degrades to an empty record, which
// the extractor maps to the documented field defaults.
func (o *Orchestrator) fetchSnapshot(ctx context.Context, ticker string) (models.FinancialSnapshot, []FallbackEvent) {
	var events []FallbackEvent

	latest := func(name string, fetch func(context.Context, string) ([]models.Record, error)) models.Record {
		reports, err := fetch(ctx, ticker)
		if err != nil {
			events = append(events, FallbackEvent{Stage: "snapshot", Input: name, Reason: err.Error()})
			return nil
		}
		if len(reports) == 0 {
			events = append(events, FallbackEvent{Stage: "snapshot", Input: name, Reason: "no annual reports"})
			return nil
		}
		return reports[0]
	}

	st := fundamentals.Statements{
		Income:   latest("income_statement", o.fundamentals.IncomeStatementsAnnual),
		CashFlow: latest("cash_flow", o.fundamentals.CashFlowsAnnual),
		Balance:  latest("balance_sheet", o.fundamentals.BalanceSheetsAnnual),
	}
	overview, err := o.fundamentals.CompanyOverview(ctx, ticker)
	if err != nil {
		events = append(events, FallbackEvent{Stage: "snapshot", Input: "overview", Reason: err.Error()})
	}
	st.Overview = overview

	snapshot := fundamentals.Extract(ticker, st)
	if !st.Overview.Has("SharesOutstanding") {
		events = append(events, FallbackEvent{
			Stage:  "snapshot",
			Input:  "shares_outstanding",
			Value:  fundamentals.DefaultSharesOutstanding,
			Reason: "share count absent, using 1e9 (biases the per-share result)",
		})
	}
	return snapshot, events
}

func growthFallbacks(p growth.Profile) []FallbackEvent {
	signals := []struct {
		name   string
		sample numeric.Sample
	}{
		{"historical_fcf_growth", p.HistoricalFCF},
		{"peg_implied_growth", p.PEGImplied},
		{"analyst_revenue_growth", p.AnalystRevenue},
	}
	return sampleEvents("growth", signals)
}

func waccFallbacks(in valuation.WACCInputs) []FallbackEvent {
	inputs := []struct {
		name   string
		sample numeric.Sample
	}{
		{"beta", in.Beta},
		{"market_value_equity", in.MarketValueEquity},
		{"total_debt", in.TotalDebt},
		{"interest_expense", in.InterestExpense},
		{"taxes_paid", in.TaxesPaid},
		{"pre_tax_income", in.PreTaxIncome},
	}
	return sampleEvents("wacc", inputs)
}

func sampleEvents(stage string, samples []struct {
	name   string
	sample numeric.Sample
}) []FallbackEvent {
	var events []FallbackEvent
	for _, s := range samples {
		if s.sample.IsFallback() {
			events = append(events, FallbackEvent{
				Stage:  stage,
				Input:  s.name,
				Value:  s.sample.Value(),
				Reason: s.sample.Reason(),
			})
		}
	}
	return events
}
