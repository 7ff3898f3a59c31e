package growth

import (
	"context"
	"errors"
	"math"
	"testing"

	"dcf_valuation/pkg/models"
)

type stubFundamentals struct {
	overview  models.Record
	cashFlows []models.Record
	err       error
}

func (s *stubFundamentals) CompanyOverview(ctx context.Context, ticker string) (models.Record, error) {
	return s.overview, s.err
}

func (s *stubFundamentals) CashFlowsAnnual(ctx context.Context, ticker string) ([]models.Record, error) {
	return s.cashFlows, s.err
}

type stubEstimates struct {
	estimates []models.AnalystEstimate
	err       error
}

func (s *stubEstimates) AnalystEstimates(ctx context.Context, ticker string) ([]models.AnalystEstimate, error) {
	return s.estimates, s.err
}

func fcfReports(values ...string) []models.Record {
	reports := make([]models.Record, 0, len(values))
	for _, v := range values {
		reports = append(reports, models.Record{"freeCashFlow": v})
	}
	return reports
}

func TestInterpolate_InteriorValues(t *testing.T) {
	rates := Interpolate(0.10, 0.03, 5)

	if len(rates) != 5 {
		t.Fatalf("got %d rates, want 5", len(rates))
	}
	for i, r := range rates {
		if r <= 0.03 || r >= 0.10 {
			t.Errorf("rate[%d] = %v, want strictly inside (0.03, 0.10)", i, r)
		}
		if i > 0 && rates[i] >= rates[i-1] {
			t.Errorf("rates not strictly decreasing at %d: %v >= %v", i, rates[i], rates[i-1])
		}
	}
}

func TestInterpolate_RisingToTerminal(t *testing.T) {
	rates := Interpolate(0.01, 0.03, 5)
	for i := 1; i < len(rates); i++ {
		if rates[i] <= rates[i-1] {
			t.Errorf("rates should increase toward a higher terminal rate, got %v", rates)
		}
	}
}

func TestPath_Shape(t *testing.T) {
	rates := Path(0.08, 0.03, 10)

	if len(rates) != 10 {
		t.Fatalf("got %d rates, want 10", len(rates))
	}
	for i := 0; i < 5; i++ {
		if rates[i] != 0.08 {
			t.Errorf("rate[%d] = %v, want flat near-term 0.08", i, rates[i])
		}
	}
	for i := 1; i < 10; i++ {
		if rates[i] > rates[i-1]+1e-12 {
			t.Errorf("path not non-increasing at %d: %v", i, rates)
		}
	}
	// Terminal rate itself is excluded from the path.
	if rates[9] <= 0.03 {
		t.Errorf("final rate %v should stay above the terminal rate", rates[9])
	}
}

func TestHistoricalFCFGrowth_Reported(t *testing.T) {
	e := NewEstimator(&stubFundamentals{
		cashFlows: fcfReports("120", "100", "80"),
	}, nil)

	s := e.historicalFCFGrowth(context.Background(), "TEST")
	if s.IsFallback() {
		t.Fatalf("expected reported sample, got fallback: %s", s.Reason())
	}
	// (120/100 - 1 + 100/80 - 1) / 2 = (0.2 + 0.25) / 2
	want := 0.225
	if math.Abs(s.Value()-want) > 1e-9 {
		t.Errorf("historical FCF growth = %v, want %v", s.Value(), want)
	}
}

func TestHistoricalFCFGrowth_Fallbacks(t *testing.T) {
	cases := []struct {
		name string
		src  *stubFundamentals
	}{
		{"fetch error", &stubFundamentals{err: errors.New("boom")}},
		{"single value", &stubFundamentals{cashFlows: fcfReports("120")}},
		{"missing field", &stubFundamentals{cashFlows: []models.Record{{"operatingCashflow": "1"}, {"operatingCashflow": "2"}}}},
		{"malformed values", &stubFundamentals{cashFlows: fcfReports("None", "n/a")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewEstimator(tc.src, nil).historicalFCFGrowth(context.Background(), "TEST")
			if !s.IsFallback() || s.Value() != FallbackHistoricalFCFGrowth {
				t.Errorf("want fallback %v, got %v (fallback=%v)", FallbackHistoricalFCFGrowth, s.Value(), s.IsFallback())
			}
		})
	}
}

func TestPEGImpliedGrowth(t *testing.T) {
	e := NewEstimator(&stubFundamentals{
		overview: models.Record{"PEGRatio": "2.0", "ForwardPE": "25"},
	}, nil)
	s := e.pegImpliedGrowth(context.Background(), "TEST")
	if s.IsFallback() {
		t.Fatalf("unexpected fallback: %s", s.Reason())
	}
	if math.Abs(s.Value()-0.125) > 1e-9 {
		t.Errorf("PEG-implied growth = %v, want 0.125", s.Value())
	}

	// Absent fields use the documented defaults: 20 / (2.5 * 100) = 0.08.
	e = NewEstimator(&stubFundamentals{overview: models.Record{}}, nil)
	s = e.pegImpliedGrowth(context.Background(), "TEST")
	if math.Abs(s.Value()-DefaultForwardPE/(DefaultPEGRatio*100)) > 1e-9 {
		t.Errorf("default PEG-implied growth = %v", s.Value())
	}

	// Non-positive PEG falls back to 7%.
	e = NewEstimator(&stubFundamentals{overview: models.Record{"PEGRatio": "-1"}}, nil)
	s = e.pegImpliedGrowth(context.Background(), "TEST")
	if !s.IsFallback() || s.Value() != FallbackPEGImpliedGrowth {
		t.Errorf("want fallback %v, got %v", FallbackPEGImpliedGrowth, s.Value())
	}

	// Fetch failure falls back too.
	e = NewEstimator(&stubFundamentals{err: errors.New("rate limited")}, nil)
	if s := e.pegImpliedGrowth(context.Background(), "TEST"); !s.IsFallback() {
		t.Error("fetch failure should produce a fallback sample")
	}
}

func TestAnalystRevenueGrowth(t *testing.T) {
	e := NewEstimator(&stubFundamentals{}, &stubEstimates{
		estimates: []models.AnalystEstimate{
			{EstimatedRevenueAvg: 100, Year: 2026},
			{EstimatedRevenueAvg: 110, Year: 2027},
			{EstimatedRevenueAvg: 121, Year: 2028},
		},
	})
	s := e.analystRevenueGrowth(context.Background(), "TEST")
	if s.IsFallback() {
		t.Fatalf("unexpected fallback: %s", s.Reason())
	}
	// Year 2027: (110/100-1)/1 = 0.10; year 2028: (121/100-1)/2 = 0.105.
	want := (0.10 + 0.105) / 2
	if math.Abs(s.Value()-want) > 1e-9 {
		t.Errorf("analyst growth = %v, want %v", s.Value(), want)
	}
}

func TestAnalystRevenueGrowth_Fallbacks(t *testing.T) {
	ctx := context.Background()

	if s := NewEstimator(&stubFundamentals{}, nil).analystRevenueGrowth(ctx, "T"); !s.IsFallback() || s.Value() != FallbackAnalystRevenueGrowth {
		t.Error("nil estimates source should fall back")
	}
	if s := NewEstimator(&stubFundamentals{}, &stubEstimates{err: errors.New("401")}).analystRevenueGrowth(ctx, "T"); !s.IsFallback() {
		t.Error("fetch error should fall back")
	}
	if s := NewEstimator(&stubFundamentals{}, &stubEstimates{}).analystRevenueGrowth(ctx, "T"); !s.IsFallback() {
		t.Error("empty estimates should fall back")
	}
}

func TestEstimate_BlendsThreeSignals(t *testing.T) {
	e := NewEstimator(&stubFundamentals{
		overview:  models.Record{"PEGRatio": "2.0", "ForwardPE": "24"}, // 0.12
		cashFlows: fcfReports("110", "100"),                           // 0.10
	}, &stubEstimates{
		estimates: []models.AnalystEstimate{
			{EstimatedRevenueAvg: 100, Year: 2026},
			{EstimatedRevenueAvg: 108, Year: 2027}, // 0.08
		},
	})

	p := e.Estimate(context.Background(), "TEST", 0.03, 10)

	want := (0.10 + 0.12 + 0.08) / 3
	if math.Abs(p.NearTerm-want) > 1e-9 {
		t.Errorf("near-term blend = %v, want %v", p.NearTerm, want)
	}
	if len(p.Rates) != 10 {
		t.Errorf("path length = %d, want 10", len(p.Rates))
	}
	if p.HistoricalFCF.IsFallback() || p.PEGImplied.IsFallback() || p.AnalystRevenue.IsFallback() {
		t.Error("no signal should have fallen back")
	}
}

func TestEstimate_NeverFails(t *testing.T) {
	// Every source broken: the blend is the mean of the three fallbacks.
	e := NewEstimator(&stubFundamentals{err: errors.New("network down")},
		&stubEstimates{err: errors.New("network down")})

	p := e.Estimate(context.Background(), "TEST", 0.03, 10)

	want := (FallbackHistoricalFCFGrowth + FallbackPEGImpliedGrowth + FallbackAnalystRevenueGrowth) / 3
	if math.Abs(p.NearTerm-want) > 1e-9 {
		t.Errorf("near-term blend = %v, want %v", p.NearTerm, want)
	}
	if !p.HistoricalFCF.IsFallback() || !p.PEGImplied.IsFallback() || !p.AnalystRevenue.IsFallback() {
		t.Error("every signal should have fallen back")
	}
}
