package valuation

import (
	"math"
	"testing"

	"dcf_valuation/pkg/models"
)

func TestAssemble_Verdicts(t *testing.T) {
	cases := []struct {
		name    string
		ev      float64
		netDebt float64
		shares  float64
		price   float64
		want    models.Verdict
	}{
		{"undervalued", 3e12, 100e9, 15e9, 150.0, models.VerdictUndervalued},
		{"overvalued", 1e12, 100e9, 15e9, 150.0, models.VerdictOvervalued},
		{"equal within epsilon", 2350e9, 100e9, 15e9, 150.0, models.VerdictEqual},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Assemble(tc.ev, tc.netDebt, tc.shares, tc.price)
			if res.Verdict != tc.want {
				t.Errorf("verdict = %q, want %q (intrinsic %v vs price %v)",
					res.Verdict, tc.want, res.IntrinsicValuePerShare, tc.price)
			}
			wantIntrinsic := (tc.ev - tc.netDebt) / tc.shares
			if math.Abs(res.IntrinsicValuePerShare-wantIntrinsic) > 1e-9 {
				t.Errorf("intrinsic = %v, want %v", res.IntrinsicValuePerShare, wantIntrinsic)
			}
		})
	}
}

func TestAssemble_ZeroShares(t *testing.T) {
	res := Assemble(1e12, 0, 0, 100)
	if res.IntrinsicValuePerShare != 0 {
		t.Errorf("intrinsic with zero shares = %v, want 0", res.IntrinsicValuePerShare)
	}
	if res.Verdict != models.VerdictOvervalued {
		t.Errorf("zero intrinsic against positive price should read overvalued, got %q", res.Verdict)
	}
}

func TestUpside(t *testing.T) {
	res := models.ValuationResult{IntrinsicValuePerShare: 120, CurrentPrice: 100}
	if got := Upside(res); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("upside = %v, want 0.2", got)
	}
	if got := Upside(models.ValuationResult{IntrinsicValuePerShare: 120}); got != 0 {
		t.Errorf("upside with zero price = %v, want 0", got)
	}
}
