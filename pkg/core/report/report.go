// Package report renders a ValuationReport for humans: a styled console
// summary, a plain three-line form, and markdown/HTML exports.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dcf_valuation/pkg/core/pipeline"
	"dcf_valuation/pkg/core/valuation"
	"dcf_valuation/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(26)

	undervaluedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#10B981"))

	overvaluedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#EF4444"))

	equalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F59E0B"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)
)

// Plain renders the minimal three-line summary: intrinsic value, current
// price and the verdict, with two-decimal currency values.
func Plain(rep *pipeline.ValuationReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Intrinsic value per share for %s: $%.2f\n", rep.Ticker, rep.Result.IntrinsicValuePerShare)
	fmt.Fprintf(&b, "Current Price: $%.2f\n", rep.Result.CurrentPrice)
	fmt.Fprintf(&b, "%s\n", rep.Result.Verdict)
	return b.String()
}

// Text renders the full styled console report.
func Text(rep *pipeline.ValuationReport) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("DCF Valuation — %s", rep.Ticker)))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Intrinsic value / share", fmt.Sprintf("$%.2f", rep.Result.IntrinsicValuePerShare))
	row("Current price", fmt.Sprintf("$%.2f", rep.Result.CurrentPrice))
	row("Upside", percent(valuation.Upside(rep.Result)))
	b.WriteString(labelStyle.Render("Verdict"))
	b.WriteString(verdictStyle(rep.Result.Verdict).Render(string(rep.Result.Verdict)))
	b.WriteString("\n\n")

	row("Enterprise value", billions(rep.Result.DCFEnterpriseValue))
	row("Net debt", billions(rep.Snapshot.NetDebt))
	row("Base free cash flow", billions(rep.Snapshot.FreeCashFlow))
	row("Shares outstanding", fmt.Sprintf("%.2fB", rep.Snapshot.SharesOutstanding/1e9))
	b.WriteString("\n")

	row("WACC", percent(rep.WACC.WACC))
	row("  Cost of equity", percent(rep.WACC.CostOfEquity))
	row("  After-tax cost of debt", percent(rep.WACC.AfterTaxCostOfDebt))
	row("  Equity / debt weights", fmt.Sprintf("%.1f%% / %.1f%%", rep.WACC.WeightEquity*100, rep.WACC.WeightDebt*100))
	b.WriteString("\n")

	row("Near-term growth", percent(rep.Growth.NearTerm))
	row("Terminal growth", percent(rep.Growth.Terminal))
	row("Growth path", ratePath(rep.Growth.Rates))

	if len(rep.Fallbacks) > 0 {
		b.WriteString("\n")
		b.WriteString(noteStyle.Render(fmt.Sprintf("%d input(s) used documented fallbacks:", len(rep.Fallbacks))))
		b.WriteString("\n")
		for _, ev := range rep.Fallbacks {
			b.WriteString(noteStyle.Render(fmt.Sprintf("  - %s/%s: %s", ev.Stage, ev.Input, ev.Reason)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func verdictStyle(v models.Verdict) lipgloss.Style {
	switch v {
	case models.VerdictUndervalued:
		return undervaluedStyle
	case models.VerdictOvervalued:
		return overvaluedStyle
	default:
		return equalStyle
	}
}

func billions(v float64) string {
	return fmt.Sprintf("$%.2fB", v/1e9)
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func ratePath(rates []float64) string {
	parts := make([]string, len(rates))
	for i, r := range rates {
		parts[i] = fmt.Sprintf("%.1f%%", r*100)
	}
	return strings.Join(parts, " ")
}
