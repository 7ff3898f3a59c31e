package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"dcf_valuation/pkg/core/pipeline"
	"dcf_valuation/pkg/core/valuation"
)

// Markdown renders the report as a markdown document suitable for
// archiving alongside other research notes.
func Markdown(rep *pipeline.ValuationReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# DCF Valuation — %s\n\n", rep.Ticker)
	fmt.Fprintf(&b, "Run `%s`, generated %s.\n\n", rep.RunID, rep.GeneratedAt.Format("2006-01-02 15:04 MST"))

	fmt.Fprintf(&b, "## Result\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Intrinsic value per share | $%.2f |\n", rep.Result.IntrinsicValuePerShare)
	fmt.Fprintf(&b, "| Current price | $%.2f |\n", rep.Result.CurrentPrice)
	fmt.Fprintf(&b, "| Upside | %s |\n", percent(valuation.Upside(rep.Result)))
	fmt.Fprintf(&b, "| Verdict | **%s** |\n", rep.Result.Verdict)
	fmt.Fprintf(&b, "| Enterprise value | %s |\n", billions(rep.Result.DCFEnterpriseValue))
	fmt.Fprintf(&b, "| Net debt | %s |\n\n", billions(rep.Snapshot.NetDebt))

	fmt.Fprintf(&b, "## Discount rate\n\n")
	fmt.Fprintf(&b, "| Component | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| WACC | %s |\n", percent(rep.WACC.WACC))
	fmt.Fprintf(&b, "| Cost of equity (CAPM) | %s |\n", percent(rep.WACC.CostOfEquity))
	fmt.Fprintf(&b, "| After-tax cost of debt | %s |\n", percent(rep.WACC.AfterTaxCostOfDebt))
	fmt.Fprintf(&b, "| Beta | %.2f |\n", rep.WACC.Beta)
	fmt.Fprintf(&b, "| Equity weight | %s |\n", percent(rep.WACC.WeightEquity))
	fmt.Fprintf(&b, "| Debt weight | %s |\n\n", percent(rep.WACC.WeightDebt))

	fmt.Fprintf(&b, "## Growth path\n\n")
	fmt.Fprintf(&b, "Near-term %s blending into %s terminal growth:\n\n",
		percent(rep.Growth.NearTerm), percent(rep.Growth.Terminal))
	fmt.Fprintf(&b, "| Year | Growth | Projected FCF |\n|---|---|---|\n")
	for i, rate := range rep.Growth.Rates {
		cf := ""
		if rep.Projection != nil && i < len(rep.Projection.CashFlows) {
			cf = billions(rep.Projection.CashFlows[i])
		}
		fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, percent(rate), cf)
	}
	b.WriteString("\n")

	if len(rep.Fallbacks) > 0 {
		fmt.Fprintf(&b, "## Fallbacks\n\n")
		fmt.Fprintf(&b, "These inputs were unavailable and used documented defaults:\n\n")
		for _, ev := range rep.Fallbacks {
			fmt.Fprintf(&b, "- `%s/%s` = %v — %s\n", ev.Stage, ev.Input, ev.Value, ev.Reason)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// HTML converts the markdown report into a standalone HTML document.
func HTML(rep *pipeline.ValuationReport) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(rep)), &body); err != nil {
		return nil, fmt.Errorf("failed to render HTML report: %w", err)
	}

	var doc bytes.Buffer
	fmt.Fprintf(&doc, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>DCF Valuation — %s</title>\n</head>\n<body>\n", rep.Ticker)
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")
	return doc.Bytes(), nil
}
