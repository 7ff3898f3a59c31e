// dcfval estimates the intrinsic value of a listed company with a
// discounted-cash-flow model built from public fundamental data.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"dcf_valuation/pkg/config"
	"dcf_valuation/pkg/core/pipeline"
	"dcf_valuation/pkg/core/providers/alphavantage"
	"dcf_valuation/pkg/core/providers/fmp"
	"dcf_valuation/pkg/core/report"
	"dcf_valuation/pkg/core/valuation"
)

var version = "0.2.0"

var (
	flagConfig         string
	flagYears          int
	flagTerminalGrowth float64
	flagRiskFree       float64
	flagRiskPremium    float64
	flagMarkdownOut    string
	flagHTMLOut        string
	flagPlain          bool
	flagVerbose        bool
)

func main() {
	root := &cobra.Command{
		Use:           "dcfval",
		Short:         "DCF intrinsic-value estimator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	valueCmd := &cobra.Command{
		Use:   "value <TICKER>",
		Short: "Estimate the intrinsic value per share of a ticker",
		Args:  cobra.ExactArgs(1),
		RunE:  runValue,
	}
	valueCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to a YAML or HJSON config file")
	valueCmd.Flags().IntVar(&flagYears, "years", 0, "projection horizon in years (overrides config)")
	valueCmd.Flags().Float64Var(&flagTerminalGrowth, "terminal-growth", 0, "terminal growth rate (overrides config)")
	valueCmd.Flags().Float64Var(&flagRiskFree, "risk-free", 0, "CAPM risk-free rate (overrides config)")
	valueCmd.Flags().Float64Var(&flagRiskPremium, "market-risk-premium", 0, "CAPM market risk premium (overrides config)")
	valueCmd.Flags().StringVar(&flagMarkdownOut, "markdown", "", "also write a markdown report to this path")
	valueCmd.Flags().StringVar(&flagHTMLOut, "html", "", "also write an HTML report to this path")
	valueCmd.Flags().BoolVar(&flagPlain, "plain", false, "print the minimal three-line summary")
	valueCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log pipeline details")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the dcfval version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dcfval %s\n", version)
		},
	}

	root.AddCommand(valueCmd, versionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dcfval: %v\n", err)
		os.Exit(1)
	}
}

func runValue(cmd *cobra.Command, args []string) error {
	ticker := args[0]

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.LoadCredentials(); err != nil {
		return err
	}

	if flagVerbose {
		log.DefaultLogger.Level = log.DebugLevel
	} else {
		log.DefaultLogger.Level = log.WarnLevel
	}

	av := alphavantage.NewClient(cfg.AlphaVantageAPIKey, cfg.RequestTimeout())
	orch := pipeline.New(av, estimatesProvider(cfg), cfg)

	rep, err := orch.Run(cmd.Context(), ticker)
	if err != nil {
		var invalid *valuation.InvalidModelInputError
		if errors.As(err, &invalid) {
			return fmt.Errorf("cannot value %s: %w", ticker, invalid)
		}
		return err
	}

	if flagPlain {
		fmt.Print(report.Plain(rep))
	} else {
		fmt.Print(report.Text(rep))
	}

	if flagMarkdownOut != "" {
		if err := os.WriteFile(flagMarkdownOut, []byte(report.Markdown(rep)), 0o644); err != nil {
			return fmt.Errorf("failed to write markdown report: %w", err)
		}
	}
	if flagHTMLOut != "" {
		html, err := report.HTML(rep)
		if err != nil {
			return err
		}
		if err := os.WriteFile(flagHTMLOut, html, 0o644); err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
	}
	return nil
}

// applyOverrides copies explicitly set flags over the file-loaded config.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("years") {
		cfg.ProjectionYears = flagYears
	}
	if cmd.Flags().Changed("terminal-growth") {
		cfg.TerminalGrowthRate = flagTerminalGrowth
	}
	if cmd.Flags().Changed("risk-free") {
		cfg.RiskFreeRate = flagRiskFree
	}
	if cmd.Flags().Changed("market-risk-premium") {
		cfg.MarketRiskPremium = flagRiskPremium
	}
}

// estimatesProvider returns the FMP client when a key is configured, nil
// otherwise. A nil provider degrades the analyst growth signal to its
// fallback instead of failing the run.
func estimatesProvider(cfg *config.Config) pipeline.EstimatesProvider {
	if cfg.FMPAPIKey == "" {
		return nil
	}
	return fmp.NewClient(cfg.FMPAPIKey, cfg.RequestTimeout())
}
