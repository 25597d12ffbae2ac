package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"kalshi-hedge-fund/internal/fund"
	"kalshi-hedge-fund/internal/logger"
	"kalshi-hedge-fund/internal/metrics"
	"kalshi-hedge-fund/internal/report"
	"kalshi-hedge-fund/internal/report/reportobs"

	"github.com/spf13/cobra"
)

// version is set via ldflags at build time.
var version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "fund",
		Short:         "Kalshi event-contract hedge fund",
		Long:          "Analyzes Kalshi event contracts with LLM and statistical models,\ngenerates trading signals and executes them under risk limits.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the YAML config file")

	rootCmd.AddCommand(
		newAnalyzeCmd(&configPath),
		newSearchContractsCmd(&configPath),
		newRunStrategyCmd(&configPath),
		newPortfolioStatusCmd(&configPath),
		newDailyReportCmd(),
		newServeCmd(&configPath),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// writeResult prints v as indented JSON to stdout, or to the given file.
func writeResult(v any, output string) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if output == "" {
		fmt.Println(string(b))
		return nil
	}
	return os.WriteFile(output, append(b, '\n'), 0o644)
}

func newAnalyzeCmd(configPath *string) *cobra.Command {
	var contractID string
	var output string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a single contract and print the signal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFund(cmd, *configPath, func(ctx context.Context, f *fund.Fund) error {
				contract, err := f.GetContract(ctx, contractID)
				if err != nil {
					return err
				}
				analysis, err := f.AnalyzeContract(ctx, contract)
				if err != nil {
					return err
				}
				signal, err := f.GenerateSignal(ctx, analysis)
				if err != nil {
					return err
				}
				return writeResult(map[string]any{
					"contract": contract,
					"analysis": analysis,
					"signal":   signal,
				}, output)
			})
		},
	}

	cmd.Flags().StringVar(&contractID, "contract-id", "", "Contract ticker to analyze")
	cmd.Flags().StringVar(&output, "output", "", "Write the result to a file instead of stdout")
	_ = cmd.MarkFlagRequired("contract-id")

	return cmd
}

func newSearchContractsCmd(configPath *string) *cobra.Command {
	var query string
	var limit int
	var output string

	cmd := &cobra.Command{
		Use:   "search-contracts",
		Short: "Search contracts by title or description",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFund(cmd, *configPath, func(ctx context.Context, f *fund.Fund) error {
				contracts, err := f.SearchContracts(ctx, query, limit)
				if err != nil {
					return err
				}
				return writeResult(contracts, output)
			})
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Search query")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of results")
	cmd.Flags().StringVar(&output, "output", "", "Write the result to a file instead of stdout")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

func newRunStrategyCmd(configPath *string) *cobra.Command {
	var contracts string
	var output string

	cmd := &cobra.Command{
		Use:   "run-strategy",
		Short: "Run the analyze/signal/execute pipeline over a contract list",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := splitContractList(contracts)
			if len(ids) == 0 {
				return fmt.Errorf("no contract IDs given")
			}
			return withFund(cmd, *configPath, func(ctx context.Context, f *fund.Fund) error {
				result, err := f.RunStrategy(ctx, ids)
				if err != nil {
					return err
				}
				return writeResult(result, output)
			})
		},
	}

	cmd.Flags().StringVar(&contracts, "contracts", "", "Comma-separated contract tickers")
	cmd.Flags().StringVar(&output, "output", "", "Write the result to a file instead of stdout")
	_ = cmd.MarkFlagRequired("contracts")

	return cmd
}

func newPortfolioStatusCmd(configPath *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "portfolio-status",
		Short: "Show portfolio value, positions and risk metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFund(cmd, *configPath, func(ctx context.Context, f *fund.Fund) error {
				status, err := f.PortfolioStatus(ctx)
				if err != nil {
					return err
				}
				return writeResult(status, output)
			})
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Write the result to a file instead of stdout")

	return cmd
}

func newDailyReportCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "daily-report",
		Short: "Summarize a day's trades into a CSV report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeSystem(); err != nil {
				return err
			}

			day := time.Now().UTC()
			if date != "" {
				var err error
				day, err = time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
			}

			reporter := reportobs.Wrap(report.NewSummarizer())
			path, err := reporter.SummarizeDay(day)
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Println("No trades recorded for", day.Format("2006-01-02"))
				return nil
			}
			fmt.Println(path)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date to summarize (YYYY-MM-DD, default today)")

	return cmd
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve /metrics and /healthz for the deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeSystem(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(ctx, *configPath)
			if err != nil {
				return err
			}

			srv := metrics.NewServer(cfg.HTTP.Port)
			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			logger.Info(ctx, "Metrics server listening", "port", cfg.HTTP.Port)

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func splitContractList(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
