package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"qbench/cmd/qbench/internal/config"
	"qbench/cmd/qbench/internal/ui/components"
	"qbench/cmd/qbench/internal/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	baseURL     string
	timeout     time.Duration
	catalogPath string
	chartCap    string
)

var rootCmd = &cobra.Command{
	Use:   "qbench",
	Short: "Quantum simulator benchmark client",
	Long: `QBench submits an OpenQASM circuit to a benchmark service and compares
execution time, fidelity and statevectors across simulator backends.

Run without a command to start the interactive terminal client.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := utils.InitLogger()
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		defer logger.Sync()

		s, err := buildSession(cmd, logger)
		if err != nil {
			return err
		}
		return runInteractive(s)
	},
}

var (
	runFile     string
	runBackends []string
	runJSON     bool
	runVerbose  bool
	runWidth    int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one benchmark without the interactive client",
	Example: `  qbench run --file bell.qasm --backend qiskit,cirq
  qbench run -f bell.qasm -b qiskit -b braket --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := utils.ConsoleLogger(runVerbose)
		defer logger.Sync()

		s, err := buildSession(cmd, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		return runHeadless(ctx, s, headlessOptions{
			File:     runFile,
			Backends: runBackends,
			JSON:     runJSON,
			Width:    runWidth,
		}, cmd.OutOrStdout())
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the simulator backends in the active catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		catalog, err := cfg.LoadCatalog()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, b := range catalog {
			fmt.Fprintf(out, "%-24s %-28s %s\n", b.ID, b.DisplayName(), b.Kind)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "qbench %s built %s\n", components.VersionString(), components.BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "benchmark service URL (overrides "+config.EnvBaseURL+")")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-run timeout, 0 for none (overrides "+config.EnvTimeout+")")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "YAML backend catalog (overrides "+config.EnvCatalog+")")
	rootCmd.PersistentFlags().StringVar(&chartCap, "chart-cap", "", `chart cap rules such as "6:3,3:2,2:1" or "none" (overrides `+config.EnvChartCap+")")

	runCmd.Flags().StringVarP(&runFile, "file", "f", "", "circuit file to benchmark")
	runCmd.Flags().StringSliceVarP(&runBackends, "backend", "b", nil, "backend id or label, repeatable or comma separated")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "write the report as JSON")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "log debug output to stderr")
	runCmd.Flags().IntVar(&runWidth, "width", 80, "chart width in columns")
	runCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(runCmd, catalogCmd, versionCmd)
}

// loadConfig resolves env configuration, then applies explicit flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = strings.TrimSpace(baseURL)
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if flags.Changed("catalog") {
		cfg.CatalogPath = catalogPath
	}
	if flags.Changed("chart-cap") {
		cfg.ChartCap = chartCap
	}
	return cfg, nil
}

func buildSession(cmd *cobra.Command, logger *zap.Logger) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return newSession(cfg, logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
