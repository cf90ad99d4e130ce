package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/tlstats/internal/config"
	"github.com/wesleyorama2/tlstats/internal/output"
	"github.com/wesleyorama2/tlstats/internal/workload"
	"github.com/wesleyorama2/tlstats/pkg/jsonpath"
)

var (
	runConfigPath  string
	runWorkers     int
	runDuration    time.Duration
	runInterval    time.Duration
	runFormat      string
	runQuery       string
	runListen      string
	runNoColor     bool
	runFailureRate float64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulated workload and print the aggregated stats",
	Long: `Run spins up a pool of worker goroutines that record counters,
gauges and timings through worker-local instances, schedules the periodic
aggregation task, and prints the aggregated result when the run finishes.

With --listen, the aggregated families are also served on /metrics in
Prometheus format for the duration of the run.`,
	RunE: runWorkload,
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "workload config file (YAML)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "number of worker goroutines (overrides config)")
	runCmd.Flags().DurationVar(&runDuration, "duration", 0, "how long to run (overrides config)")
	runCmd.Flags().DurationVar(&runInterval, "interval", 0, "aggregation interval (overrides config)")
	runCmd.Flags().Float64Var(&runFailureRate, "failure-rate", -1, "simulated failure rate 0..1 (overrides config)")
	runCmd.Flags().StringVar(&runFormat, "format", "text", "output format: text or json")
	runCmd.Flags().StringVarP(&runQuery, "query", "q", "", "print a single value from the JSON summary (JSONPath)")
	runCmd.Flags().StringVar(&runListen, "listen", "", "serve /metrics on this address during the run")
	runCmd.Flags().BoolVar(&runNoColor, "no-color", false, "disable colored output")
}

func runWorkload(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	result, err := workload.NewRunner(cfg).Run(cmd.Context())
	if err != nil {
		return err
	}

	out, err := renderResult(result)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func loadRunConfig() (*config.Workload, error) {
	cfg := config.DefaultWorkload()
	if runConfigPath != "" {
		loaded, err := config.Load(runConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if runWorkers > 0 {
		cfg.Workers = runWorkers
	}
	if runDuration > 0 {
		cfg.Duration = config.Duration(runDuration)
	}
	if runInterval > 0 {
		cfg.Interval = config.Duration(runInterval)
	}
	if runFailureRate >= 0 {
		cfg.FailureRate = runFailureRate
	}
	if runListen != "" {
		cfg.Listen = runListen
	}
	return cfg, nil
}

func renderResult(result *workload.Result) (string, error) {
	if runQuery != "" {
		doc, err := output.FormatJSON(result)
		if err != nil {
			return "", err
		}
		value, err := jsonpath.Extract(doc, runQuery)
		if err != nil {
			return "", err
		}
		return value + "\n", nil
	}

	switch runFormat {
	case "json":
		doc, err := output.FormatJSON(result)
		if err != nil {
			return "", err
		}
		return doc + "\n", nil
	case "text":
		noColor := runNoColor || !isatty.IsTerminal(os.Stdout.Fd())
		return output.NewFormatter(noColor).FormatSummary(result), nil
	default:
		return "", fmt.Errorf("unknown format %q (want text or json)", runFormat)
	}
}
