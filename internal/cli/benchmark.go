// internal/cli/benchmark.go
package ossbench

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/ossbench/internal/appconfig"
	"github.com/mwiater/ossbench/internal/gpu"
	"github.com/mwiater/ossbench/internal/harness"
	"github.com/mwiater/ossbench/internal/logging"
	"github.com/mwiater/ossbench/internal/metrics"
	"github.com/mwiater/ossbench/internal/ollama"
	"github.com/mwiater/ossbench/internal/prompts"
)

// benchmarkCmd samples prompts from a CSV dataset and benchmarks one model.
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Sample prompts from a dataset and benchmark a model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := benchmarkConfig(cmd)

		source, err := prompts.LoadCSV(cfg.DataFile)
		if err != nil {
			return err
		}
		logging.Event("loaded %d prompts from %s", source.Len(), source.Path())

		sample := source.Sample(cfg.BatchSize())
		tests := harness.TestsFromPrompts(sample)
		return runBatch(cmd, cfg, tests)
	},
}

func init() {
	rootCmd.AddCommand(benchmarkCmd)
	benchmarkCmd.Flags().StringP("model", "m", "", "model to benchmark (e.g. gpt-oss:20b)")
	benchmarkCmd.Flags().StringP("data", "d", "", "CSV dataset with a full_prompt column")
	benchmarkCmd.Flags().IntP("count", "n", 0, "number of prompts to sample")
	benchmarkCmd.Flags().Int("timeout", 0, "per-invocation timeout in seconds")
	benchmarkCmd.Flags().Int("cooldown", 0, "pause between runs in seconds")
	benchmarkCmd.Flags().String("log-dir", "", "directory for per-run log files")
	benchmarkCmd.Flags().Bool("no-save", false, "skip the JSON/CSV batch export")
}

// benchmarkConfig overlays the benchmark flags onto the loaded config.
func benchmarkConfig(cmd *cobra.Command) appconfig.Config {
	cfg := getConfig()
	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model, _ = flags.GetString("model")
	}
	if flags.Changed("data") {
		cfg.DataFile, _ = flags.GetString("data")
	}
	if flags.Changed("count") {
		cfg.TestCount, _ = flags.GetInt("count")
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds, _ = flags.GetInt("timeout")
	}
	if flags.Changed("cooldown") {
		cfg.CooldownSeconds, _ = flags.GetInt("cooldown")
	}
	if flags.Changed("log-dir") {
		cfg.LogDir, _ = flags.GetString("log-dir")
	}
	if noSave, _ := flags.GetBool("no-save"); noSave {
		cfg.SaveResults = false
	}
	return cfg
}

// runBatch executes the tests and prints the closing summary. The summary
// line is printed even when the batch stops early.
func runBatch(cmd *cobra.Command, cfg appconfig.Config, tests []harness.Test) error {
	out := cmd.OutOrStdout()
	batch := harness.NewBatchContext(cfg.ModelName(), cfg.LogDirPath(),
		cfg.InvokeTimeout(), cfg.Cooldown(), cfg.Divisor())
	runner := &harness.Runner{
		Client:       ollama.NewCLIClient(cfg.Binary()),
		Sampler:      gpu.NewSampler("nvidia-smi"),
		Out:          out,
		ShowProgress: true,
	}

	fmt.Fprintf(out, "Benchmarking %s: %d tests, timeout %s, cooldown %s\n",
		batch.Model, len(tests), batch.Timeout, batch.Cooldown)

	records, batch, runErr := runner.RunBatch(cmd.Context(), batch, tests)
	summary := metrics.Summarize(records)

	color.New(color.Bold).Fprintf(out, "\nCompleted: %d/%d successful\n", batch.Succeeded, batch.Completed)
	if summary.SuccessfulTests > 0 {
		fmt.Fprintf(out, "Duration avg/median/min/max: %.3f/%.3f/%.3f/%.3fs, avg TTFT %.3fs, avg %.2f tok/s\n",
			summary.AverageDuration, summary.MedianDuration,
			summary.MinDuration, summary.MaxDuration,
			summary.AverageTTFT, summary.AverageTokensPerSecond)
	}

	if cfg.SaveResults && len(records) > 0 {
		jsonPath, err := metrics.WriteBatchJSON(cfg.LogDirPath(), batch, records, summary)
		if err != nil {
			return err
		}
		csvPath, err := metrics.WriteBatchCSV(cfg.LogDirPath(), batch, records)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Results saved: %s, %s\n", jsonPath, csvPath)
	}
	return runErr
}
