// internal/cli/suite.go
package ossbench

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/ossbench/internal/harness"
	"github.com/mwiater/ossbench/internal/prompts"
)

// suiteCmd runs the fixed benchmark suite: a small set of prompts covering
// code generation, reasoning, creative writing, and analysis, each with its
// own reasoning-effort level.
var suiteCmd = &cobra.Command{
	Use:   "suite",
	Short: "Run the fixed benchmark suite against a model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := benchmarkConfig(cmd)
		if path, _ := cmd.Flags().GetString("suite"); path != "" {
			cfg.SuiteFile = path
		}

		cases := prompts.DefaultSuite()
		if cfg.SuiteFile != "" {
			loaded, err := prompts.LoadSuite(cfg.SuiteFile)
			if err != nil {
				return err
			}
			cases = loaded
		}

		tests := harness.TestsFromSuite(cases)
		return runBatch(cmd, cfg, tests)
	},
}

func init() {
	rootCmd.AddCommand(suiteCmd)
	suiteCmd.Flags().StringP("model", "m", "", "model to benchmark (e.g. gpt-oss:20b)")
	suiteCmd.Flags().String("suite", "", "YAML file of suite cases (defaults to the built-in suite)")
	suiteCmd.Flags().Int("timeout", 0, "per-invocation timeout in seconds")
	suiteCmd.Flags().Int("cooldown", 0, "pause between runs in seconds")
	suiteCmd.Flags().String("log-dir", "", "directory for per-run log files")
	suiteCmd.Flags().Bool("no-save", false, "skip the JSON/CSV batch export")
}
