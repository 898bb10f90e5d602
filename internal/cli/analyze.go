// internal/cli/analyze.go
package ossbench

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/ossbench/internal/metrics"
)

// analyzeCmd parses previously written run logs and compares models.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze run logs and compare model performance",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		dir := cfg.LogDirPath()
		if flagDir, _ := cmd.Flags().GetString("log-dir"); flagDir != "" {
			dir = flagDir
		}

		runs, err := metrics.LoadLogDir(dir)
		if err != nil {
			return err
		}
		reports := metrics.Aggregate(runs)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Parsed %d runs from %s\n\n", len(runs), dir)
		metrics.RenderTable(out, reports)

		if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
			if err := metrics.ExportRunsCSV(exportPath, runs); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nCSV exported: %s\n", exportPath)
		}
		if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
			if err := metrics.WriteHTMLReport(reportPath, reports); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nHTML report written: %s\n", reportPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().String("log-dir", "", "directory of run logs to analyze")
	analyzeCmd.Flags().String("export", "", "write parsed runs to this CSV file")
	analyzeCmd.Flags().String("report", "", "write a standalone HTML report to this file")
}
