// internal/cli/gpu.go
package ossbench

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mwiater/ossbench/internal/gpu"
)

var gpuCmd = &cobra.Command{
	Use:   "gpu",
	Short: "GPU telemetry commands",
}

// gpuWatchCmd tails live GPU readings, optionally appending JSONL records.
var gpuWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch live GPU utilization, memory, and temperature",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetInt("interval")
		duration, _ := cmd.Flags().GetInt("duration")
		logPath, _ := cmd.Flags().GetString("log-file")

		monitor := &gpu.Monitor{
			Sampler:  gpu.NewSampler("nvidia-smi"),
			Interval: time.Duration(interval) * time.Second,
			Duration: time.Duration(duration) * time.Second,
			LogPath:  logPath,
			Out:      cmd.OutOrStdout(),
		}
		return monitor.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(gpuCmd)
	gpuCmd.AddCommand(gpuWatchCmd)
	gpuWatchCmd.Flags().Int("interval", 2, "seconds between samples")
	gpuWatchCmd.Flags().Int("duration", 0, "total seconds to watch (0 means until interrupted)")
	gpuWatchCmd.Flags().String("log-file", "", "append JSONL records to this file")
}
