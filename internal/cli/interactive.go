// internal/cli/interactive.go
package ossbench

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/ossbench/internal/ollama"
	"github.com/mwiater/ossbench/internal/tui"
)

// interactiveCmd opens the terminal session: pick a model, send prompts, and
// see timing for each response.
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Start an interactive prompt session with timing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		client := ollama.NewCLIClient(cfg.Binary())
		return tui.Run(cmd.Context(), client, cfg.InvokeTimeout(), cfg.Divisor())
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
