// internal/cli/models.go
package ossbench

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/ossbench/internal/ollama"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Model management commands",
}

// modelsListCmd prints the locally available models.
var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List locally available models",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		client := ollama.NewCLIClient(cfg.Binary())
		names, err := client.ListModels(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(out, "no models installed")
			return nil
		}
		color.New(color.Bold).Fprintf(out, "%d models available:\n", len(names))
		for _, name := range names {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd)
}
