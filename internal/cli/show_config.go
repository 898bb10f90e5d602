// internal/cli/show_config.go
package ossbench

import (
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

// configShowCmd pretty-prints the merged configuration with the defaults
// applied, which is the state the other commands actually run with.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the merged configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		pp.Println(cfg)
		pp.Printf("model: %s\n", cfg.ModelName())
		pp.Printf("timeout: %s, cooldown: %s\n", cfg.InvokeTimeout(), cfg.Cooldown())
		pp.Printf("log dir: %s, token divisor: %d\n", cfg.LogDirPath(), cfg.Divisor())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}
