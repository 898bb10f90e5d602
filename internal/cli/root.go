// internal/cli/root.go
// Package ossbench wires the command-line surface: flag parsing, config
// loading, and the subcommands that drive benchmarks and analysis.
package ossbench

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/ossbench/internal/appconfig"
	"github.com/mwiater/ossbench/internal/logging"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:   "ossbench",
	Short: "ossbench — benchmark local Ollama models from the terminal",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load and validate the config file (missing file means defaults).
		cfg, err := appconfig.Load(cfgFile)
		if err != nil {
			return err
		}

		// 2) If the user did NOT set a flag, copy the config value into the
		//    flag so both pflags and viper reflect the same, final value.
		if !cmd.Flags().Changed("debug") {
			_ = cmd.Flags().Set("debug", strconv.FormatBool(cfg.Debug))
		}
		cfg.Debug = viper.GetBool("debug")

		// 3) Materialize the merged configuration (flags > config > defaults)
		//    as a stable snapshot for the subcommands.
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("initialize logging: %w", err)
		}
		logging.SetDebug(cfg.Debug)
		logging.Debugf("config loaded from %s", cfg.ConfigPath)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Close()
	},
}

// Execute runs the root command with signal-aware cancellation.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// Bind flags to Viper keys (flags override config)
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

// getConfig returns the loaded application configuration for the subcommands.
func getConfig() appconfig.Config {
	if currentConfig == nil {
		return appconfig.Config{SaveResults: true}
	}
	return *currentConfig
}
