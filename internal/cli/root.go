// Package cli implements the pocketfi command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/soyeahso/pocketfi/internal/config"
	"github.com/soyeahso/pocketfi/internal/logging"
)

var (
	cfgFile  string
	logLevel string
	netName  string

	// loaded at init time
	paths config.Paths
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pocketfi",
		Short: "pocketfi - conversational command engine for DeFi dashboards",
		Long:  "pocketfi turns chat messages into balance lookups, gas estimates, and unsigned transaction payloads, over a local WebSocket gateway or one-shot CLI calls.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}
			level := logLevel
			if level == "" {
				level = "info"
			}
			log = logging.New(nil, level)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.pocketfi/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")
	cmd.PersistentFlags().StringVar(&netName, "network", "", "override active network")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newTxCmd())
	cmd.AddCommand(newThreadsCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// loadConfig loads the effective config, applying the --network override.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return config.Config{}, err
	}
	if netName != "" {
		cfg.Network = netName
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
