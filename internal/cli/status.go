package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/soyeahso/pocketfi/internal/config"
	"github.com/soyeahso/pocketfi/internal/llm"
	"github.com/soyeahso/pocketfi/internal/version"
)

func newStatusCmd() *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show pocketfi status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("pocketfi %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Data:    %s\n", paths.Data)
			fmt.Println()

			cfg, err := loadConfig()
			if err != nil {
				fmt.Printf("Config:  error loading: %v\n", err)
				return nil
			}

			net, err := cfg.ActiveNetwork()
			if err != nil {
				fmt.Printf("Network: %v\n", err)
			} else {
				fmt.Printf("Network: %s (chain %d, %s, %d decimals)\n",
					net.NetworkName, net.ChainID, net.TokenSymbol, net.Decimals)
				if net.RPCURL == "" {
					fmt.Println("RPC:     (not configured)")
				} else {
					fmt.Printf("RPC:     %s\n", net.RPCURL)
				}
			}

			fmt.Printf("Gateway: port=%d bind=%s\n", cfg.Gateway.Port, bindOrDefault(cfg))
			fmt.Printf("Engine:  historyBudget=%d toolTimeout=%ds maxTransfer=%.2f\n",
				cfg.Engine.HistoryBudget, cfg.Engine.ToolTimeoutSec, cfg.Engine.MaxTransfer)
			fmt.Printf("LLM:     provider=%s model=%s\n", cfg.LLM.Provider, cfg.LLM.Model)

			if probe {
				client, err := llm.NewRegistryFromConfig(cfg.LLM, log).Resolve(cfg.LLM.Provider)
				if err != nil {
					fmt.Printf("Probe:   %v\n", err)
				} else {
					ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
					defer cancel()
					if err := llm.Healthy(ctx, client); err != nil {
						fmt.Printf("Probe:   failed: %v\n", err)
					} else {
						fmt.Println("Probe:   ok")
					}
				}
			}

			if problems := config.Validate(cfg); len(problems) > 0 {
				fmt.Printf("\nValidation issues (%d):\n", len(problems))
				for _, p := range problems {
					fmt.Printf("  - %s\n", p)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "send a health probe to the model backend")
	return cmd
}

func bindOrDefault(cfg config.Config) string {
	if cfg.Gateway.Bind == "" {
		return "loopback"
	}
	return cfg.Gateway.Bind
}
