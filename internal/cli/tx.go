package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soyeahso/pocketfi/internal/txpayload"
)

func newTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Build unsigned transaction payloads",
	}

	cmd.AddCommand(newTxTransferCmd())
	cmd.AddCommand(newTxApproveCmd())
	return cmd
}

func newTxTransferCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "transfer <amount> <recipient>",
		Short: "Build a token transfer payload",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			net, err := cfg.ActiveNetwork()
			if err != nil {
				return err
			}

			builder := txpayload.NewBuilder(net, cfg.Engine.MaxTransfer)
			payload, err := builder.BuildTransfer(from, args[1], args[0])
			if err != nil {
				return err
			}
			return printJSON(payload)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "sender address")
	cmd.MarkFlagRequired("from")
	return cmd
}

func newTxApproveCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "approve <amount> <spender>",
		Short: "Build a token approval payload",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			net, err := cfg.ActiveNetwork()
			if err != nil {
				return err
			}

			builder := txpayload.NewBuilder(net, cfg.Engine.MaxTransfer)
			payload, err := builder.BuildApprove(from, args[1], args[0])
			if err != nil {
				return err
			}
			return printJSON(payload)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "owner address")
	cmd.MarkFlagRequired("from")
	return cmd
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
