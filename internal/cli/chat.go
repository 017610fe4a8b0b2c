package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/soyeahso/pocketfi/internal/tool"
)

func newChatCmd() *cobra.Command {
	var (
		threadID  string
		address   string
		storePath string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send one message through the engine and print the response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			eng, closeEngine, err := buildEngine(cfg, storePath)
			if err != nil {
				return err
			}
			defer closeEngine()

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			resp, err := eng.SendMessage(ctx, threadID, message, tool.Caller{Address: address})
			if err != nil {
				return err
			}

			if asJSON {
				out, err := json.MarshalIndent(resp, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			fmt.Println(resp.Content)
			if resp.IsError {
				fmt.Println("\n(the model backend was unavailable)")
			}
			fmt.Printf("\nthread: %s\n", resp.ThreadID)
			return nil
		},
	}

	cmd.Flags().StringVar(&threadID, "thread", "", "send into an existing thread")
	cmd.Flags().StringVar(&address, "address", "", "caller wallet address for tools")
	cmd.Flags().StringVar(&storePath, "store", "", "override thread database path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full response object as JSON")

	return cmd
}
