package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soyeahso/pocketfi/internal/config"
	"github.com/soyeahso/pocketfi/internal/gateway"
)

func newServeCmd() *cobra.Command {
	var (
		port      int
		bind      string
		storePath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Gateway.Port = port
			}
			if bind != "" {
				cfg.Gateway.Bind = bind
			}

			if problems := config.Validate(cfg); len(problems) > 0 {
				for _, p := range problems {
					log.Error().Msg(p)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(problems))
			}

			eng, closeEngine, err := buildEngine(cfg, storePath)
			if err != nil {
				return err
			}
			defer closeEngine()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := gateway.New(cfg.Gateway, cfg.Network, eng, log)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override gateway port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, or a host)")
	cmd.Flags().StringVar(&storePath, "store", "", "override thread database path")

	return cmd
}
