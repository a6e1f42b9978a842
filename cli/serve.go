package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/notecraft/notecraft/server"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP preview and lint service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			cfg, err := loadAppConfig(ctx)
			if err != nil {
				return err
			}
			return server.New(cfg).Run(ctx)
		},
	}
}
