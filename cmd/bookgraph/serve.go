package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agenthands/bookgraph/internal/app"
	"github.com/agenthands/bookgraph/internal/server"
)

func newServeCmd(c *cli) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and upload form",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				c.cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return c.withApp(ctx, func(a *app.App) error {
				return server.NewServer(a.Graph, a.Splitter, c.cfg.Server, c.logger).Run(ctx)
			})
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides server.port)")
	return cmd
}
