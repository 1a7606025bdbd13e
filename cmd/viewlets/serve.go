package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/viewlets/pkg/container"
	"github.com/vango-dev/viewlets/pkg/metrics"
	"github.com/vango-dev/viewlets/pkg/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout's record live",
		Long: `Serve hosts the layout's record over HTTP. Every browser tab gets its own
view container over a WebSocket session; record changes made from one tab
are pushed to the others.

Routes:
  GET /         rendered page
  GET /ws       live session
  GET /metrics  Prometheus metrics

Examples:
  viewlets serve
  viewlets serve --addr :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := loadLayout(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if addr != "" {
				layout.Server.Addr = addr
			}

			rec := layout.NewRecord()
			// fail fast on a layout that cannot build
			if _, err := container.New(layout.ContainerConfig(rec)); err != nil {
				return err
			}

			srv := server.New(func() container.Config {
				return layout.ContainerConfig(rec)
			}, rec, &server.Config{
				Address:      layout.Server.Addr,
				PingInterval: layout.Server.PingInterval,
				Metrics:      metrics.New(),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from layout)")

	return cmd
}
