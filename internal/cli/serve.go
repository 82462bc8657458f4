package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the headline page and JSON API",
		Long: `Start the HTTP server.

Routes:
  GET /                 HTML page with country selector and load more
  GET /api/headlines    JSON page (country, page, page_size)
  GET /api/countries    supported countries
  GET /healthz          liveness
  GET /metrics          Prometheus metrics (when metrics.enabled)`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				opts.cfg.HTTP.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := opts.build(ctx)
			if err != nil {
				return err
			}
			srv, err := a.Server()
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http.addr)")
	return cmd
}
