package cli

import (
	"fmt"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/spendinglol/spending/pkg/contribution"
	"github.com/spendinglol/spending/pkg/observability/prometheus"
	"github.com/spendinglol/spending/pkg/server"
)

// serveCommand runs the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		metrics  bool
		noCache  bool
		sessions int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve treemaps, tables and the JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := []server.Option{
				server.WithLogger(c.Logger),
				server.WithFiscalYear(c.Config.FiscalYear),
				server.WithSize(float64(c.Config.Width), float64(c.Config.Height)),
				server.WithContribution(contribution.State{
					Amount:  c.Config.Contribution.Amount,
					Enabled: c.Config.Contribution.Enabled,
				}),
				server.WithSessionLimit(sessions),
			}
			if metrics {
				m := prometheus.New(promclient.NewRegistry())
				m.Install()
				opts = append(opts, server.WithMetrics(m))
			}

			printInfo("Serving on %s", StyleLink.Render(displayAddr(addr)))
			return server.New(runner, opts...).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "expose Prometheus metrics at /metrics")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&sessions, "max-sessions", server.DefaultSessionLimit, "live browser sessions kept before the least recent is dropped")

	return cmd
}

// displayAddr turns a listen address into a URL a browser can open.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
