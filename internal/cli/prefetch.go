package cli

import (
	"fmt"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/spendinglol/spending/pkg/dataset"
	"github.com/spendinglol/spending/pkg/observability"
	"github.com/spendinglol/spending/pkg/observability/prometheus"
	"github.com/spendinglol/spending/pkg/prefetch"
)

// prefetchCommand downloads levels into the data directory.
func (c *CLI) prefetchCommand() *cobra.Command {
	var (
		agencies    string
		delay       time.Duration
		concurrency int
		refresh     bool
		noCache     bool
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "prefetch",
		Short: "Download every agency and account level into the data directory",
		Long: `Download the top level, every agency and every federal account into
the data directory so later runs work offline.

Existing files are kept unless --refresh is given. Agencies are fetched one at
a time with --delay between them; accounts of one agency are fetched in
parallel.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("delay") {
				delay = c.Config.Prefetch.Delay
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = c.Config.Prefetch.Concurrency
			}
			if c.Config.API.Offline {
				return fmt.Errorf("prefetch needs the API; unset offline mode")
			}

			var metrics *prometheus.Metrics
			if metricsFile != "" {
				metrics = prometheus.New(promclient.NewRegistry())
				metrics.Install()
				defer observability.Reset()
			}

			timer := newStageTimer(c.Logger)
			store, err := c.newCache(ctx, noCache)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()
			timer.step("opened cache", "backend", c.Config.Cache.Backend, "no_cache", noCache)

			dir := dataset.NewDir(c.Config.DataDir, c.Config.FiscalYear)
			sum, err := prefetch.Run(ctx, prefetch.Options{
				Dir:         dir,
				Source:      c.newAPI(store, refresh),
				Delay:       delay,
				Concurrency: concurrency,
				Agencies:    splitList(agencies),
				Refresh:     refresh,
				Logger:      c.Logger,
			})
			if metrics != nil {
				if werr := metrics.WriteFile(metricsFile); werr != nil {
					c.Logger.Warn("failed to write metrics", "file", metricsFile, "err", werr)
				}
			}
			if err != nil {
				return err
			}
			timer.done("prefetch finished",
				"agencies", sum.Agencies,
				"accounts", sum.Accounts,
				"failed", sum.Failed)

			printSuccess("Prefetched %d agencies, %d accounts", sum.Agencies, sum.Accounts)
			printDetail("%d written · %d already present · %d failed", sum.Written, sum.Skipped, sum.Failed)
			printDetail("Directory: %s", dir.Root())
			if sum.Failed > 0 {
				printWarning("%d agencies failed; rerun to retry them", sum.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&agencies, "agency", "", "only these agency ids (comma-separated)")
	cmd.Flags().DurationVar(&delay, "delay", time.Second, "pause between agencies")
	cmd.Flags().IntVar(&concurrency, "concurrency", prefetch.DefaultConcurrency, "parallel account fetches")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "rewrite files that already exist")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not cache API responses")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file when done")

	return cmd
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
