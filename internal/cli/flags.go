package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendinglol/spending/pkg/config"
	"github.com/spendinglol/spending/pkg/format"
	"github.com/spendinglol/spending/pkg/hierarchy"
	"github.com/spendinglol/spending/pkg/pipeline"
)

// loadConfig reads the configuration before any subcommand runs.
func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath, c.envFile)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config",
		"fiscal_year", cfg.FiscalYear,
		"data_dir", cfg.DataDir,
		"cache", cfg.Cache.Backend,
		"offline", cfg.API.Offline)
	return nil
}

// levelFlags are the flags shared by commands that load one level. They
// override the configuration only when set on the command line.
type levelFlags struct {
	fiscalYear  int
	width       float64
	height      float64
	amount      string
	personalize bool
	offline     bool
	noCache     bool
	refresh     bool
}

func (f *levelFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.fiscalYear, "fy", pipeline.DefaultFiscalYear, "fiscal year")
	fs.Float64Var(&f.width, "width", pipeline.DefaultWidth, "frame width")
	fs.Float64Var(&f.height, "height", pipeline.DefaultHeight, "frame height")
	fs.StringVar(&f.amount, "amount", "", `personal contribution, e.g. "$1,000" (implies --personalize)`)
	fs.BoolVar(&f.personalize, "personalize", false, `show each item's share "from you"`)
	fs.BoolVar(&f.offline, "offline", false, "use only the data directory")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "refetch from the API, ignoring cached responses")
}

// apply copies explicitly set flags onto the configuration and opts.
func (f *levelFlags) apply(cmd *cobra.Command, c *CLI, opts *pipeline.Options) error {
	fs := cmd.Flags()
	if fs.Changed("fy") {
		c.Config.FiscalYear = f.fiscalYear
		opts.FiscalYear = f.fiscalYear
	}
	if fs.Changed("offline") {
		c.Config.API.Offline = f.offline
	}
	if fs.Changed("width") {
		opts.Width = f.width
	}
	if fs.Changed("height") {
		opts.Height = f.height
	}
	if fs.Changed("personalize") {
		opts.Personalize = f.personalize
	}
	if f.amount != "" {
		amount, err := format.ParseAmount(f.amount)
		if err != nil {
			return err
		}
		opts.Amount = amount
		if !fs.Changed("personalize") {
			opts.Personalize = true
		}
	}
	opts.Refresh = f.refresh
	return nil
}

// parseLevel parses the optional level argument ("total", "agency/1125",
// "/agency/1125/account/021-2020").
func parseLevel(args []string) (hierarchy.Key, error) {
	if len(args) == 0 {
		return hierarchy.Key{}, nil
	}
	key, err := hierarchy.ParseKey(args[0])
	if err != nil {
		return hierarchy.Key{}, fmt.Errorf("level %q: %w", args[0], err)
	}
	return key, nil
}
