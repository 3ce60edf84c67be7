// Package cli implements the spending command-line interface.
//
// # Commands
//
//   - budget: print the revenue / outlays / obligations headline
//   - render: write a level as a treemap, table or node-link diagram
//   - table: print a level as a sorted table
//   - browse: drill through the hierarchy interactively
//   - prefetch: download every level into the data directory
//   - serve: run the HTTP server
//   - cache: inspect and clear the response cache
//
// Settings come from the config file, a .env file and SPENDING_* variables
// (see package config); flags override all of them.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/spendinglol/spending/pkg/buildinfo"
	"github.com/spendinglol/spending/pkg/cache"
	"github.com/spendinglol/spending/pkg/config"
	"github.com/spendinglol/spending/pkg/dataset"
	"github.com/spendinglol/spending/pkg/hierarchy"
	"github.com/spendinglol/spending/pkg/integrations/usaspending"
	"github.com/spendinglol/spending/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "spending"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	envFile    string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:  newLogger(w, level),
		Config:  config.Default(),
		envFile: ".env",
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Explore US federal spending as treemaps and tables",
		Long: `spending shows where federal money goes: agencies, their federal
accounts and the program activities under them, sized by obligated amount.
Set a personal contribution to see each item's share "from you".`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/spending/config.toml)")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", c.envFile, "dotenv file with SPENDING_* variables")

	root.AddCommand(c.budgetCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.tableCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.prefetchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newCache opens the configured cache backend. noCache forces the null cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cfg.RedisURL, appName+":")
	case config.BackendMongo:
		return cache.NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, cache.DefaultMongoCollection)
	default:
		return cache.NewFileCache(cfg.Dir)
	}
}

// newAPI returns the spending API as a level source. refresh bypasses
// cached API responses.
func (c *CLI) newAPI(store cache.Cache, refresh bool) dataset.Source {
	client := usaspending.NewClient(store, cache.TTLHTTP,
		usaspending.WithBaseURL(c.Config.API.BaseURL),
		usaspending.WithFiscalYear(c.Config.FiscalYear),
		usaspending.WithPeriod(c.Config.API.Period))
	return dataset.SourceFunc(func(ctx context.Context, key hierarchy.Key) (hierarchy.Response, error) {
		return client.Fetch(ctx, key, refresh)
	})
}

// newSource returns the level source: the data directory first, then the
// API unless offline. With refresh the data directory is skipped.
func (c *CLI) newSource(store cache.Cache, refresh bool) dataset.Source {
	dir := dataset.NewDir(c.Config.DataDir, c.Config.FiscalYear)
	switch {
	case c.Config.API.Offline:
		return dir
	case refresh:
		return c.newAPI(store, true)
	default:
		return dataset.Chain(dir, c.newAPI(store, false))
	}
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache, refresh bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	src := c.newSource(store, refresh)
	return pipeline.NewRunner(dataset.NewLoader(src), store, c.newKeyer(), c.Logger), nil
}

// newKeyer keeps levels read only from the data directory apart from API
// levels, since a hand-edited data directory can disagree with the API.
func (c *CLI) newKeyer() cache.Keyer {
	if c.Config.API.Offline {
		return cache.NewScopedKeyer(nil, "offline:")
	}
	return cache.NewDefaultKeyer()
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options seeded from the configuration.
func (c *CLI) baseOptions() pipeline.Options {
	return pipeline.Options{
		FiscalYear:  c.Config.FiscalYear,
		Width:       float64(c.Config.Width),
		Height:      float64(c.Config.Height),
		Amount:      c.Config.Contribution.Amount,
		Personalize: c.Config.Contribution.Enabled,
		Logger:      c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
// Empty selects the view's default format.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
