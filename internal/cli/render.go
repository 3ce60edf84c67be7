package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spendinglol/spending/pkg/errors"
	"github.com/spendinglol/spending/pkg/hierarchy"
	"github.com/spendinglol/spending/pkg/pipeline"
	"github.com/spendinglol/spending/pkg/render"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		lf         levelFlags
		formatsStr string
		output     string
	)
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "render [level]",
		Short: "Render a spending level as a treemap, table or node-link diagram",
		Long: `Render one level of the spending hierarchy.

The level is "total" (default), "agency/<id>" or "agency/<id>/account/<id>".

Views and their formats (the first is the default):
  tree       svg, json, png, pdf
  table      csv, json
  nodelink   svg, dot, png, pdf

PNG and PDF need rsvg-convert (librsvg). Results are cached.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseLevel(args)
			if err != nil {
				return err
			}
			base := c.baseOptions()
			if err := lf.apply(cmd, c, &base); err != nil {
				return err
			}
			base.Key = key
			base.View = opts.View
			base.Padding = opts.Padding
			base.Sort = opts.Sort
			base.Order = opts.Order
			base.Links = opts.Links
			base.BaseURL = opts.BaseURL
			base.Scale = opts.Scale
			base.Limit = opts.Limit
			base.Detailed = opts.Detailed
			base.Formats = parseFormats(formatsStr)
			if err := base.ValidateAndSetDefaults(); err != nil {
				return err
			}
			if err := checkConverter(base.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), base, output, lf.noCache)
		},
	}

	lf.register(cmd)
	cmd.ValidArgsFunction = c.completeLevel
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.View, "view", "t", pipeline.DefaultView, "view: tree, table, nodelink")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s), comma-separated")
	cmd.Flags().Float64Var(&opts.Padding, "padding", pipeline.DefaultPadding, "gap between treemap cells")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "table sort column: amount (default), name, percent")
	cmd.Flags().StringVar(&opts.Order, "order", "", "table sort order: asc, desc")
	cmd.Flags().BoolVar(&opts.Links, "links", false, "link items to their child level")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "prefix for links")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "nodelink: keep only the largest N items")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "nodelink: show amounts on nodes")

	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache, opts.Refresh)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := newStatusSpinner(fmt.Sprintf("Rendering %s (%s)...", opts.Key, opts.View))
	spin.start(ctx)

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spin.fail("Render failed")
		return err
	}
	spin.stop()

	paths := outputPaths(opts.Key, opts.Formats, output)
	for _, f := range opts.Formats {
		if err := os.WriteFile(paths[f], result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
	}

	printSuccess("Rendered %s", result.Level.Title)
	for _, f := range opts.Formats {
		printFile(paths[f])
	}
	printStats(result.Stats.Records, result.CacheInfo.LoadHit && result.CacheInfo.RenderHit)
	return nil
}

// outputPaths maps each format to its file. A single format with an
// explicit output uses it as is; otherwise output (or a name derived from
// the level) is a base path that gets the format as extension.
func outputPaths(key hierarchy.Key, formats []string, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}

	base := output
	if base == "" {
		base = appName + "_" + strings.ReplaceAll(key.String(), "/", "_")
	} else if ext := filepath.Ext(base); isFormat(strings.TrimPrefix(ext, ".")) {
		base = strings.TrimSuffix(base, ext)
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// checkConverter fails early when a raster or PDF format is requested and
// rsvg-convert is missing.
func checkConverter(formats []string) error {
	for _, f := range formats {
		if (f == pipeline.FormatPNG || f == pipeline.FormatPDF) && !render.Available() {
			return errors.New(errors.ErrCodeUnsupported, "%s output needs rsvg-convert (install librsvg)", f)
		}
	}
	return nil
}

func isFormat(s string) bool {
	for _, formats := range pipeline.ViewFormats {
		for _, f := range formats {
			if f == s {
				return true
			}
		}
	}
	return false
}
