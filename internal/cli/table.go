package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendinglol/spending/pkg/format"
	"github.com/spendinglol/spending/pkg/pipeline"
	"github.com/spendinglol/spending/pkg/render/table"
)

// tableCommand prints one level as a sorted table.
func (c *CLI) tableCommand() *cobra.Command {
	var (
		lf    levelFlags
		sort  string
		order string
		limit int
		csv   bool
	)

	cmd := &cobra.Command{
		Use:   "table [level]",
		Short: "Print a spending level as a sorted table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseLevel(args)
			if err != nil {
				return err
			}
			opts := c.baseOptions()
			if err := lf.apply(cmd, c, &opts); err != nil {
				return err
			}
			opts.Key = key
			opts.View = pipeline.ViewTable
			opts.Sort = sort
			opts.Order = order
			if err := opts.ValidateForLayout(); err != nil {
				return err
			}
			return c.runTable(cmd.Context(), opts, lf.noCache, limit, csv)
		},
	}

	lf.register(cmd)
	cmd.ValidArgsFunction = c.completeLevel
	cmd.Flags().StringVar(&sort, "sort", "", "sort column: amount (default), name, percent")
	cmd.Flags().StringVar(&order, "order", "", "sort order: asc, desc (default depends on column)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the first N rows")
	cmd.Flags().BoolVar(&csv, "csv", false, "write CSV to stdout")

	return cmd
}

func (c *CLI) runTable(ctx context.Context, opts pipeline.Options, noCache bool, limit int, csv bool) error {
	runner, err := c.newRunner(ctx, noCache, opts.Refresh)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	level, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	t, err := pipeline.BuildTable(level, opts)
	if err != nil {
		return err
	}

	if csv {
		return t.MarshalCSV(stdout)
	}

	printTitle(level.Title)
	printField("Total", format.DollarsLong(level.Total))
	if amount, ok := opts.Contribution().LevelShare(level.ParentShare); ok {
		printField("From you", format.Dollars(amount))
	}
	printNewline()
	printLine(t.RenderText(table.WithLimit(limit)))
	if limit > 0 && len(t.Rows) > limit {
		printDetail("%d of %d rows", limit, len(t.Rows))
	}
	return nil
}
