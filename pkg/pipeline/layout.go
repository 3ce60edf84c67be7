package pipeline

import (
	"github.com/spendinglol/spending/pkg/hierarchy"
	"github.com/spendinglol/spending/pkg/render/table"
	"github.com/spendinglol/spending/pkg/render/treemap"
)

// staticClick gives every navigable record a link target without acting on
// clicks; rendered documents navigate through their hrefs.
var staticClick = hierarchy.Default(func(hierarchy.Key) {})

// linkView maps a pipeline view onto the view carried in drill-down links.
func linkView(view string) hierarchy.View {
	switch view {
	case ViewTable:
		return hierarchy.ViewTable
	case ViewNodelink:
		return hierarchy.ViewGraph
	default:
		return hierarchy.ViewTree
	}
}

// TreemapOptions derives treemap build options for level.
func TreemapOptions(level hierarchy.Level, opts Options) treemap.Options {
	t := treemap.DefaultOptions().ForLevel(level)
	t.View = linkView(opts.View)
	t.Width = opts.Width
	t.Height = opts.Height
	t.Padding = opts.Padding
	t.Personalize = opts.Contribution()
	t.Click = staticClick
	return t
}

// BuildTreemap lays out level as a treemap.
func BuildTreemap(level hierarchy.Level, opts Options) treemap.Layout {
	return treemap.Build(level.Records, TreemapOptions(level, opts))
}

// BuildTable builds the sorted table of level.
func BuildTable(level hierarchy.Level, opts Options) (table.Table, error) {
	by, err := table.ParseSort(opts.Sort)
	if err != nil {
		return table.Table{}, err
	}
	order, err := table.ParseOrder(opts.Order, by)
	if err != nil {
		return table.Table{}, err
	}
	t := table.DefaultOptions()
	t.Title = level.Title
	t.Key = level.Key
	t.SortBy = by
	t.Order = order
	t.Click = staticClick
	return table.Build(level.Records, t), nil
}
