package treemap

import (
	"sort"

	"github.com/spendinglol/spending/pkg/budget"
	"github.com/spendinglol/spending/pkg/contribution"
	"github.com/spendinglol/spending/pkg/format"
	"github.com/spendinglol/spending/pkg/hierarchy"
	"github.com/spendinglol/spending/pkg/render/treemap/layout"
)

// Defaults of [DefaultOptions]. [Build] also falls back to the size and
// title defaults when those options are unset. Sizes are in SVG user units.
const (
	DefaultWidth   = 1024.0
	DefaultHeight  = 1024.0
	DefaultPadding = 1.0
	DefaultTitle   = "Government Spending"
)

// Options configures [Build].
type Options struct {
	Title string
	Key   hierarchy.Key
	View  hierarchy.View

	Width, Height float64
	Padding       float64
	Round         bool

	// Denominator used for every percentage and personal share.
	Denominator hierarchy.Denominator

	// ParentShare is the level's share of the fiscal-year total. It narrows
	// the user's contribution before per-cell shares are computed and does not
	// affect geometry. Nil leaves the contribution unscaled.
	ParentShare *float64

	Personalize     contribution.State
	Click           hierarchy.ClickBehavior
	PercentDecimals int
}

// DefaultOptions returns the settings of the interactive treemap view.
func DefaultOptions() Options {
	return Options{
		Title:           DefaultTitle,
		View:            hierarchy.ViewTree,
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		Padding:         DefaultPadding,
		Round:           true,
		PercentDecimals: format.TreemapPercentDecimals,
	}
}

// ForLevel copies the level's identity into opts.
func (o Options) ForLevel(l hierarchy.Level) Options {
	o.Key = l.Key
	if l.Title != "" {
		o.Title = l.Title
	}
	o.ParentShare = l.ParentShare
	return o
}

// Label holds the text lines drawn inside a cell.
type Label struct {
	Name    string `json:"name"`
	Percent string `json:"percent"`
	Dollars string `json:"dollars"`
	FromYou string `json:"from_you,omitempty"`
}

// Lines returns the non-empty label lines in drawing order.
func (l Label) Lines() []string {
	lines := []string{l.Name, l.Percent, l.Dollars}
	if l.FromYou != "" {
		lines = append(lines, l.FromYou)
	}
	return lines
}

// Cell is one laid-out record.
type Cell struct {
	Record     hierarchy.Record
	Bounds     layout.Rect
	ColorIndex int
	Fill       string
	Ratio      float64
	Share      float64
	HasShare   bool
	Label      Label
	Href       string
}

// Navigable reports whether clicking the cell does anything.
func (c Cell) Navigable() bool { return c.Record.Navigable() }

// Layout is the result of [Build].
type Layout struct {
	Title       string
	Key         hierarchy.Key
	View        hierarchy.View
	Width       float64
	Height      float64
	Total       float64
	Personalize contribution.State
	Cells       []Cell

	click hierarchy.ClickBehavior
}

// Build lays out records in a Width × Height area. Zero Width or Height
// select the defaults. Records are not modified.
func Build(records []hierarchy.Record, opts Options) Layout {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}

	sorted := make([]hierarchy.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight() > sorted[j].Weight()
	})

	weights := make([]float64, len(sorted))
	for i, r := range sorted {
		weights[i] = r.Weight()
	}
	var lopts []layout.Option
	if opts.Round {
		lopts = append(lopts, layout.WithRound())
	}
	area := layout.Rect{X1: opts.Width, Y1: opts.Height}
	rects := layout.Squarify(weights, area, opts.Padding, lopts...)

	total := opts.Denominator.Resolve(sorted)
	l := Layout{
		Title:       opts.Title,
		Key:         opts.Key,
		View:        opts.View,
		Width:       opts.Width,
		Height:      opts.Height,
		Total:       total,
		Personalize: opts.Personalize,
		Cells:       make([]Cell, len(sorted)),
		click:       opts.Click,
	}
	for i, r := range sorted {
		l.Cells[i] = buildCell(i, len(sorted), r, rects[i], total, opts)
	}
	return l
}

func buildCell(i, n int, r hierarchy.Record, bounds layout.Rect, total float64, opts Options) Cell {
	c := Cell{
		Record:     r,
		Bounds:     bounds,
		ColorIndex: i,
		Fill:       Color(i, n),
		Ratio:      r.Weight() / total,
	}
	c.Label = Label{
		Name:    r.Name,
		Percent: format.Percentage(budget.CalculatePercentage(r.Weight(), total), opts.PercentDecimals),
		Dollars: format.Dollars(r.Value),
	}
	if share, ok := opts.Personalize.Share(r.Weight(), total, opts.ParentShare); ok {
		c.Share, c.HasShare = share, true
		c.Label.FromYou = format.FromYou(share)
	}
	if next, ok := opts.Click.Target(r, opts.Key); ok {
		c.Href = next.Path(opts.View)
	}
	return c
}

// Len returns the number of cells.
func (l Layout) Len() int { return len(l.Cells) }

// Cell returns the i-th cell.
func (l Layout) Cell(i int) (Cell, bool) {
	if i < 0 || i >= len(l.Cells) {
		return Cell{}, false
	}
	return l.Cells[i], true
}

// At returns the index of the cell containing the point.
func (l Layout) At(x, y float64) (int, bool) {
	for i, c := range l.Cells {
		if !c.Bounds.Empty() && c.Bounds.Contains(x, y) {
			return i, true
		}
	}
	return -1, false
}

// Click handles a click on cell i and reports whether anything happened.
// Clicks on inert cells and out-of-range indices do nothing.
func (l Layout) Click(i int) bool {
	c, ok := l.Cell(i)
	if !ok {
		return false
	}
	return l.click.Dispatch(c.Record, l.Key)
}
