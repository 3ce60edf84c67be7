// Package treemap builds the treemap view of one hierarchy level.
//
// # Overview
//
// [Build] is a pure function from records, area and settings to a [Layout]:
// one [Cell] per record with its rectangle, fill color and label lines. It
// performs no I/O and draws nothing; the [sink] subpackage turns a Layout
// into SVG, JSON, PNG or PDF.
//
//	l := treemap.Build(level.Records, treemap.Options{
//	    Width:       1280,
//	    Height:      treemap.DefaultHeight,
//	    Padding:     treemap.DefaultPadding,
//	    ParentShare: level.ParentShare,
//	    Personalize: store.Get(),
//	    Click:       hierarchy.Default(navigate),
//	})
//	svg := sink.RenderSVG(l)
//
// Cells are ordered by descending value. Colors run linearly from
// [DarkColor] for the first cell to [LightColor] for the last.
//
// # Interaction
//
// [Layout.Click] dispatches through the layout's [hierarchy.ClickBehavior];
// cells without an id are inert. [Layout.Hover] and [Layout.Leave] return the
// style a renderer should apply, leaving geometry untouched.
//
// # Redraw
//
// A [View] wraps Build for hosts whose size or data changes over time. It
// recomputes the whole layout on every change and hands it to a redraw
// callback; there is no incremental update.
//
// [sink]: github.com/spendinglol/spending/pkg/render/treemap/sink
package treemap
