// Package render provides the visual outputs of a spending level.
//
// # Overview
//
// A level can be shown three ways:
//
//   - Treemap (in [treemap] and [treemap/sink]): the main interactive view
//   - Table (in [table]): a sortable list with amounts and percentages
//   - Node-link diagram (in [nodelink]): a Graphviz graph of one level
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both the treemap and
// node-link renderers use them.
//
//	svg := sink.RenderSVG(layout)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [treemap]: github.com/spendinglol/spending/pkg/render/treemap
// [treemap/sink]: github.com/spendinglol/spending/pkg/render/treemap/sink
// [table]: github.com/spendinglol/spending/pkg/render/table
// [nodelink]: github.com/spendinglol/spending/pkg/render/nodelink
package render
