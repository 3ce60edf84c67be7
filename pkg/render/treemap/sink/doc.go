// Package sink provides output format renderers for treemap layouts.
//
// # Overview
//
// A "sink" transforms a computed [treemap.Layout] into a final output format:
//
//   - SVG: cells, labels, drill-down links and hover interaction
//   - JSON: layout data for the web front end and external tools
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster image output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] draws one group per cell. Navigable cells are wrapped in a
// link to the child level, and a small script applies the layout's hover
// style (money pattern, full opacity) on pointer enter and restores the
// resting style on leave.
//
//	svg := sink.RenderSVG(l, sink.WithLinks(), sink.WithTitle())
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] render SVG first and convert it with
// [render.ToPDF] and [render.ToPNG]. Static formats are rendered without
// the interaction script.
//
// [treemap.Layout]: github.com/spendinglol/spending/pkg/render/treemap.Layout
// [render.ToPDF]: github.com/spendinglol/spending/pkg/render.ToPDF
// [render.ToPNG]: github.com/spendinglol/spending/pkg/render.ToPNG
package sink
