// Package nodelink renders a hierarchy level as a node-link diagram.
//
// # Overview
//
// The level title becomes a root node with one edge per record, labeled
// with the record's share of the level. It is an alternative to the treemap
// for small levels or printed reports.
//
// # Usage
//
//	dot := nodelink.ToDOT(level, nodelink.Options{Detailed: true, Limit: 12})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
