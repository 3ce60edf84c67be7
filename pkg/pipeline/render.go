package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/spendinglol/spending/pkg/hierarchy"
	"github.com/spendinglol/spending/pkg/render/nodelink"
	"github.com/spendinglol/spending/pkg/render/table"
	"github.com/spendinglol/spending/pkg/render/treemap"
	"github.com/spendinglol/spending/pkg/render/treemap/sink"
)

// RenderTreemap renders a treemap layout in every requested format.
func RenderTreemap(ctx context.Context, l treemap.Layout, opts Options) (map[string][]byte, error) {
	svgOpts := []sink.SVGOption{sink.WithTitle()}
	if opts.Links {
		svgOpts = append(svgOpts, sink.WithLinks(), sink.WithBaseURL(opts.BaseURL))
	}

	out := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch f {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(l, sink.WithJSONIndent())
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, l, opts.Scale, svgOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, l, svgOpts...)
		default:
			err = ValidateFormat(ViewTree, f)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		out[f] = data
	}
	return out, nil
}

// RenderTable renders a table in every requested format.
func RenderTable(t table.Table, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		switch f {
		case FormatCSV:
			var buf bytes.Buffer
			if err := t.MarshalCSV(&buf); err != nil {
				return nil, err
			}
			out[f] = buf.Bytes()
		case FormatJSON:
			data, err := json.MarshalIndent(t, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("json: %w", err)
			}
			out[f] = data
		default:
			return nil, ValidateFormat(ViewTable, f)
		}
	}
	return out, nil
}

// RenderNodelink renders level as a Graphviz diagram in every requested
// format.
func RenderNodelink(ctx context.Context, level hierarchy.Level, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(level, nodelink.Options{
		Detailed: opts.Detailed,
		Limit:    opts.Limit,
		Links:    opts.Links,
		View:     linkView(ViewNodelink),
	})

	out := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch f {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		default:
			err = ValidateFormat(ViewNodelink, f)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		out[f] = data
	}
	return out, nil
}
