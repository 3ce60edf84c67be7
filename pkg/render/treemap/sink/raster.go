package sink

import (
	"context"

	"github.com/spendinglol/spending/pkg/render"
	"github.com/spendinglol/spending/pkg/render/treemap"
)

// RenderPNG renders the static SVG of l and rasterizes it at scale
// (2 gives a 2x image). It needs rsvg-convert on PATH.
func RenderPNG(ctx context.Context, l treemap.Layout, scale float64, opts ...SVGOption) ([]byte, error) {
	return render.ToPNG(ctx, staticSVG(l, opts), scale)
}

// RenderPDF renders the static SVG of l as a one-page PDF. It needs
// rsvg-convert on PATH.
func RenderPDF(ctx context.Context, l treemap.Layout, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, staticSVG(l, opts))
}

// staticSVG drops the hover script; converters cannot run it.
func staticSVG(l treemap.Layout, opts []SVGOption) []byte {
	return RenderSVG(l, append(opts[:len(opts):len(opts)], WithStatic())...)
}
