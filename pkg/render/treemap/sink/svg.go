package sink

import (
	"bytes"
	"fmt"

	"github.com/spendinglol/spending/pkg/render/treemap"
)

const cellInteractionCSS = `
    .cell-rect { transition: opacity 0.3s ease; }
    .cell-text { pointer-events: none; font-family: Inter, system-ui, Avenir, Helvetica, Arial, sans-serif; font-size: 14px; }
    a .cell-rect { cursor: pointer; }`

const cellInteractionJS = `
    document.querySelectorAll('.cell-rect').forEach(el => {
      el.addEventListener('mouseenter', () => {
        el.setAttribute('fill', el.dataset.hoverFill);
        el.setAttribute('opacity', el.dataset.hoverOpacity);
      });
      el.addEventListener('mouseleave', () => {
        el.setAttribute('fill', el.dataset.fill);
        el.setAttribute('opacity', el.dataset.opacity);
      });
    });`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	links       bool
	interactive bool
	title       bool
	textColor   string
	baseURL     string
}

// WithLinks wraps navigable cells in links to their child level.
func WithLinks() SVGOption { return func(r *svgRenderer) { r.links = true } }

// WithBaseURL prefixes cell links, e.g. with a server mount point.
func WithBaseURL(u string) SVGOption { return func(r *svgRenderer) { r.baseURL = u } }

// WithTitle adds the layout title as an SVG <title>.
func WithTitle() SVGOption { return func(r *svgRenderer) { r.title = true } }

// WithStatic leaves out the hover script, for PDF and PNG output.
func WithStatic() SVGOption { return func(r *svgRenderer) { r.interactive = false } }

// WithTextColor sets the label color (default white).
func WithTextColor(c string) SVGOption { return func(r *svgRenderer) { r.textColor = c } }

// RenderSVG renders the layout as a standalone SVG document.
func RenderSVG(l treemap.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	if r.title && l.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(l.Title))
	}
	renderDefs(&buf)

	for i, c := range l.Cells {
		rest, _ := l.Style(i)
		hover, _ := l.Hover(i)
		r.renderCell(&buf, i, c, rest, hover)
	}

	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", cellInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", cellInteractionJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{interactive: true, textColor: "white"}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// renderDefs writes the money pattern used as the hover fill: a green tile
// with a dollar sign.
func renderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <defs>
    <pattern id="%s" patternUnits="userSpaceOnUse" width="64" height="64">
      <rect width="64" height="64" fill="#2E7D32"/>
      <rect x="4" y="16" width="56" height="32" rx="4" fill="#66BB6A" stroke="#1B5E20" stroke-width="2"/>
      <text x="32" y="39" text-anchor="middle" font-size="20" font-family="Georgia, serif" fill="#1B5E20">$</text>
    </pattern>
  </defs>
`, treemap.MoneyPatternID)
}

func (r svgRenderer) renderCell(buf *bytes.Buffer, i int, c treemap.Cell, rest, hover treemap.CellStyle) {
	w, h := c.Bounds.Width(), c.Bounds.Height()
	link := r.links && c.Href != ""
	if link {
		fmt.Fprintf(buf, `  <a href="%s">`+"\n", escapeXML(r.baseURL+c.Href))
	}
	fmt.Fprintf(buf, `  <g class="cell" data-index="%d" transform="translate(%.2f,%.2f)">`+"\n", i, c.Bounds.X0, c.Bounds.Y0)
	fmt.Fprintf(buf, `    <rect class="cell-rect" width="%.2f" height="%.2f" fill="%s" opacity="%.1f" data-fill="%s" data-opacity="%.1f" data-hover-fill="%s" data-hover-opacity="%.1f"/>`+"\n",
		w, h, rest.Fill, rest.Opacity, rest.Fill, rest.Opacity, hover.Fill, hover.Opacity)

	if lines := visibleLines(c.Label.Lines(), w, h); len(lines) > 0 {
		fmt.Fprintf(buf, `    <text class="cell-text" fill="%s">`, r.textColor)
		for j, line := range lines {
			fmt.Fprintf(buf, `<tspan x="%.0f" y="%.0f">%s</tspan>`,
				labelInsetX, labelFirstLine+float64(j)*labelLineHeight, escapeXML(line))
		}
		buf.WriteString("</text>\n")
	}
	buf.WriteString("  </g>\n")
	if link {
		buf.WriteString("  </a>\n")
	}
}
