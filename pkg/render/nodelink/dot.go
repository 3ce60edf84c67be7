package nodelink

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/spendinglol/spending/pkg/errors"
	"github.com/spendinglol/spending/pkg/format"
	"github.com/spendinglol/spending/pkg/hierarchy"
	"github.com/spendinglol/spending/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the dollar amount to each node label.
	Detailed bool

	// Limit keeps only the largest Limit records and folds the rest into a
	// single summary node. Zero keeps everything.
	Limit int

	// Links makes navigable nodes link to their child level.
	Links bool
	View  hierarchy.View
}

// ToDOT converts one hierarchy level to Graphviz DOT: the level title as
// the root and one node per record, with edges labeled by the record's
// percentage of the level.
func ToDOT(l hierarchy.Level, opts Options) string {
	records := slices.Clone(l.Records)
	slices.SortStableFunc(records, func(a, b hierarchy.Record) int {
		return cmp.Compare(b.Weight(), a.Weight())
	})
	total := hierarchy.SumOfSiblings().Resolve(records)

	var rest []hierarchy.Record
	if opts.Limit > 0 && len(records) > opts.Limit {
		records, rest = records[:opts.Limit], records[opts.Limit:]
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11, color=\"#555555\"];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.15;\n")
	buf.WriteString("\n")

	title := l.Title
	if title == "" {
		title = "Government Spending"
	}
	rootLabel := title + "\n" + format.Dollars(total)
	fmt.Fprintf(&buf, "  root [label=%q, fillcolor=black, fontcolor=white];\n", rootLabel)

	for i, r := range records {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(r, opts.Detailed))}
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", nodeColor(i, len(records))))
		if !r.Navigable() {
			attrs = append(attrs, `style="rounded,filled,dashed"`)
		} else if opts.Links {
			if next, ok := l.Key.Child(r.ID); ok {
				attrs = append(attrs, fmt.Sprintf("URL=%q", next.Path(opts.View)))
			}
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, strings.Join(attrs, ", "))
	}
	if len(rest) > 0 {
		sum := hierarchy.Sum(rest)
		label := fmt.Sprintf("%d more\n%s", len(rest), format.Dollars(sum))
		fmt.Fprintf(&buf, "  more [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n", label)
	}

	buf.WriteString("\n")
	for i, r := range records {
		fmt.Fprintf(&buf, "  root -> n%d [label=%q];\n", i,
			format.PercentOf(r.Weight(), total, format.TreemapPercentDecimals))
	}
	if len(rest) > 0 {
		var sum float64
		for _, r := range rest {
			sum += r.Weight()
		}
		fmt.Fprintf(&buf, "  root -> more [label=%q];\n",
			format.PercentOf(sum, total, format.TreemapPercentDecimals))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(r hierarchy.Record, detailed bool) string {
	if !detailed {
		return r.Name
	}
	parts := []string{r.Name, format.Dollars(r.Value)}
	if acct := r.Metadata["account_number"]; acct != "" {
		parts = append(parts, acct)
	}
	return strings.Join(parts, "\n")
}

// nodeColor shades nodes from light grey to white by rank so the larger
// records stand out.
func nodeColor(i, n int) string {
	if n <= 1 {
		return "#DDDDDD"
	}
	v := 0xDD + (0xFF-0xDD)*i/(n-1)
	return fmt.Sprintf("#%02X%02X%02X", v, v, v)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
