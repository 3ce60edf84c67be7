package layout

import (
	"math"
	"sort"
)

// tieTolerance keeps row decisions stable when weights are rescaled and two
// candidate rows differ only by rounding.
const tieTolerance = 1e-9

// Option configures [Squarify].
type Option func(*config)

type config struct {
	round bool
}

// WithRound snaps every edge to whole units after padding is applied.
func WithRound() Option {
	return func(c *config) { c.round = true }
}

// Squarify partitions area among weights and returns one rectangle per
// weight, in input order. padding is the gap left between neighbouring cells
// and between the cells and the edge of area.
//
// Empty input yields an empty result. When area has no size or the positive
// weights sum to zero, every rectangle is zero-size.
func Squarify(weights []float64, area Rect, padding float64, opts ...Option) []Rect {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(weights) == 0 {
		return []Rect{}
	}

	half := math.Max(padding, 0) / 2
	inner := area.Inset(half)
	out := make([]Rect, len(weights))
	for i := range out {
		out[i] = Rect{X0: inner.X0, Y0: inner.Y0, X1: inner.X0, Y1: inner.Y0}
	}

	order := make([]int, 0, len(weights))
	var total float64
	for i, w := range weights {
		if w > 0 && !math.IsInf(w, 0) {
			order = append(order, i)
			total += w
		}
	}
	if len(order) == 0 || total <= 0 || inner.Empty() {
		return out
	}
	sort.SliceStable(order, func(a, b int) bool {
		return weights[order[a]] > weights[order[b]]
	})

	scale := inner.Area() / total
	sizes := make([]float64, len(order))
	for k, i := range order {
		sizes[k] = weights[i] * scale
	}

	slots := squarify(sizes, inner)
	for k, i := range order {
		cell := slots[k].Inset(half)
		if cfg.round {
			cell = cell.round(area)
		}
		out[i] = cell
	}
	return out
}

// squarify lays out sizes (descending, summing to the area of r) inside r.
func squarify(sizes []float64, r Rect) []Rect {
	out := make([]Rect, 0, len(sizes))
	for start := 0; start < len(sizes); {
		side := math.Min(r.Width(), r.Height())
		end := start + 1
		sum := sizes[start]
		best := worst(sizes[start:end], sum, side)
		for end < len(sizes) {
			next := sum + sizes[end]
			ratio := worst(sizes[start:end+1], next, side)
			if ratio > best*(1+tieTolerance) {
				break
			}
			best, sum = ratio, next
			end++
		}

		last := end == len(sizes)
		var row []Rect
		row, r = placeRow(sizes[start:end], sum, r, last)
		out = append(out, row...)
		start = end
	}
	return out
}

// worst returns the largest aspect ratio in a row of the given sizes laid
// along a side of length side.
func worst(row []float64, sum, side float64) float64 {
	if sum <= 0 || side <= 0 {
		return math.Inf(1)
	}
	hi, lo := row[0], row[0]
	for _, s := range row[1:] {
		hi = math.Max(hi, s)
		lo = math.Min(lo, s)
	}
	s2 := sum * sum
	w2 := side * side
	return math.Max(w2*hi/s2, s2/(w2*lo))
}

// placeRow lays out a row along the shorter side of r and returns the row's
// rectangles and the space left over. The last row fills r exactly.
func placeRow(row []float64, sum float64, r Rect, last bool) ([]Rect, Rect) {
	rects := make([]Rect, len(row))
	if r.Width() >= r.Height() {
		// Column on the left edge.
		thick := sum / r.Height()
		x1 := r.X0 + thick
		if last || x1 > r.X1 {
			x1 = r.X1
		}
		y := r.Y0
		for i, s := range row {
			y1 := y + s/thick
			if i == len(row)-1 || y1 > r.Y1 {
				y1 = r.Y1
			}
			rects[i] = Rect{X0: r.X0, Y0: y, X1: x1, Y1: y1}
			y = y1
		}
		return rects, Rect{X0: x1, Y0: r.Y0, X1: r.X1, Y1: r.Y1}
	}

	// Row along the top edge.
	thick := sum / r.Width()
	y1 := r.Y0 + thick
	if last || y1 > r.Y1 {
		y1 = r.Y1
	}
	x := r.X0
	for i, s := range row {
		x1 := x + s/thick
		if i == len(row)-1 || x1 > r.X1 {
			x1 = r.X1
		}
		rects[i] = Rect{X0: x, Y0: r.Y0, X1: x1, Y1: y1}
		x = x1
	}
	return rects, Rect{X0: r.X0, Y0: y1, X1: r.X1, Y1: r.Y1}
}
