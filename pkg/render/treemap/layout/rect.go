package layout

import "math"

// Rect is an axis-aligned rectangle with (X0, Y0) the top-left corner.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Area returns Width × Height.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Contains reports whether the point lies inside r (edges inclusive).
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// Within reports whether r lies entirely inside outer.
func (r Rect) Within(outer Rect) bool {
	return r.X0 >= outer.X0 && r.Y0 >= outer.Y0 && r.X1 <= outer.X1 && r.Y1 <= outer.Y1
}

// Inset shrinks r by d on every side. A side that would collapse is
// squeezed to its center line.
func (r Rect) Inset(d float64) Rect {
	if d <= 0 {
		return r
	}
	out := Rect{X0: r.X0 + d, Y0: r.Y0 + d, X1: r.X1 - d, Y1: r.Y1 - d}
	if out.X1 < out.X0 {
		c := (r.X0 + r.X1) / 2
		out.X0, out.X1 = c, c
	}
	if out.Y1 < out.Y0 {
		c := (r.Y0 + r.Y1) / 2
		out.Y0, out.Y1 = c, c
	}
	return out
}

func (r Rect) round(bounds Rect) Rect {
	return Rect{
		X0: clamp(math.Round(r.X0), bounds.X0, bounds.X1),
		Y0: clamp(math.Round(r.Y0), bounds.Y0, bounds.Y1),
		X1: clamp(math.Round(r.X1), bounds.X0, bounds.X1),
		Y1: clamp(math.Round(r.Y1), bounds.Y0, bounds.Y1),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
