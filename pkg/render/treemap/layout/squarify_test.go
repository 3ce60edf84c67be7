package layout

import (
	"math"
	"testing"
)

const eps = 1e-6

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestSquarifyEmpty(t *testing.T) {
	got := Squarify(nil, Rect{X1: 100, Y1: 100}, 1)
	if got == nil || len(got) != 0 {
		t.Errorf("Squarify(nil) = %v, want empty slice", got)
	}
}

func TestSquarifyTwoCells(t *testing.T) {
	area := Rect{X1: 100, Y1: 100}
	rects := Squarify([]float64{300, 700}, area, 1)
	if len(rects) != 2 {
		t.Fatalf("got %d rects, want 2", len(rects))
	}
	ratio := rects[0].Area() / rects[1].Area()
	if !approx(ratio, 3.0/7.0, 0.02) {
		t.Errorf("area ratio = %.4f, want about %.4f", ratio, 3.0/7.0)
	}
	// The heavier cell is placed first along the left edge.
	if rects[1].X0 > rects[0].X0 {
		t.Errorf("expected 700 left of 300: %+v %+v", rects[1], rects[0])
	}

	unpadded := Squarify([]float64{300, 700}, area, 0)
	if !approx(unpadded[0].Area(), 3000, eps) || !approx(unpadded[1].Area(), 7000, eps) {
		t.Errorf("unpadded areas = %v, %v; want 3000, 7000", unpadded[0].Area(), unpadded[1].Area())
	}
}

func TestSquarifyBounds(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		area    Rect
		padding float64
	}{
		{"square", []float64{6, 6, 4, 3, 2, 2, 1}, Rect{X1: 600, Y1: 400}, 1},
		{"tall", []float64{10, 1, 1, 1, 1, 1, 1, 1, 1, 1}, Rect{X1: 50, Y1: 1024}, 1},
		{"offset", []float64{5, 3, 2}, Rect{X0: 10, Y0: 20, X1: 110, Y1: 70}, 2},
		{"many tiny", manyWeights(200), Rect{X1: 320, Y1: 240}, 1},
		{"single", []float64{42}, Rect{X1: 10, Y1: 10}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rects := Squarify(tt.weights, tt.area, tt.padding)
			if len(rects) != len(tt.weights) {
				t.Fatalf("got %d rects, want %d", len(rects), len(tt.weights))
			}
			var sum float64
			for i, r := range rects {
				if !grow(tt.area, eps).containsRect(r) {
					t.Errorf("rect %d %+v outside %+v", i, r, tt.area)
				}
				if r.Width() < 0 || r.Height() < 0 {
					t.Errorf("rect %d has negative size: %+v", i, r)
				}
				sum += r.Area()
			}
			if sum > tt.area.Area()+eps {
				t.Errorf("total area %v exceeds %v", sum, tt.area.Area())
			}
			assertNoOverlap(t, rects)
		})
	}
}

func TestSquarifyProportional(t *testing.T) {
	weights := []float64{6, 6, 4, 3, 2, 2, 1}
	area := Rect{X1: 600, Y1: 400}
	rects := Squarify(weights, area, 0)

	var total float64
	for _, w := range weights {
		total += w
	}
	for i, r := range rects {
		want := weights[i] / total * area.Area()
		if !approx(r.Area(), want, 1e-6*area.Area()) {
			t.Errorf("rect %d area = %v, want %v", i, r.Area(), want)
		}
	}
}

func TestSquarifyScaleInvariant(t *testing.T) {
	weights := []float64{19.31e9, 6.2e9, 1.1e9, 800e6, 12e6, 3}
	area := Rect{X1: 1280, Y1: 1024}
	base := Squarify(weights, area, 1)

	for _, k := range []float64{2, 0.5, 1024, 3, 1e-6} {
		scaled := make([]float64, len(weights))
		for i, w := range weights {
			scaled[i] = w * k
		}
		got := Squarify(scaled, area, 1)
		for i := range base {
			if !approx(got[i].X0, base[i].X0, eps) || !approx(got[i].Y0, base[i].Y0, eps) ||
				!approx(got[i].X1, base[i].X1, eps) || !approx(got[i].Y1, base[i].Y1, eps) {
				t.Errorf("k=%v: rect %d = %+v, want %+v", k, i, got[i], base[i])
			}
		}
	}
}

func TestSquarifyDegenerate(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		area    Rect
	}{
		{"all zero", []float64{0, 0, 0}, Rect{X1: 100, Y1: 100}},
		{"negative and nan", []float64{-1, math.NaN()}, Rect{X1: 100, Y1: 100}},
		{"zero area", []float64{1, 2}, Rect{X1: 0, Y1: 100}},
		{"smaller than padding", []float64{1, 2}, Rect{X1: 0.5, Y1: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rects := Squarify(tt.weights, tt.area, 1)
			if len(rects) != len(tt.weights) {
				t.Fatalf("got %d rects, want %d", len(rects), len(tt.weights))
			}
			for i, r := range rects {
				if r.Area() != 0 {
					t.Errorf("rect %d area = %v, want 0", i, r.Area())
				}
				if !tt.area.containsRect(r) {
					t.Errorf("rect %d %+v outside %+v", i, r, tt.area)
				}
			}
		})
	}
}

func TestSquarifyMixedZero(t *testing.T) {
	rects := Squarify([]float64{0, 10, 0, 30}, Rect{X1: 100, Y1: 100}, 0)
	if rects[0].Area() != 0 || rects[2].Area() != 0 {
		t.Errorf("zero weights should be zero-size: %+v %+v", rects[0], rects[2])
	}
	if !approx(rects[1].Area()+rects[3].Area(), 10000, eps) {
		t.Errorf("positive weights should fill the area: %v", rects[1].Area()+rects[3].Area())
	}
}

func TestSquarifyRound(t *testing.T) {
	area := Rect{X1: 333, Y1: 217}
	rects := Squarify([]float64{5, 4, 3, 2, 1}, area, 1, WithRound())
	for i, r := range rects {
		for _, v := range []float64{r.X0, r.Y0, r.X1, r.Y1} {
			if v != math.Trunc(v) {
				t.Errorf("rect %d has fractional edge: %+v", i, r)
			}
		}
		if !area.containsRect(r) {
			t.Errorf("rect %d %+v outside %+v", i, r, area)
		}
	}
}

func TestInset(t *testing.T) {
	r := Rect{X0: 0, Y0: 0, X1: 10, Y1: 1}.Inset(1)
	if r.Height() != 0 || r.Y0 != 0.5 || r.Width() != 8 {
		t.Errorf("Inset collapsed side = %+v", r)
	}
}

func manyWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = float64(n - i)
	}
	return w
}

func grow(r Rect, d float64) Rect {
	return Rect{X0: r.X0 - d, Y0: r.Y0 - d, X1: r.X1 + d, Y1: r.Y1 + d}
}

func (r Rect) containsRect(o Rect) bool { return o.Within(r) }

func assertNoOverlap(t *testing.T, rects []Rect) {
	t.Helper()
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			a, b := rects[i], rects[j]
			w := math.Min(a.X1, b.X1) - math.Max(a.X0, b.X0)
			h := math.Min(a.Y1, b.Y1) - math.Max(a.Y0, b.Y0)
			if w > eps && h > eps {
				t.Errorf("rects %d and %d overlap: %+v %+v", i, j, a, b)
			}
		}
	}
}
