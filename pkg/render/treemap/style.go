package treemap

import (
	"fmt"
	"math"
)

// Cell paint. Fills run from DarkColor for the largest cell to LightColor
// for the smallest; a hovered cell swaps its fill for MoneyPattern and its
// opacity from RestOpacity to HoverOpacity.
const (
	DarkColor  = "#000000"
	LightColor = "#EEEEEE"

	// SVG output defines the hover pattern under MoneyPatternID.
	MoneyPatternID = "money-pattern"
	MoneyPattern   = "url(#" + MoneyPatternID + ")"

	RestOpacity  = 0.8
	HoverOpacity = 1.0
)

// Color returns the fill of cell i out of n: [DarkColor] at 0, [LightColor]
// at n-1 and a linear blend in between.
func Color(i, n int) string {
	if n <= 1 || i <= 0 {
		return DarkColor
	}
	if i >= n-1 {
		return LightColor
	}
	t := float64(i) / float64(n-1)
	v := int(math.Round(t * 0xEE))
	return fmt.Sprintf("#%02X%02X%02X", v, v, v)
}

// CellStyle is the presentation state of one cell.
type CellStyle struct {
	Fill    string
	Opacity float64
	Cursor  string
}

func restStyle(c Cell) CellStyle {
	s := CellStyle{Fill: c.Fill, Opacity: RestOpacity}
	if c.Navigable() {
		s.Cursor = "pointer"
	}
	return s
}

// Style returns the resting style of cell i.
func (l Layout) Style(i int) (CellStyle, bool) {
	c, ok := l.Cell(i)
	if !ok {
		return CellStyle{}, false
	}
	return restStyle(c), true
}

// Hover returns the style of cell i while the pointer is over it.
func (l Layout) Hover(i int) (CellStyle, bool) {
	c, ok := l.Cell(i)
	if !ok {
		return CellStyle{}, false
	}
	s := restStyle(c)
	s.Fill = MoneyPattern
	s.Opacity = HoverOpacity
	return s, true
}

// Leave returns the style of cell i once the pointer has left it.
func (l Layout) Leave(i int) (CellStyle, bool) {
	return l.Style(i)
}
