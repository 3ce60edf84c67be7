package sink

import (
	"encoding/json"
	"math"

	"github.com/spendinglol/spending/pkg/contribution"
	"github.com/spendinglol/spending/pkg/hierarchy"
	"github.com/spendinglol/spending/pkg/render/treemap"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	indent bool
}

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// Output is the JSON document produced by [RenderJSON].
type Output struct {
	Title       string             `json:"title"`
	Key         hierarchy.Key      `json:"key"`
	Path        string             `json:"path"`
	View        hierarchy.View     `json:"view,omitempty"`
	Width       float64            `json:"width"`
	Height      float64            `json:"height"`
	Total       float64            `json:"total"`
	Personalize contribution.State `json:"personalize"`
	Cells       []OutputCell       `json:"cells"`
}

// OutputCell is one cell of [Output]. Ratio and Share are null when they are
// undefined (zero total, personalization off).
type OutputCell struct {
	Index      int               `json:"index"`
	ID         string            `json:"id,omitempty"`
	Name       string            `json:"name"`
	Value      float64           `json:"value"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	ColorIndex int               `json:"color_index"`
	Fill       string            `json:"fill"`
	Ratio      *float64          `json:"ratio"`
	Share      *float64          `json:"share"`
	Label      treemap.Label     `json:"label"`
	Navigable  bool              `json:"navigable"`
	Href       string            `json:"href,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// RenderJSON exports the layout as JSON.
func RenderJSON(l treemap.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := ToOutput(l)
	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

// ToOutput converts the layout to its JSON shape.
func ToOutput(l treemap.Layout) Output {
	out := Output{
		Title:       l.Title,
		Key:         l.Key,
		Path:        l.Key.Path(l.View),
		View:        l.View,
		Width:       l.Width,
		Height:      l.Height,
		Total:       finiteOrZero(l.Total),
		Personalize: l.Personalize,
		Cells:       make([]OutputCell, len(l.Cells)),
	}
	for i, c := range l.Cells {
		oc := OutputCell{
			Index:      i,
			ID:         c.Record.ID,
			Name:       c.Record.Name,
			Value:      finiteOrZero(c.Record.Value),
			X:          c.Bounds.X0,
			Y:          c.Bounds.Y0,
			Width:      c.Bounds.Width(),
			Height:     c.Bounds.Height(),
			ColorIndex: c.ColorIndex,
			Fill:       c.Fill,
			Ratio:      finite(c.Ratio),
			Label:      c.Label,
			Navigable:  c.Navigable(),
			Href:       c.Href,
			Metadata:   c.Record.Metadata,
		}
		if c.HasShare {
			oc.Share = finite(c.Share)
		}
		out.Cells[i] = oc
	}
	return out
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
