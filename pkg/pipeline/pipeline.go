// Package pipeline runs the load → layout → render pipeline shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Load: fetch one hierarchy level through a [Loader] (cached as JSON)
//  2. Layout: build the treemap or table view model for that level
//  3. Render: produce each requested format (cached per format)
//
// # Usage
//
//	runner := pipeline.NewRunner(dataset.NewLoader(dir), fileCache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Key:     hierarchy.Key{AgencyID: "1125"},
//	    View:    pipeline.ViewTree,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts["svg"]
//
// Stages can also be run on their own with [Runner.Load], [Layout] and
// [Runner.Render].
package pipeline

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/spendinglol/spending/pkg/cache"
	"github.com/spendinglol/spending/pkg/contribution"
	"github.com/spendinglol/spending/pkg/errors"
	"github.com/spendinglol/spending/pkg/hierarchy"
	"github.com/spendinglol/spending/pkg/render/table"
	"github.com/spendinglol/spending/pkg/render/treemap"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultFiscalYear = 2024
	DefaultWidth      = treemap.DefaultWidth
	DefaultHeight     = treemap.DefaultHeight
	DefaultPadding    = treemap.DefaultPadding
	// DefaultScale is the PNG pixel density.
	DefaultScale = 2.0
	DefaultView  = ViewTree
)

// Views.
const (
	ViewTree     = "tree"
	ViewTable    = "table"
	ViewNodelink = "nodelink"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatDOT  = "dot"
)

// ViewFormats lists the formats each view can produce. The first entry is
// the view's default.
var ViewFormats = map[string][]string{
	ViewTree:     {FormatSVG, FormatJSON, FormatPNG, FormatPDF},
	ViewTable:    {FormatCSV, FormatJSON},
	ViewNodelink: {FormatSVG, FormatDOT, FormatPNG, FormatPDF},
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It is JSON-serializable so the
// server can accept it as a request body.
type Options struct {
	// Load options
	FiscalYear int           `json:"fiscal_year,omitempty"`
	Key        hierarchy.Key `json:"key"`
	Refresh    bool          `json:"refresh,omitempty"`

	// Layout options
	View        string  `json:"view,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	Padding     float64 `json:"padding,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	Personalize bool    `json:"personalize,omitempty"`
	Sort        string  `json:"sort,omitempty"`
	Order       string  `json:"order,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Links    bool     `json:"links,omitempty"`
	BaseURL  string   `json:"base_url,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Limit    int      `json:"limit,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Level hierarchy.Level

	// LevelHash is the content hash of the loaded level.
	LevelHash string

	// Treemap is set for the tree view, Table for the table view.
	Treemap *treemap.Layout
	Table   *table.Table

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records    int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	LoadHit   bool
	RenderHit bool // all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateView checks that a view name is known.
func ValidateView(view string) error {
	if _, ok := ViewFormats[view]; !ok {
		return errors.New(errors.ErrCodeInvalidView, "invalid view: %q (must be one of: tree, table, nodelink)", view)
	}
	return nil
}

// ValidateFormat checks that view can produce format.
func ValidateFormat(view, format string) error {
	for _, f := range ViewFormats[view] {
		if f == format {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q for %s view (must be one of: %s)",
		format, view, strings.Join(ViewFormats[view], ", "))
}

// ValidateFormats checks every format against view.
func ValidateFormats(view string, formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(view, f); err != nil {
			return err
		}
	}
	return nil
}

// ParseView normalizes a view name; "list" and "treemap" are accepted as
// aliases and the empty string selects [DefaultView].
func ParseView(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", ViewTree, "treemap":
		return ViewTree, nil
	case ViewTable, "list":
		return ViewTable, nil
	case ViewNodelink, "graph":
		return ViewNodelink, nil
	default:
		return "", ValidateView(s)
	}
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the fiscal year and the level key.
func (o *Options) ValidateForLoad() error {
	if o.FiscalYear == 0 {
		o.FiscalYear = DefaultFiscalYear
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := errors.ValidateFiscalYear(o.FiscalYear); err != nil {
		return err
	}
	return o.Key.Validate()
}

// SetLayoutDefaults fills in layout defaults.
func (o *Options) SetLayoutDefaults() {
	if o.View == "" {
		o.View = DefaultView
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and validates the view and the
// personal amount.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	view, err := ParseView(o.View)
	if err != nil {
		return err
	}
	o.View = view
	if o.Personalize {
		if err := errors.ValidateAmount(o.Amount); err != nil {
			return err
		}
	}
	if o.Padding < 0 || math.IsNaN(o.Padding) {
		return errors.New(errors.ErrCodeInvalidInput, "padding must be non-negative")
	}
	by, err := table.ParseSort(o.Sort)
	if err != nil {
		return err
	}
	_, err = table.ParseOrder(o.Order, by)
	return err
}

// SetRenderDefaults fills in render defaults.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{ViewFormats[o.View][0]}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
}

// ValidateForRender sets render defaults and checks the formats.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	if err := ValidateView(o.View); err != nil {
		return err
	}
	o.SetRenderDefaults()
	o.Formats = dedupe(o.Formats)
	return ValidateFormats(o.View, o.Formats)
}

// Contribution returns the personalize state the options describe.
func (o *Options) Contribution() contribution.State {
	return contribution.State{Amount: o.Amount, Enabled: o.Personalize}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:  format,
		View:    o.View,
		Width:   int(o.Width),
		Height:  int(o.Height),
		Padding: o.Padding,
		Sort:    o.Sort,
		Order:   o.Order,
		Links:   o.Links,
	}
	if o.Personalize {
		k.Personalize = true
		k.Amount = o.Amount
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// String summarizes the options for logs.
func (o *Options) String() string {
	return fmt.Sprintf("%s view=%s formats=%v", o.Key, o.View, o.Formats)
}
