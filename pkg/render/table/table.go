// Package table builds the sortable list view of a hierarchy level.
//
// Percentages divide by the sum of the listed records unless a fixed
// denominator is given, and are shown with two decimals. A table can be
// rendered as styled terminal text ([Table.RenderText]) or exported as CSV
// ([Table.MarshalCSV]).
package table

import (
	"cmp"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/spendinglol/spending/pkg/budget"
	"github.com/spendinglol/spending/pkg/errors"
	"github.com/spendinglol/spending/pkg/format"
	"github.com/spendinglol/spending/pkg/hierarchy"
)

// SortBy names the column rows are ordered by.
type SortBy string

const (
	SortAmount  SortBy = "amount"
	SortName    SortBy = "name"
	SortPercent SortBy = "percent"
)

// Order is the sort direction.
type Order string

const (
	Desc Order = "desc"
	Asc  Order = "asc"
)

// ParseSort parses a column name; the empty string selects [SortAmount].
func ParseSort(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(s)) {
	case "", SortAmount:
		return SortAmount, nil
	case SortName:
		return SortName, nil
	case SortPercent:
		return SortPercent, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown sort column %q (want amount, name or percent)", s)
	}
}

// ParseOrder parses a direction. The empty string selects the natural order
// of by: ascending for names, descending for numbers.
func ParseOrder(s string, by SortBy) (Order, error) {
	switch Order(strings.ToLower(s)) {
	case "":
		if by == SortName {
			return Asc, nil
		}
		return Desc, nil
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown sort order %q (want asc or desc)", s)
	}
}

// Options configures [Build].
type Options struct {
	Title           string
	Key             hierarchy.Key
	View            hierarchy.View
	SortBy          SortBy
	Order           Order
	Denominator     hierarchy.Denominator
	PercentDecimals int
	Click           hierarchy.ClickBehavior
}

// DefaultOptions returns the settings of the list view.
func DefaultOptions() Options {
	return Options{
		View:            hierarchy.ViewTable,
		SortBy:          SortAmount,
		Order:           Desc,
		PercentDecimals: format.TablePercentDecimals,
	}
}

// Row is one line of the table.
type Row struct {
	Rank        int     `csv:"rank" json:"rank"`
	Name        string  `csv:"name" json:"name"`
	ID          string  `csv:"id" json:"id,omitempty"`
	Amount      float64 `csv:"amount" json:"amount"`
	AmountText  string  `csv:"amount_text" json:"amount_text"`
	Percent     float64 `csv:"percent" json:"percent"`
	PercentText string  `csv:"percent_text" json:"percent_text"`
	Navigable   bool    `csv:"-" json:"navigable"`
	Href        string  `csv:"-" json:"href,omitempty"`

	record hierarchy.Record
}

// Table is a sorted list of rows.
type Table struct {
	Title  string        `json:"title,omitempty"`
	Key    hierarchy.Key `json:"key"`
	Total  float64       `json:"total"`
	SortBy SortBy        `json:"sort_by"`
	Order  Order         `json:"order"`
	Rows   []Row         `json:"rows"`

	click hierarchy.ClickBehavior
}

// Build creates a table of records. Records are not modified.
func Build(records []hierarchy.Record, opts Options) Table {
	if opts.SortBy == "" {
		opts.SortBy = SortAmount
	}
	if opts.Order == "" {
		opts.Order, _ = ParseOrder("", opts.SortBy)
	}

	total := opts.Denominator.Resolve(records)
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{
			Name:        r.Name,
			ID:          r.ID,
			Amount:      r.Value,
			AmountText:  format.Dollars(r.Value),
			Percent:     percent(r.Value, total),
			PercentText: format.PercentOf(r.Value, total, opts.PercentDecimals),
			Navigable:   r.Navigable(),
			record:      r,
		}
		if next, ok := opts.Click.Target(r, opts.Key); ok {
			rows[i].Href = next.Path(opts.View)
		}
	}

	slices.SortStableFunc(rows, func(a, b Row) int {
		var c int
		switch opts.SortBy {
		case SortName:
			c = cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		default:
			c = cmp.Compare(a.Amount, b.Amount)
		}
		if opts.Order == Desc {
			c = -c
		}
		return c
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return Table{
		Title:  opts.Title,
		Key:    opts.Key,
		Total:  total,
		SortBy: opts.SortBy,
		Order:  opts.Order,
		Rows:   rows,
		click:  opts.Click,
	}
}

// percent returns value as a percentage of total, or 0 when undefined so
// that numeric exports stay valid; the text column shows the placeholder.
func percent(value, total float64) float64 {
	p := budget.CalculatePercentage(value, total)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return p
}

// Click handles a click on row i. Rows without an id are inert.
func (t Table) Click(i int) bool {
	if i < 0 || i >= len(t.Rows) {
		return false
	}
	return t.click.Dispatch(t.Rows[i].record, t.Key)
}

// MarshalCSV writes the rows as CSV with a header line.
func (t Table) MarshalCSV(w io.Writer) error {
	rows := t.Rows
	if rows == nil {
		rows = []Row{}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write csv")
	}
	return nil
}
