// Package format renders dollar amounts and percentages for display.
//
// Every view formats money through this package so the tier thresholds are
// defined exactly once. Comparisons are inclusive on the absolute value:
//
//	>= 1e12   $X.XT    (Trillion)
//	>= 1e9    $X.XB    (Billion)
//	>= 1e6    $X.XM    (Million)
//	otherwise $X,XXX.XX
//
// Rounding is half away from zero and is done in decimal arithmetic, so
// $1.05B renders as "$1.1B" rather than whatever the nearest binary float
// happens to round to. The tier is chosen after rounding: a value that
// rounds up to 1000 of one tier is written in the next, so 999,960,000
// renders as "$1.0B" and 999,999.999 as "$1.0M". Values that are not finite
// render as [Undefined].
package format

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spendinglol/spending/pkg/budget"
	"github.com/spendinglol/spending/pkg/errors"
)

// Undefined is rendered in place of NaN and infinite values.
const Undefined = "—"

// Percent precision used by each view.
const (
	TreemapPercentDecimals = 1
	TablePercentDecimals   = 2
)

// usd groups digits the way en-US currency amounts are written.
var usd = message.NewPrinter(language.AmericanEnglish)

type tier struct {
	threshold decimal.Decimal
	short     string
	long      string
}

// tiers are ordered smallest first.
var tiers = []tier{
	{decimal.New(1, 6), "M", " Million"},
	{decimal.New(1, 9), "B", " Billion"},
	{decimal.New(1, 12), "T", " Trillion"},
}

var thousand = decimal.New(1, 3)

// Dollars formats n with a one-letter tier suffix, e.g. "$6.8T", "$19.3B",
// "$999,999.99".
func Dollars(n float64) string {
	return dollars(n, false)
}

// DollarsLong formats n with the tier spelled out, e.g. "$6.8 Trillion".
func DollarsLong(n float64) string {
	return dollars(n, true)
}

// FromYou formats a personal share line, e.g. "$1.99 from you".
func FromYou(n float64) string {
	return Dollars(n) + " from you"
}

func dollars(n float64, long bool) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Undefined
	}
	d := decimal.NewFromFloat(n)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	cents := d.Round(2)
	if cents.LessThan(tiers[0].threshold) {
		return sign + "$" + usd.Sprintf("%.2f", cents.InexactFloat64())
	}
	t := tiers[0]
	v := d.Div(t.threshold).Round(1)
	for _, next := range tiers[1:] {
		if v.LessThan(thousand) {
			break
		}
		t, v = next, d.Div(next.threshold).Round(1)
	}
	suffix := t.short
	if long {
		suffix = t.long
	}
	return sign + "$" + v.StringFixed(1) + suffix
}

// Percent formats a ratio (0.25 means 25%) with the given number of decimals.
func Percent(ratio float64, decimals int) string {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return Undefined
	}
	return percent(decimal.NewFromFloat(ratio).Shift(2), decimals)
}

// Percentage formats a value already scaled to percent (25 means 25%).
func Percentage(pct float64, decimals int) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return Undefined
	}
	return percent(decimal.NewFromFloat(pct), decimals)
}

// PercentOf formats amount as a percentage of total. A zero total renders as
// [Undefined].
func PercentOf(amount, total float64, decimals int) string {
	return Percentage(budget.CalculatePercentage(amount, total), decimals)
}

func percent(d decimal.Decimal, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return d.StringFixed(int32(decimals)) + "%"
}

// ParseAmount parses a user-entered dollar amount such as "1,250.50" or
// "$40000". Negative amounts are rejected.
func ParseAmount(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return 0, errors.New(errors.ErrCodeInvalidAmount, "amount cannot be empty")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidAmount, err, "invalid amount %q", s)
	}
	if d.IsNegative() {
		return 0, errors.New(errors.ErrCodeInvalidAmount, "amount cannot be negative")
	}
	f, _ := d.Float64()
	return f, nil
}
