// Package budget converts absolute budget dollars into percentages of a
// reference total and into a "your share" figure proportional to a
// user-entered contribution.
//
// Every function is pure float64 arithmetic. Nothing is rounded here;
// rounding happens only when a value is formatted (see [format]). Division by
// zero is not guarded: a zero revenue or total yields +Inf or NaN, and callers
// decide how to display that.
//
// # Ratios and scaling
//
// A [Figure] holds the three headline numbers of one level. [CalculateRatios]
// expresses outlays and obligations relative to revenue, and
// [ScaleToUserAmount] rewrites the figure as if revenue equalled the user's
// contribution:
//
//	f := budget.FY2024
//	s := budget.ScaleToUserAmount(f, 1000, true)
//	// s.Revenue == 1000, s.Outlays ≈ 1372.6, s.ObligatedAmount ≈ 1971.9
//
// # Line items
//
// [CalculatePercentage] and [CalculateUserPortion] work on a single line
// item against a denominator, optionally an intermediate parent total when a
// drill-down level changes the reference.
//
// [format]: github.com/spendinglol/spending/pkg/format
package budget
