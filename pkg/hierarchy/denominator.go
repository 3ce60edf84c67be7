package hierarchy

import (
	"fmt"
)

// Denominator selects the total a percentage is computed against.
// The zero value is [SumOfSiblings].
type Denominator struct {
	fixed bool
	total float64
}

// SumOfSiblings divides by the sum of the records displayed together.
func SumOfSiblings() Denominator {
	return Denominator{}
}

// Fixed divides by an externally supplied total.
func Fixed(total float64) Denominator {
	return Denominator{fixed: true, total: total}
}

// IsFixed reports whether d uses an external total.
func (d Denominator) IsFixed() bool {
	return d.fixed
}

// Resolve returns the total to divide by for records.
func (d Denominator) Resolve(records []Record) float64 {
	if d.fixed {
		return d.total
	}
	var total float64
	for _, r := range records {
		total += r.Weight()
	}
	return total
}

func (d Denominator) String() string {
	if d.fixed {
		return fmt.Sprintf("fixed(%g)", d.total)
	}
	return "sum-of-siblings"
}
