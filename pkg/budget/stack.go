package budget

// FY2024 is the federal headline for fiscal year 2024.
var FY2024 = Figure{
	Revenue:         4_919_000_000_000,
	Outlays:         6_752_000_000_000,
	ObligatedAmount: 9_700_000_000_000,
}

// Stack is the three-bar headline view: revenue, outlays and obligations,
// each bar sized relative to the obligated amount.
type Stack struct {
	ScaledFigure

	// RevenueWidth and OutlaysWidth are percentages of ObligatedAmount.
	RevenueWidth float64 `json:"revenue_width"`
	OutlaysWidth float64 `json:"outlays_width"`

	// Deficit is the part of outlays not covered by revenue.
	Deficit float64 `json:"deficit"`
}

// NewStack scales f to the user's amount and computes the bar widths. A zero
// user amount is treated as 1 so the headline never collapses to nothing.
func NewStack(f Figure, userAmount float64, enabled bool) Stack {
	if userAmount == 0 {
		userAmount = 1
	}
	s := ScaleToUserAmount(f, userAmount, enabled)
	return Stack{
		ScaledFigure: s,
		RevenueWidth: CalculatePercentage(s.Revenue, s.ObligatedAmount),
		OutlaysWidth: CalculatePercentage(s.Outlays, s.ObligatedAmount),
		Deficit:      s.Outlays - s.Revenue,
	}
}
