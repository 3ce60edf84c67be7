package budget

// Figure holds the three headline numbers of one hierarchy level, in dollars.
// The fields are independent inputs; nothing requires
// ObligatedAmount >= Outlays >= Revenue.
type Figure struct {
	Revenue         float64 `json:"revenue"`
	Outlays         float64 `json:"outlays"`
	ObligatedAmount float64 `json:"obligated_amount"`
}

// ScaledFigure is a Figure plus the obligations not yet paid out.
type ScaledFigure struct {
	Figure
	RemainingObligated float64 `json:"remaining_obligated"`
}

// Ratios expresses outlays and obligations as multiples of revenue.
type Ratios struct {
	OutlaysRatio            float64 `json:"outlays_ratio"`
	ObligatedRatio          float64 `json:"obligated_ratio"`
	RemainingObligatedRatio float64 `json:"remaining_obligated_ratio"`
}

// CalculateRatios divides each component of f by f.Revenue.
// A zero revenue yields +Inf or NaN ratios.
func CalculateRatios(f Figure) Ratios {
	return Ratios{
		OutlaysRatio:            f.Outlays / f.Revenue,
		ObligatedRatio:          f.ObligatedAmount / f.Revenue,
		RemainingObligatedRatio: (f.ObligatedAmount - f.Outlays) / f.Revenue,
	}
}

// ScaleToUserAmount rescales f so that revenue equals userAmount, keeping the
// outlays and obligation ratios. When enabled is false the original values
// are returned unchanged. The result depends only on its inputs, so applying
// it again with the same arguments gives the same figure.
func ScaleToUserAmount(f Figure, userAmount float64, enabled bool) ScaledFigure {
	if !enabled {
		return ScaledFigure{
			Figure:             f,
			RemainingObligated: f.ObligatedAmount - f.Outlays,
		}
	}

	r := CalculateRatios(f)
	scaled := Figure{
		Revenue:         userAmount,
		Outlays:         userAmount * r.OutlaysRatio,
		ObligatedAmount: userAmount * r.ObligatedRatio,
	}
	return ScaledFigure{
		Figure:             scaled,
		RemainingObligated: scaled.ObligatedAmount - scaled.Outlays,
	}
}

// CalculatePercentage returns amount as a percentage of total. The result is
// not clamped.
func CalculatePercentage(amount, total float64) float64 {
	return (amount / total) * 100
}

// CalculateUserPortion scales userAmount down to the share itemAmount holds
// of its reference total. The reference is parentAmount when one is given and
// non-zero, otherwise totalBudget.
func CalculateUserPortion(userAmount, itemAmount, totalBudget float64, parentAmount ...float64) float64 {
	base := totalBudget
	if len(parentAmount) > 0 && parentAmount[0] != 0 {
		base = parentAmount[0]
	}
	return userAmount * (itemAmount / base)
}

// CalculateAgencyAmount returns the user's share of an agency's spending, or
// 0 when personalization is off or the user amount is zero.
func CalculateAgencyAmount(userAmount, agencyAmount, totalBudget float64, enabled bool) float64 {
	if !enabled || userAmount == 0 {
		return 0
	}
	return userAmount * (agencyAmount / totalBudget)
}
