// Package hierarchy models one level of the federal spending hierarchy.
//
// The hierarchy has three levels below the fiscal-year total:
//
//	total → agency → federal account → program activity
//
// A [Level] is the flat list of [Record] values shown at one [Key], together
// with its title, the reported total and the level's share of the fiscal-year
// total ([Level.ParentShare]). Records without an ID are display-only rows:
// they are laid out and labeled like any other but never navigate.
//
// # Denominators
//
// Percentages always state which total they divide by. [SumOfSiblings]
// divides by the sum of the displayed records; [Fixed] divides by an
// externally supplied total. Each view picks one policy explicitly and uses
// it for every cell.
//
// # Clicks
//
// A [ClickBehavior] is either [Default], which navigates to the clicked
// record's child level, or [Override], which hands the record to a callback.
// [ClickBehavior.Dispatch] is a no-op for records without an ID.
package hierarchy
