// Package layout computes squarified treemap geometry.
//
// [Squarify] partitions a rectangle among weighted items so that each item's
// area is proportional to its weight, using the squarified algorithm of
// Bruls, Huizing and van Wijk: items are placed in decreasing weight order,
// row by row along the shorter side of the remaining space, and a row is
// closed as soon as adding the next item would worsen its aspect ratio.
//
// Only weight ratios matter. Multiplying every weight by the same positive
// factor leaves the geometry unchanged, and weights that are zero, negative
// or NaN produce zero-size rectangles.
package layout
