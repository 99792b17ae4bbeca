// Package grid computes staggered-grid layouts.
//
// # Overview
//
// A staggered grid has a fixed number of rows. Children are dealt into rows
// round-robin by index (child i lands in row i mod rows), laid left to right
// inside their row, and rows are stacked top to bottom. Each row is as tall as
// its tallest child and as wide as the sum of its children's widths, so rows
// end up with ragged right edges.
//
// The engine works on already-measured children. It never measures content
// itself: callers pass a [Box] per child and receive back the container size
// and an absolute [Point] per child.
//
// # Computing a Layout
//
//	res, err := grid.Compute(3, grid.Constraints{MaxWidth: 800, MaxHeight: 600}, boxes)
//	if err != nil {
//	    // INVALID_CONFIGURATION: rows < 1, or a min/max pair is inverted
//	}
//	for i, p := range res.Placements {
//	    draw(boxes[i], p.X, p.Y)
//	}
//
// # Container Size
//
// The container width is the widest row clamped into [MinWidth, MaxWidth];
// its height is the sum of the row heights clamped into [MinHeight, MaxHeight].
// With no children the width is MinWidth.
//
// Clamping affects only the reported container size. Child placements are
// never scaled or wrapped, so children may extend past a clamped container.
//
// # Concurrency
//
// [Compute] is a pure function. It holds no state between calls and may be
// invoked from any number of goroutines.
package grid
