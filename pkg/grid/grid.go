package grid

import (
	"slices"

	"github.com/matzehuels/stagger/pkg/errors"
)

// Compute lays children out in a staggered grid with the given number of rows.
//
// It fails with [errors.ErrCodeInvalidConfiguration] before doing any work if
// rows < 1, if either axis of c has min > max or a negative bound, or if a
// child has a negative size. It also fails if a row width or the total row
// height does not fit in an int. An empty children slice is valid.
func Compute(rows int, c Constraints, children []Box) (Result, error) {
	if err := validate(rows, c, children); err != nil {
		return Result{}, err
	}

	res := Result{
		Placements: make([]Point, len(children)),
		Rows:       make([]int, len(children)),
		RowWidths:  make([]int, rows),
		RowHeights: make([]int, rows),
		RowY:       make([]int, rows),
	}

	for i, b := range children {
		row := i % rows
		w, ok := addSize(res.RowWidths[row], b.Width)
		if !ok {
			return Result{}, errors.New(errors.ErrCodeInvalidConfiguration, "row %d width overflows at child %d", row, i)
		}
		res.Rows[i] = row
		res.RowWidths[row] = w
		res.RowHeights[row] = max(res.RowHeights[row], b.Height)
	}

	if len(children) == 0 {
		res.Width = c.MinWidth
	} else {
		res.Width = clamp(slices.Max(res.RowWidths), c.MinWidth, c.MaxWidth)
	}

	total := 0
	for k, h := range res.RowHeights {
		var ok bool
		if total, ok = addSize(total, h); !ok {
			return Result{}, errors.New(errors.ErrCodeInvalidConfiguration, "total height overflows at row %d", k)
		}
	}
	res.Height = clamp(total, c.MinHeight, c.MaxHeight)

	for i := 1; i < rows; i++ {
		res.RowY[i] = res.RowY[i-1] + res.RowHeights[i-1]
	}

	// RowY and the x cursors are partial sums of the checked totals above.
	// x cursor per row
	rowX := make([]int, rows)
	for i, b := range children {
		row := res.Rows[i]
		res.Placements[i] = Point{X: rowX[row], Y: res.RowY[row]}
		rowX[row] += b.Width
	}

	return res, nil
}

func validate(rows int, c Constraints, children []Box) error {
	if err := errors.ValidateRows(rows); err != nil {
		return err
	}
	if err := errors.ValidateAxis("width", c.MinWidth, c.MaxWidth); err != nil {
		return err
	}
	if err := errors.ValidateAxis("height", c.MinHeight, c.MaxHeight); err != nil {
		return err
	}
	for i, b := range children {
		if err := errors.ValidateBox(i, b.Width, b.Height); err != nil {
			return err
		}
	}
	return nil
}

// addSize adds two non-negative sizes, reporting false on overflow.
func addSize(a, b int) (int, bool) {
	sum := a + b
	return sum, sum >= a
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
