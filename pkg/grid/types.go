package grid

// Constraints bounds the container size on each axis.
// All values must be non-negative with Min <= Max.
type Constraints struct {
	MinWidth  int `json:"min_width" toml:"min_width"`
	MaxWidth  int `json:"max_width" toml:"max_width"`
	MinHeight int `json:"min_height" toml:"min_height"`
	MaxHeight int `json:"max_height" toml:"max_height"`
}

// Loose returns constraints with zero minimums and the given maximums.
func Loose(maxWidth, maxHeight int) Constraints {
	return Constraints{MaxWidth: maxWidth, MaxHeight: maxHeight}
}

// Fixed returns constraints that force an exact container size.
func Fixed(width, height int) Constraints {
	return Constraints{MinWidth: width, MaxWidth: width, MinHeight: height, MaxHeight: height}
}

// Box is a measured child.
type Box struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Point is the top-left corner of a placed child, relative to the container.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Result is the output of one layout pass.
//
// Placements has one entry per input child in input order. Rows records the
// row each child was assigned to. RowWidths, RowHeights and RowY describe each
// row: its accumulated width, its tallest child, and its top edge.
type Result struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Placements []Point `json:"placements"`
	Rows       []int   `json:"rows"`
	RowWidths  []int   `json:"row_widths"`
	RowHeights []int   `json:"row_heights"`
	RowY       []int   `json:"row_y"`
}

// RowCount returns the number of rows the result was computed for.
func (r Result) RowCount() int { return len(r.RowY) }

// Row returns the input indices assigned to row k, in input order.
func (r Result) Row(k int) []int {
	var idx []int
	for i, row := range r.Rows {
		if row == k {
			idx = append(idx, i)
		}
	}
	return idx
}
