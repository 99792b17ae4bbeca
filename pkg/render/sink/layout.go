package sink

import (
	"github.com/matzehuels/stagger/pkg/grid"
	stagio "github.com/matzehuels/stagger/pkg/io"
)

// Layout is a computed grid ready for rendering.
type Layout struct {
	Request stagio.Request
	Result  grid.Result
}

// NewLayout pairs a request with its computed result.
func NewLayout(req stagio.Request, res grid.Result) Layout {
	return Layout{Request: req, Result: res}
}

// Cell is one placed child.
type Cell struct {
	Index  int
	Label  string
	Row    int
	X, Y   int
	Width  int
	Height int
}

// Right returns the x coordinate just past the cell.
func (c Cell) Right() int { return c.X + c.Width }

// Bottom returns the y coordinate just past the cell.
func (c Cell) Bottom() int { return c.Y + c.Height }

// Cells returns the placed children in input order.
func (l Layout) Cells() []Cell {
	cells := make([]Cell, len(l.Result.Placements))
	for i, p := range l.Result.Placements {
		child := l.Request.Children[i]
		cells[i] = Cell{
			Index:  i,
			Label:  child.Label,
			Row:    l.Result.Rows[i],
			X:      p.X,
			Y:      p.Y,
			Width:  child.Width,
			Height: child.Height,
		}
	}
	return cells
}

// Extent returns the size needed to show every child. Children may overflow a
// clamped container, so this can exceed the container size.
func (l Layout) Extent() (width, height int) {
	width, height = l.Result.Width, l.Result.Height
	for _, c := range l.Cells() {
		width = max(width, c.Right())
		height = max(height, c.Bottom())
	}
	return width, height
}
