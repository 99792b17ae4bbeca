package sink

import (
	"encoding/json"
)

type jsonOutput struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Rows       int         `json:"rows"`
	RowWidths  []int       `json:"row_widths"`
	RowHeights []int       `json:"row_heights"`
	RowY       []int       `json:"row_y"`
	Children   []jsonChild `json:"children"`
}

type jsonChild struct {
	Index  int    `json:"index"`
	Label  string `json:"label,omitempty"`
	Row    int    `json:"row"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// RenderJSON encodes the layout geometry as indented JSON.
func RenderJSON(l Layout) ([]byte, error) {
	cells := l.Cells()
	out := jsonOutput{
		Width:      l.Result.Width,
		Height:     l.Result.Height,
		Rows:       l.Result.RowCount(),
		RowWidths:  l.Result.RowWidths,
		RowHeights: l.Result.RowHeights,
		RowY:       l.Result.RowY,
		Children:   make([]jsonChild, len(cells)),
	}
	for i, c := range cells {
		out.Children[i] = jsonChild{
			Index:  c.Index,
			Label:  c.Label,
			Row:    c.Row,
			X:      c.X,
			Y:      c.Y,
			Width:  c.Width,
			Height: c.Height,
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
