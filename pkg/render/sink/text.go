package sink

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stagger/pkg/errors"
)

// TextOption configures text rendering via [RenderText].
type TextOption func(*textRenderer)

type textRenderer struct {
	cellWidth  int
	cellHeight int
	color      bool
}

// Default cell size for [RenderText], in layout units per terminal cell.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// MaxTextCells bounds the canvas of [RenderText] (columns times lines).
const MaxTextCells = 4 << 20

var rowColors = []lipgloss.Color{"36", "35", "220", "75", "167"}

// WithCellSize sets how many layout units one terminal column and line cover.
// Non-positive values are ignored.
func WithCellSize(w, h int) TextOption {
	return func(r *textRenderer) {
		if w > 0 && h > 0 {
			r.cellWidth, r.cellHeight = w, h
		}
	}
}

// WithColor colours each row's boxes with lipgloss.
func WithColor() TextOption { return func(r *textRenderer) { r.color = true } }

type canvasCell struct {
	ch  rune
	row int // -1 for background
}

// RenderText sketches the layout with box-drawing characters.
//
// Each child becomes a bordered box sized by the cell size; labels are centred
// on the middle line and truncated to fit. Children smaller than two cells on
// either axis are filled with '▪'. Lines are newline-terminated and padded to
// the same width.
//
// Layouts whose canvas would exceed [MaxTextCells] fail with
// [errors.ErrCodeInvalidInput]; use a larger cell size for them.
func RenderText(l Layout, opts ...TextOption) (string, error) {
	r := textRenderer{cellWidth: DefaultCellWidth, cellHeight: DefaultCellHeight}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := l.Extent()
	cols := ceilDiv(w, r.cellWidth)
	lines := ceilDiv(h, r.cellHeight)
	if cols > 0 && lines > MaxTextCells/cols {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"text canvas of %d×%d cells exceeds %d; increase the cell size", cols, lines, MaxTextCells)
	}

	canvas := make([][]canvasCell, lines)
	for y := range canvas {
		canvas[y] = make([]canvasCell, cols)
		for x := range canvas[y] {
			canvas[y][x] = canvasCell{ch: ' ', row: -1}
		}
	}

	for _, c := range l.Cells() {
		x0, y0 := c.X/r.cellWidth, c.Y/r.cellHeight
		x1, y1 := c.Right()/r.cellWidth, c.Bottom()/r.cellHeight
		drawBox(canvas, c, x0, y0, x1-x0, y1-y0)
	}

	var b strings.Builder
	for _, line := range canvas {
		b.WriteString(r.renderLine(line))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func drawBox(canvas [][]canvasCell, c Cell, x0, y0, w, h int) {
	set := func(x, y int, ch rune) {
		if y >= 0 && y < len(canvas) && x >= 0 && x < len(canvas[y]) {
			canvas[y][x] = canvasCell{ch: ch, row: c.Row}
		}
	}

	if w < 2 || h < 2 {
		for y := y0; y < y0+max(h, 1); y++ {
			for x := x0; x < x0+max(w, 1); x++ {
				set(x, y, '▪')
			}
		}
		return
	}

	x1, y1 := x0+w-1, y0+h-1
	for x := x0 + 1; x < x1; x++ {
		set(x, y0, '─')
		set(x, y1, '─')
	}
	for y := y0 + 1; y < y1; y++ {
		set(x0, y, '│')
		set(x1, y, '│')
	}
	set(x0, y0, '┌')
	set(x1, y0, '┐')
	set(x0, y1, '└')
	set(x1, y1, '┘')

	if h < 3 || c.Label == "" {
		return
	}
	label := []rune(c.Label)
	inner := w - 2
	if len(label) > inner {
		label = label[:inner]
	}
	start := x0 + 1 + (inner-len(label))/2
	mid := y0 + h/2
	for i, ch := range label {
		set(start+i, mid, ch)
	}
}

func (r textRenderer) renderLine(line []canvasCell) string {
	if !r.color {
		runes := make([]rune, len(line))
		for i, c := range line {
			runes[i] = c.ch
		}
		return string(runes)
	}

	var b strings.Builder
	for i := 0; i < len(line); {
		j := i
		var run []rune
		for j < len(line) && line[j].row == line[i].row {
			run = append(run, line[j].ch)
			j++
		}
		if row := line[i].row; row >= 0 {
			style := lipgloss.NewStyle().Foreground(rowColors[row%len(rowColors)])
			b.WriteString(style.Render(string(run)))
		} else {
			b.WriteString(string(run))
		}
		i = j
	}
	return b.String()
}

// ceilDiv divides a non-negative a by a positive b, rounding up.
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
