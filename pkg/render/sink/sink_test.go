package sink

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stagger/pkg/errors"
	"github.com/matzehuels/stagger/pkg/grid"
	stagio "github.com/matzehuels/stagger/pkg/io"
)

func mustLayout(t *testing.T, req stagio.Request) Layout {
	t.Helper()
	res, err := req.Compute()
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	return NewLayout(req, res)
}

func twoBoxes() stagio.Request {
	return stagio.Request{
		Rows:        1,
		Constraints: grid.Loose(100, 100),
		Children: []stagio.Child{
			{Label: "ab", Width: 4, Height: 3},
			{Label: "cd", Width: 3, Height: 3},
		},
	}
}

func TestCells(t *testing.T) {
	l := mustLayout(t, stagio.Request{
		Rows:        2,
		Constraints: grid.Loose(100, 100),
		Children: []stagio.Child{
			{Label: "a", Width: 10, Height: 4},
			{Label: "b", Width: 6, Height: 2},
			{Label: "c", Width: 5, Height: 4},
		},
	})

	want := []Cell{
		{Index: 0, Label: "a", Row: 0, X: 0, Y: 0, Width: 10, Height: 4},
		{Index: 1, Label: "b", Row: 1, X: 0, Y: 4, Width: 6, Height: 2},
		{Index: 2, Label: "c", Row: 0, X: 10, Y: 0, Width: 5, Height: 4},
	}
	if diff := cmp.Diff(want, l.Cells()); diff != "" {
		t.Errorf("Cells() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtentIncludesOverflow(t *testing.T) {
	req := twoBoxes()
	req.Constraints = grid.Fixed(5, 2)
	l := mustLayout(t, req)

	w, h := l.Extent()
	if w != 7 || h != 3 {
		t.Errorf("Extent() = %dx%d, want 7x3", w, h)
	}
	if l.Result.Width != 5 || l.Result.Height != 2 {
		t.Errorf("container = %dx%d, want 5x2", l.Result.Width, l.Result.Height)
	}
}

func TestRenderJSON(t *testing.T) {
	l := mustLayout(t, twoBoxes())

	data, err := RenderJSON(l)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if out.Width != 7 || out.Height != 3 {
		t.Errorf("size = %dx%d, want 7x3", out.Width, out.Height)
	}
	if out.Rows != 1 {
		t.Errorf("Rows = %d, want 1", out.Rows)
	}
	want := []jsonChild{
		{Index: 0, Label: "ab", Row: 0, X: 0, Y: 0, Width: 4, Height: 3},
		{Index: 1, Label: "cd", Row: 0, X: 4, Y: 0, Width: 3, Height: 3},
	}
	if diff := cmp.Diff(want, out.Children); diff != "" {
		t.Errorf("Children mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderSVG(t *testing.T) {
	req := twoBoxes()
	req.Children[1].Label = "R&D"
	l := mustLayout(t, req)

	svg := string(RenderSVG(l, WithScale(10)))

	checks := []string{
		`viewBox="0 0 70.0 30.0"`,
		`<rect id="child-0" x="0.0" y="0.0" width="40.0" height="30.0"`,
		`<rect id="child-1" x="40.0" y="0.0" width="30.0" height="30.0"`,
		`R&amp;D`,
		`class="child row-0"`,
	}
	for _, want := range checks {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q\n%s", want, svg)
		}
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG should be closed")
	}
}

func TestRenderSVGPadding(t *testing.T) {
	l := mustLayout(t, twoBoxes())

	svg := string(RenderSVG(l, WithScale(2), WithPadding(5)))
	for _, want := range []string{`viewBox="0 0 34.0 26.0"`, `<g transform="translate(10.0 10.0)">`} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q\n%s", want, svg)
		}
	}

	if svg := string(RenderSVG(l, WithPadding(-1))); strings.Contains(svg, "translate") {
		t.Error("negative padding should be ignored")
	}
}

func TestRenderSVGPalette(t *testing.T) {
	req := twoBoxes()
	req.Rows = 2
	l := mustLayout(t, req)

	svg := string(RenderSVG(l, WithPalette("#111111", "#222222")))
	if !strings.Contains(svg, `fill="#111111"`) || !strings.Contains(svg, `fill="#222222"`) {
		t.Errorf("SVG should use one palette colour per row:\n%s", svg)
	}

	svg = string(RenderSVG(l, WithPalette()))
	if !strings.Contains(svg, DefaultPalette[0]) {
		t.Error("empty palette should fall back to the default")
	}
}

func mustText(t *testing.T, l Layout, opts ...TextOption) string {
	t.Helper()
	out, err := RenderText(l, opts...)
	if err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	return out
}

func TestRenderText(t *testing.T) {
	l := mustLayout(t, twoBoxes())

	got := mustText(t, l, WithCellSize(1, 1))
	want := "" +
		"┌──┐┌─┐\n" +
		"│ab││c│\n" +
		"└──┘└─┘\n"
	if got != want {
		t.Errorf("RenderText() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderTextStaggered(t *testing.T) {
	l := mustLayout(t, stagio.Request{
		Rows:        2,
		Constraints: grid.Loose(100, 100),
		Children: []stagio.Child{
			{Label: "one", Width: 5, Height: 3},
			{Label: "two", Width: 7, Height: 3},
			{Width: 1, Height: 1},
		},
	})

	got := mustText(t, l, WithCellSize(1, 1))
	want := "" +
		"┌───┐▪ \n" +
		"│one│  \n" +
		"└───┘  \n" +
		"┌─────┐\n" +
		"│ two │\n" +
		"└─────┘\n"
	if got != want {
		t.Errorf("RenderText() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderTextTopics(t *testing.T) {
	l := mustLayout(t, stagio.Topics(3).WithDefaults(3, grid.Loose(10000, 10000)))

	out := mustText(t, l)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 9 {
		t.Fatalf("got %d lines, want 9 (3 rows x 3 lines)", len(lines))
	}
	if !strings.Contains(out, "Arts & Crafts") {
		t.Error("labels should fit inside their chips")
	}
}

func TestRenderTextColor(t *testing.T) {
	l := mustLayout(t, twoBoxes())

	plain := mustText(t, l, WithCellSize(1, 1))
	colored := mustText(t, l, WithCellSize(1, 1), WithColor())
	if !strings.Contains(colored, "ab") {
		t.Error("coloured output should keep labels")
	}
	if len(colored) < len(plain) {
		t.Error("coloured output should not be shorter than plain output")
	}
}

func TestRender(t *testing.T) {
	l := mustLayout(t, twoBoxes())

	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			data, err := Render(l, format, Options{CellWidth: 1, CellHeight: 1})
			if err != nil {
				t.Fatalf("Render(%s) error: %v", format, err)
			}
			if len(data) == 0 {
				t.Errorf("Render(%s) returned no data", format)
			}
		})
	}

	if _, err := Render(l, "png", Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(png) error = %v, want INVALID_FORMAT", err)
	}
}

func TestRenderTextTooLarge(t *testing.T) {
	tests := []struct {
		name  string
		child stagio.Child
		opts  Options
	}{
		{"max int width", stagio.Child{Width: math.MaxInt, Height: 10}, Options{}},
		{"huge width", stagio.Child{Width: 1 << 34, Height: 16}, Options{}},
		{"wide and tall", stagio.Child{Width: 4096, Height: 4096}, Options{CellWidth: 1, CellHeight: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := mustLayout(t, stagio.Request{
				Rows:        1,
				Constraints: grid.Loose(math.MaxInt, math.MaxInt),
				Children:    []stagio.Child{tt.child},
			})
			var textOpts []TextOption
			if tt.opts.CellWidth > 0 {
				textOpts = append(textOpts, WithCellSize(tt.opts.CellWidth, tt.opts.CellHeight))
			}
			if _, err := RenderText(l, textOpts...); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("RenderText() error = %v, want INVALID_INPUT", err)
			}
			if _, err := Render(l, FormatText, tt.opts); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Render(txt) error = %v, want INVALID_INPUT", err)
			}
		})
	}

	// A coarser cell size brings the same layout under the limit.
	l := mustLayout(t, stagio.Request{
		Rows:        1,
		Constraints: grid.Loose(math.MaxInt, math.MaxInt),
		Children:    []stagio.Child{{Width: 4096, Height: 4096}},
	})
	if _, err := RenderText(l, WithCellSize(8, 16)); err != nil {
		t.Errorf("RenderText() with 8x16 cells error: %v", err)
	}
}

func TestCeilDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{0, 8, 0},
		{1, 8, 1},
		{8, 8, 1},
		{9, 8, 2},
		{math.MaxInt, 1, math.MaxInt},
		{math.MaxInt, 8, math.MaxInt/8 + 1},
	}
	for _, tt := range tests {
		if got := ceilDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("ceilDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		FormatJSON: "application/json",
		FormatSVG:  "image/svg+xml",
		FormatText: "text/plain; charset=utf-8",
	}
	for format, want := range tests {
		if got := ContentType(format); got != want {
			t.Errorf("ContentType(%s) = %q, want %q", format, got, want)
		}
	}
}
