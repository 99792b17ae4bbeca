package sink

import (
	"github.com/matzehuels/stagger/pkg/errors"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatText = "txt"
)

// Formats lists every supported output format.
var Formats = []string{FormatJSON, FormatSVG, FormatText}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Options collects the settings shared by all sinks.
type Options struct {
	Scale      float64
	CellWidth  int
	CellHeight int
	Color      bool
}

// Render renders l in the given format.
func Render(l Layout, format string, opts Options) ([]byte, error) {
	if err := errors.ValidateFormat(format, Formats); err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return RenderJSON(l)
	case FormatSVG:
		var svgOpts []SVGOption
		if opts.Scale > 0 {
			svgOpts = append(svgOpts, WithScale(opts.Scale))
		}
		return RenderSVG(l, svgOpts...), nil
	default:
		var textOpts []TextOption
		if opts.CellWidth > 0 && opts.CellHeight > 0 {
			textOpts = append(textOpts, WithCellSize(opts.CellWidth, opts.CellHeight))
		}
		if opts.Color {
			textOpts = append(textOpts, WithColor())
		}
		text, err := RenderText(l, textOpts...)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	}
}
