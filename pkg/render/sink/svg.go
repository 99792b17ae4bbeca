package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale    float64
	padding  float64
	fontSize float64
	palette  []string
}

// DefaultPalette holds the fill colours cycled across rows.
var DefaultPalette = []string{"#cfe8fc", "#d7f5dd", "#fde7c8", "#ead7fb", "#fbd4d4"}

// WithScale multiplies every coordinate by s.
func WithScale(s float64) SVGOption { return func(r *svgRenderer) { r.scale = s } }

// WithPadding adds a margin of p layout units around the drawing.
// Negative values are ignored.
func WithPadding(p float64) SVGOption {
	return func(r *svgRenderer) {
		if p >= 0 {
			r.padding = p
		}
	}
}

// WithFontSize sets the label font size in output units.
func WithFontSize(px float64) SVGOption { return func(r *svgRenderer) { r.fontSize = px } }

// WithPalette replaces the per-row fill colours. An empty palette is ignored.
func WithPalette(colors ...string) SVGOption {
	return func(r *svgRenderer) {
		if len(colors) > 0 {
			r.palette = colors
		}
	}
}

// RenderSVG draws the layout as SVG. The viewBox covers every child, and the
// container bounds are drawn as a dashed outline.
func RenderSVG(l Layout, opts ...SVGOption) []byte {
	r := svgRenderer{scale: 1, fontSize: 14, palette: DefaultPalette}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := l.Extent()
	s := r.scale
	outW := (float64(w) + 2*r.padding) * s
	outH := (float64(h) + 2*r.padding) * s

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		outW, outH, outW, outH)
	if r.padding > 0 {
		fmt.Fprintf(&buf, `<g transform="translate(%.1f %.1f)">`+"\n", r.padding*s, r.padding*s)
	}
	fmt.Fprintf(&buf, `  <rect class="container" x="0" y="0" width="%.1f" height="%.1f" fill="none" stroke="#888" stroke-dasharray="4 2"/>`+"\n",
		float64(l.Result.Width)*s, float64(l.Result.Height)*s)

	for _, c := range l.Cells() {
		fill := r.palette[c.Row%len(r.palette)]
		fmt.Fprintf(&buf, `  <g class="child row-%d">`+"\n", c.Row)
		fmt.Fprintf(&buf, `    <rect id="child-%d" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="#222"/>`+"\n",
			c.Index, float64(c.X)*s, float64(c.Y)*s, float64(c.Width)*s, float64(c.Height)*s, 4*s, fill)
		if c.Label != "" {
			cx := (float64(c.X) + float64(c.Width)/2) * s
			cy := (float64(c.Y) + float64(c.Height)/2) * s
			fmt.Fprintf(&buf, `    <text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
				cx, cy, r.fontSize*s, escapeXML(c.Label))
		}
		buf.WriteString("  </g>\n")
	}

	if r.padding > 0 {
		buf.WriteString("</g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
