// Package sink renders computed staggered-grid layouts to output formats.
//
// # Formats
//
//   - [RenderJSON]: machine-readable geometry (container size, row metrics and
//     one entry per child)
//   - [RenderSVG]: a static SVG drawing, one rectangle and label per child
//   - [RenderText]: a box-drawing sketch for terminals, optionally coloured
//     per row with lipgloss
//
// [Render] dispatches on a format name and is what the pipeline and HTTP API
// use.
//
// # Input
//
// All sinks take a [Layout], which pairs the request (for labels and sizes)
// with the engine's [grid.Result]. Build one with [NewLayout].
package sink
