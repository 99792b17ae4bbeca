// Package pipeline runs the layout → render flow shared by the CLI and the
// HTTP server.
//
// Both entry points decode a [stagio.Request], compute its staggered grid and
// render one or more artifacts. Centralizing that here keeps caching, hooks
// and logging identical regardless of who is asking.
//
// # Stages
//
//  1. Layout: run the grid engine over the request (never cached)
//  2. Render: produce artifacts in the requested formats (cached per format)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, req, pipeline.Options{
//	    Formats: []string{"svg", "txt"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run the stages individually:
//
//	layout, err := runner.Layout(ctx, req)
//	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, req, opts)
package pipeline

import (
	"time"

	"github.com/matzehuels/stagger/pkg/cache"
	"github.com/matzehuels/stagger/pkg/errors"
	"github.com/matzehuels/stagger/pkg/render/sink"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = sink.FormatSVG

// Options controls the render stage.
// This struct supports JSON serialization for API requests.
type Options struct {
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	CellWidth  int      `json:"cell_width,omitempty"`
	CellHeight int      `json:"cell_height,omitempty"`
	Color      bool     `json:"color,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed grid paired with its request.
	Layout sink.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Children   int
	Rows       int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// SetDefaults fills in unset options.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
}

// Validate checks formats and sizing options.
func (o *Options) Validate() error {
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f, sink.Formats); err != nil {
			return err
		}
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must not be negative, got %g", o.Scale)
	}
	if o.CellWidth < 0 || o.CellHeight < 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"cell size must not be negative, got %dx%d", o.CellWidth, o.CellHeight)
	}
	return nil
}

// ArtifactKeyOpts returns cache key options for one format. Only the options
// that change that format's output are included.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case sink.FormatSVG:
		k.Scale = o.Scale
	case sink.FormatText:
		k.CellWidth = o.CellWidth
		k.CellHeight = o.CellHeight
		k.Color = o.Color
	}
	return k
}

func (o *Options) sinkOptions() sink.Options {
	return sink.Options{
		Scale:      o.Scale,
		CellWidth:  o.CellWidth,
		CellHeight: o.CellHeight,
		Color:      o.Color,
	}
}
