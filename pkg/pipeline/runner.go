package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stagger/pkg/cache"
	stagio "github.com/matzehuels/stagger/pkg/io"
	"github.com/matzehuels/stagger/pkg/observability"
	"github.com/matzehuels/stagger/pkg/render/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the expiry of cached artifacts. Zero means cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLArtifact,
	}
}

// Execute runs layout and render for req.
func (r *Runner) Execute(ctx context.Context, req stagio.Request, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Stats: Stats{Children: len(req.Children), Rows: req.Rows},
	}

	layoutStart := time.Now()
	l, err := r.Layout(ctx, req)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)

	reqHash, err := requestHash(req)
	if err != nil {
		return nil, err
	}

	renderStart := time.Now()
	artifacts, hit := r.cached(ctx, reqHash, opts)
	if !hit {
		artifacts, err = r.renderLayout(ctx, l, reqHash, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
	}
	result.Artifacts = artifacts
	result.CacheHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout computes the staggered grid for req.
func (r *Runner) Layout(ctx context.Context, req stagio.Request) (sink.Layout, error) {
	if err := ctx.Err(); err != nil {
		return sink.Layout{}, err
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, req.Rows, len(req.Children))

	start := time.Now()
	res, err := req.Compute()
	elapsed := time.Since(start)

	hooks.OnLayoutComplete(ctx, req.Rows, len(req.Children), elapsed, err)
	if err != nil {
		r.Logger.Debug("layout rejected", "rows", req.Rows, "children", len(req.Children), "error", err)
		return sink.Layout{}, err
	}

	r.Logger.Debug("computed layout",
		"rows", req.Rows,
		"children", len(req.Children),
		"width", res.Width,
		"height", res.Height,
		"duration", elapsed)

	return sink.NewLayout(req, res), nil
}

// RenderWithCacheInfo renders req in every requested format and reports
// whether all artifacts came from the cache. The layout is only computed on a
// miss.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, req stagio.Request, opts Options) (map[string][]byte, bool, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	reqHash, err := requestHash(req)
	if err != nil {
		return nil, false, err
	}

	if artifacts, hit := r.cached(ctx, reqHash, opts); hit {
		return artifacts, true, nil
	}

	l, err := r.Layout(ctx, req)
	if err != nil {
		return nil, false, err
	}

	artifacts, err := r.renderLayout(ctx, l, reqHash, opts)
	if err != nil {
		return nil, false, err
	}
	return artifacts, false, nil
}

// cached returns the artifacts for every format, or false if any is missing.
func (r *Runner) cached(ctx context.Context, reqHash string, opts Options) (map[string][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(reqHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Debug("cache read failed", "format", format, "error", err)
		}
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		hooks.OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return artifacts, true
}

// renderLayout renders l in every format and stores the results. Cache write
// failures are logged and otherwise ignored.
func (r *Runner) renderLayout(ctx context.Context, l sink.Layout, reqHash string, opts Options) (map[string][]byte, error) {
	hooks := observability.Cache()
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := sink.Render(l, format, opts.sinkOptions())
		if err != nil {
			return nil, err
		}
		rendered[format] = data

		key := r.Keyer.ArtifactKey(reqHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, req stagio.Request, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, req, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLArtifact
}

func requestHash(req stagio.Request) (string, error) {
	h, err := cache.HashJSON(req)
	if err != nil {
		return "", fmt.Errorf("hash request for cache key: %w", err)
	}
	return h, nil
}
