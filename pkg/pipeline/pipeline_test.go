package pipeline

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stagger/pkg/errors"
	"github.com/matzehuels/stagger/pkg/grid"
	stagio "github.com/matzehuels/stagger/pkg/io"
	"github.com/matzehuels/stagger/pkg/observability"
)

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func sampleRequest() stagio.Request {
	return stagio.Request{
		Rows:        2,
		Constraints: grid.Loose(1000, 1000),
		Children: []stagio.Child{
			{Label: "a", Width: 10, Height: 5},
			{Label: "b", Width: 20, Height: 8},
			{Label: "c", Width: 15, Height: 5},
		},
	}
}

func TestOptionsSetDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()
	if len(o.Formats) != 1 || o.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v, want [%s]", o.Formats, DefaultFormat)
	}

	o = Options{Formats: []string{"txt"}}
	o.SetDefaults()
	if o.Formats[0] != "txt" {
		t.Errorf("SetDefaults should keep explicit formats, got %v", o.Formats)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{Formats: []string{"svg"}}, false},
		{"all formats", Options{Formats: []string{"json", "svg", "txt"}}, false},
		{"unknown format", Options{Formats: []string{"png"}}, true},
		{"case sensitive", Options{Formats: []string{"SVG"}}, true},
		{"negative scale", Options{Formats: []string{"svg"}, Scale: -1}, true},
		{"negative cell", Options{Formats: []string{"txt"}, CellWidth: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.IsInvalid(err) {
				t.Errorf("Validate() error code = %s, want an INVALID_* code", errors.GetCode(err))
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	o := Options{Scale: 2, CellWidth: 4, CellHeight: 8, Color: true}

	svg := o.ArtifactKeyOpts("svg")
	if svg.Scale != 2 || svg.Color || svg.CellWidth != 0 {
		t.Errorf("svg key opts should only carry scale: %+v", svg)
	}
	txt := o.ArtifactKeyOpts("txt")
	if txt.Scale != 0 || !txt.Color || txt.CellWidth != 4 || txt.CellHeight != 8 {
		t.Errorf("txt key opts should carry cell size and color: %+v", txt)
	}
	js := o.ArtifactKeyOpts("json")
	if js.Scale != 0 || js.Color || js.CellWidth != 0 {
		t.Errorf("json key opts should carry no render options: %+v", js)
	}
}

func TestRunnerLayout(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())

	l, err := r.Layout(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	// row 0: a, c → 25 wide, 5 tall; row 1: b → 20 wide, 8 tall
	if l.Result.Width != 25 || l.Result.Height != 13 {
		t.Errorf("size = %dx%d, want 25x13", l.Result.Width, l.Result.Height)
	}
	if got := l.Result.Placements[2]; got != (grid.Point{X: 10, Y: 0}) {
		t.Errorf("placement[2] = %+v, want (10,0)", got)
	}
	if len(l.Request.Children) != 3 {
		t.Errorf("layout should carry the request")
	}
}

func TestRunnerLayoutInvalid(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	req := sampleRequest()
	req.Rows = 0

	_, err := r.Layout(context.Background(), req)
	if !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
		t.Errorf("Layout error = %v, want INVALID_CONFIGURATION", err)
	}
}

func TestRunnerLayoutCanceled(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Layout(ctx, sampleRequest()); err != context.Canceled {
		t.Errorf("Layout error = %v, want context.Canceled", err)
	}
}

func TestRenderCaches(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	opts := Options{Formats: []string{"svg", "json"}}

	first, hit, err := r.RenderWithCacheInfo(ctx, sampleRequest(), opts)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	if hit {
		t.Error("first render should miss")
	}
	if c.sets != 2 {
		t.Errorf("cache sets = %d, want 2", c.sets)
	}

	second, hit, err := r.RenderWithCacheInfo(ctx, sampleRequest(), opts)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !hit {
		t.Error("second render should hit")
	}
	for _, f := range opts.Formats {
		if !bytes.Equal(first[f], second[f]) {
			t.Errorf("%s artifact differs between runs", f)
		}
	}
}

func TestRenderPartialCacheRerenders(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())

	if _, err := r.Render(ctx, sampleRequest(), Options{Formats: []string{"svg"}}); err != nil {
		t.Fatal(err)
	}
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, sampleRequest(), Options{Formats: []string{"svg", "txt"}})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("a missing format should force a render")
	}
	if len(artifacts) != 2 {
		t.Errorf("got %d artifacts, want 2", len(artifacts))
	}
}

func TestRenderKeyDependsOnRequest(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, quietLogger())
	opts := Options{Formats: []string{"json"}}

	if _, err := r.Render(ctx, sampleRequest(), opts); err != nil {
		t.Fatal(err)
	}
	other := sampleRequest()
	other.Rows = 3
	_, hit, err := r.RenderWithCacheInfo(ctx, other, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("a different request should not hit the cache")
	}
}

func TestRenderInvalidRequest(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	req := sampleRequest()
	req.Children[0].Width = -1

	_, err := r.Render(context.Background(), req, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
		t.Errorf("Render error = %v, want INVALID_CONFIGURATION", err)
	}
	if c.sets != 0 {
		t.Error("failed renders should not be cached")
	}
}

func TestRenderInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	_, err := r.Render(context.Background(), sampleRequest(), Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render error = %v, want INVALID_FORMAT", err)
	}
}

func TestRenderCanceled(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Render(ctx, sampleRequest(), Options{}); err != context.Canceled {
		t.Errorf("Render error = %v, want context.Canceled", err)
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(newMemCache(), nil, quietLogger())
	result, err := r.Execute(context.Background(), stagio.Topics(3).WithDefaults(3, grid.Loose(1<<20, 1<<20)), Options{
		Formats: []string{"svg", "txt"},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.Stats.Children != 19 || result.Stats.Rows != 3 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if !strings.HasPrefix(string(result.Artifacts["svg"]), "<svg") {
		t.Errorf("svg artifact should start with <svg")
	}
	if !strings.Contains(string(result.Artifacts["txt"]), "Arts & C") {
		t.Errorf("txt artifact should contain the first label")
	}
	if result.Layout.Result.RowCount() != 3 {
		t.Errorf("RowCount = %d, want 3", result.Layout.Result.RowCount())
	}
}

type recordingHooks struct {
	observability.NoopLayoutHooks
	observability.NoopCacheHooks
	mu       sync.Mutex
	starts   int
	failures int
	hits     int
	misses   int
}

func (h *recordingHooks) OnLayoutStart(context.Context, int, int) {
	h.mu.Lock()
	h.starts++
	h.mu.Unlock()
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, _, _ int, _ time.Duration, err error) {
	h.mu.Lock()
	if err != nil {
		h.failures++
	}
	h.mu.Unlock()
}

func (h *recordingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	h.hits++
	h.mu.Unlock()
}

func (h *recordingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	h.misses++
	h.mu.Unlock()
}

func TestHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	h := &recordingHooks{}
	observability.SetLayoutHooks(h)
	observability.SetCacheHooks(h)

	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, quietLogger())
	opts := Options{Formats: []string{"json"}}

	_, _ = r.Render(ctx, sampleRequest(), opts)
	_, _ = r.Render(ctx, sampleRequest(), opts)

	bad := sampleRequest()
	bad.Rows = -1
	_, _ = r.Layout(ctx, bad)

	if h.starts != 2 {
		t.Errorf("layout starts = %d, want 2 (cached render skips layout)", h.starts)
	}
	if h.failures != 1 {
		t.Errorf("layout failures = %d, want 1", h.failures)
	}
	if h.misses != 1 || h.hits != 1 {
		t.Errorf("cache misses/hits = %d/%d, want 1/1", h.misses, h.hits)
	}
}
