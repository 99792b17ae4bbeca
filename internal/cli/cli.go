// Package cli implements the stagger command-line interface.
//
// # Commands
//
//   - layout: compute a staggered grid for a request file and print it as JSON
//   - render: render a request to SVG, text or JSON files
//   - preview: interactive terminal preview with live row changes
//   - topics: write the topic-chip demo request
//   - serve: run the HTTP API
//   - todo: manage a small to-do list, optionally laid out as chips
//   - cache, config, completion: housekeeping
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs layout and cache events through the observability hooks. The logger
// is attached to the command context.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stagger/pkg/buildinfo"
	"github.com/matzehuels/stagger/pkg/cache"
	"github.com/matzehuels/stagger/pkg/config"
	stagio "github.com/matzehuels/stagger/pkg/io"
	"github.com/matzehuels/stagger/pkg/pipeline"
	"github.com/matzehuels/stagger/pkg/render/sink"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	stdin      io.Reader
	stdout     io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
}

// SetLogLevel updates the logger's level. At debug level the observability
// hooks are routed to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stagger lays out measured boxes in a staggered grid",
		Long:         `Stagger distributes measured children round-robin across a fixed number of rows, stacks the rows vertically and renders the result as SVG, text or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/stagger/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.topicsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.todoCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, appName+":"), c.Logger)
	r.TTL = c.Config.Cache.TTL
	return r, nil
}

// newCache picks Redis when an address is configured and the file cache
// otherwise. An unreachable Redis falls back to the file cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := c.Config.Cache.RedisAddr; addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr, "")
		if err == nil {
			return rc, nil
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "addr", addr, "error", err)
	}
	if c.Config.Cache.Dir == "" {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(c.Config.Cache.Dir)
}

// =============================================================================
// Input Helpers
// =============================================================================

// gridFlags are the per-command overrides of the configured grid defaults.
type gridFlags struct {
	rows      int
	minWidth  int
	maxWidth  int
	minHeight int
	maxHeight int
}

func (g *gridFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&g.rows, "rows", "r", 0, "number of rows (default: request or config)")
	cmd.Flags().IntVar(&g.minWidth, "min-width", 0, "minimum container width")
	cmd.Flags().IntVar(&g.maxWidth, "max-width", 0, "maximum container width")
	cmd.Flags().IntVar(&g.minHeight, "min-height", 0, "minimum container height")
	cmd.Flags().IntVar(&g.maxHeight, "max-height", 0, "maximum container height")
}

// apply overrides req with explicitly set flags, then fills anything still
// missing from the config. Setting only one bound of an axis keeps the other
// from the request, or from the config when the request has none.
func (g *gridFlags) apply(cmd *cobra.Command, req stagio.Request, cfg config.GridConfig) stagio.Request {
	f := cmd.Flags()
	c := &req.Constraints
	if f.Changed("rows") {
		req.Rows = g.rows
	}
	if f.Changed("min-width") {
		c.MinWidth = g.minWidth
	}
	if f.Changed("max-width") {
		c.MaxWidth = g.maxWidth
	}
	if f.Changed("min-height") {
		c.MinHeight = g.minHeight
	}
	if f.Changed("max-height") {
		c.MaxHeight = g.maxHeight
	}
	return req.WithDefaults(cfg.Rows, cfg.Constraints())
}

// readRequest loads a request from path, or from stdin when path is "-" or
// empty. Stdin is read as JSON unless format says otherwise.
func (c *CLI) readRequest(path, format string) (stagio.Request, error) {
	if path == "" || path == "-" {
		if format == "" {
			format = stagio.FormatJSON
		}
		return stagio.Read(c.stdin, format)
	}
	return stagio.ImportFile(path)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// supportedFormats is shown in flag help.
var supportedFormats = strings.Join(sink.Formats, ", ")
