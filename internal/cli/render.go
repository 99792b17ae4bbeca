package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	stagio "github.com/matzehuels/stagger/pkg/io"
	"github.com/matzehuels/stagger/pkg/pipeline"
	"github.com/matzehuels/stagger/pkg/render/sink"
)

// defaultBase is the output base name when the request comes from stdin.
const defaultBase = "layout"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string // output file (single format) or base path (multiple)
	inputFormat string // format of stdin
	noCache     bool
	pipeline    pipeline.Options
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		opts       renderOpts
		grid       gridFlags
	)

	cmd := &cobra.Command{
		Use:   "render [request.json|request.toml|-]",
		Short: "Render a staggered grid to SVG, text or JSON",
		Long: `Render a staggered grid to SVG, text or JSON.

Each requested format is written to <base>.<format>, where base is the
--output path without a known extension or, failing that, the input file name
without its extension ("layout" for stdin). Rendered artifacts are cached; use
--no-cache to bypass the cache.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			opts.pipeline.Formats = parseFormats(formatsStr)
			if err := opts.pipeline.Validate(); err != nil {
				return err
			}
			req, err := c.readRequest(input, opts.inputFormat)
			if err != nil {
				return err
			}
			req = grid.apply(cmd, req, c.Config.Grid)
			return c.runRender(cmd.Context(), req, input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+supportedFormats+" (comma-separated, default svg)")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "", "format of stdin: json (default), toml")
	cmd.Flags().Float64Var(&opts.pipeline.Scale, "scale", 0, "SVG scale factor (default 1)")
	cmd.Flags().IntVar(&opts.pipeline.CellWidth, "cell-width", 0, "layout units per text column")
	cmd.Flags().IntVar(&opts.pipeline.CellHeight, "cell-height", 0, "layout units per text line")
	cmd.Flags().BoolVar(&opts.pipeline.Color, "color", false, "use ANSI colors in text output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	grid.register(cmd)

	return cmd
}

// runRender renders req to every requested format and writes the files.
func (c *CLI) runRender(ctx context.Context, req stagio.Request, input string, opts *renderOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	logger.Debugf("Rendering %d children as %s", len(req.Children), strings.Join(opts.pipeline.Formats, ", "))
	prog := newProgress(logger)

	spinner := newSpinnerWithContext(ctx, "Rendering layout...")
	spinner.Start()
	result, err := runner.Execute(ctx, req, opts.pipeline)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	logger.Debug("render timings", "layout", result.Stats.LayoutTime, "render", result.Stats.RenderTime)
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(result.Artifacts)))

	paths, err := writeArtifacts(result.Artifacts, outputPaths(opts.output, input, opts.pipeline.Formats))
	if err != nil {
		return err
	}

	res := result.Layout.Result
	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Children, res.RowCount(), res.Width, res.Height, result.CacheHit)
	return nil
}

// outputPaths maps each format to its output file.
// A single format with an explicit output is written to that exact path.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .txt, .json), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "" || input == "-" {
			return defaultBase
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(sink.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes each artifact to its path and returns the written
// paths in sorted order.
func writeArtifacts(artifacts map[string][]byte, paths map[string]string) ([]string, error) {
	var written []string
	for format, data := range artifacts {
		path, ok := paths[format]
		if !ok {
			continue
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	sort.Strings(written)
	return written, nil
}
