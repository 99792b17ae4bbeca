package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	stagio "github.com/matzehuels/stagger/pkg/io"
	"github.com/matzehuels/stagger/pkg/render/sink"
)

// layoutCommand creates the layout command for computing grid geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output      string
		inputFormat string
		grid        gridFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [request.json|request.toml|-]",
		Short: "Compute a staggered grid layout from a request",
		Long: `Compute a staggered grid layout from a request.

The request lists the measured children (width and height, optional label) and
may set the number of rows and the container constraints. Anything it omits is
taken from the flags, then from the config file.

Child i is placed in row i mod rows; rows are stacked top to bottom and each
row is packed left to right. The output is the layout as JSON: container size,
per-row widths, heights and offsets, and one entry per child.

Reads stdin when the argument is "-" or missing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			req, err := c.readRequest(input, inputFormat)
			if err != nil {
				return err
			}
			req = grid.apply(cmd, req, c.Config.Grid)
			return c.runLayout(cmd.Context(), req, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "format of stdin: json (default), toml")
	grid.register(cmd)

	return cmd
}

// runLayout computes the layout and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, req stagio.Request, output string) error {
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	l, err := runner.Layout(ctx, req)
	if err != nil {
		return err
	}
	data, err := sink.RenderJSON(l)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	if output == "" {
		_, err := c.stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(len(req.Children), l.Result.RowCount(), l.Result.Width, l.Result.Height, false)
	return nil
}
