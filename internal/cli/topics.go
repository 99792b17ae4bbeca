package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	stagio "github.com/matzehuels/stagger/pkg/io"
)

// topicsCommand creates the command that writes the topic-chip demo request.
func (c *CLI) topicsCommand() *cobra.Command {
	var (
		rows   int
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Write the topic-chip demo request",
		Long: `Write the topic-chip demo request: nineteen labelled chips whose width
follows the label length. Pipe it into layout, render or preview:

  stagger topics | stagger render -f txt -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := stagio.Topics(rows)
			if output != "" {
				if err := stagio.ExportFile(req, output); err != nil {
					return err
				}
				printSuccess("Wrote %d topics", len(req.Children))
				printFile(filepath.Clean(output))
				return nil
			}
			if format == stagio.FormatTOML {
				return stagio.WriteTOML(c.stdout, req)
			}
			return stagio.WriteJSON(c.stdout, req)
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "r", 3, "number of rows")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, .json or .toml (default: stdout)")
	cmd.Flags().StringVar(&format, "format", stagio.FormatJSON, "stdout format: json, toml")

	return cmd
}
