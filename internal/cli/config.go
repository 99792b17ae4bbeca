package cli

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// configCommand creates the command that prints the effective configuration.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML: defaults, overlaid by the config
file, overlaid by STAGGER_* environment variables (for example
STAGGER_GRID_ROWS=4 or STAGGER_CACHE_REDIS_ADDR=localhost:6379).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(c.stdout).Encode(c.Config)
		},
	}
}
