package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stagger/pkg/config"
	"github.com/matzehuels/stagger/pkg/server"
)

// serveCommand creates the command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render API over HTTP",
		Long: `Serve the layout and render API over HTTP.

Routes:
  GET  /healthz
  POST /v1/layout            request body (JSON or TOML), returns the layout
  POST /v1/render/{format}   request body, returns the artifact
  GET  /v1/topics?rows=N     the topic-chip demo request`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv := server.New(runner, c.Config, c.Logger)
			if cmd.Flags().Changed("addr") {
				srv.Addr = addr
			}
			printKeyValue("Address", srv.Addr)
			printKeyValue("Cache", cacheKind(c.Config.Cache, noCache))
			printNewline()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config server.addr)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// cacheKind describes the configured cache backend for display.
func cacheKind(cfg config.CacheConfig, noCache bool) string {
	switch {
	case noCache || (cfg.RedisAddr == "" && cfg.Dir == ""):
		return "disabled"
	case cfg.RedisAddr != "":
		return "redis " + cfg.RedisAddr
	default:
		return "file " + cfg.Dir
	}
}
