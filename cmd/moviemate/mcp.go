package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	mcpserver "github.com/vadimtrunov/MovieMate/internal/mcp"
)

// newMCPServeCmd returns the hidden "mcp-serve" subcommand.
// It starts an MCP server over stdin/stdout so assistants can call the
// search, details and recommendation tools.
func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "mcp-serve",
		Short:  "Start MCP server over stdio (internal)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			var deps mcpserver.Deps
			// Without a key the server still starts; tools report the missing key.
			catalog, err := initCatalog(cfg, logger)
			if err == nil {
				deps.Catalog = catalog
				deps.Recommender = initEngine(cfg, catalog, logger)
			} else {
				logger.Warn("catalog unavailable", slog.String("error", err.Error()))
			}

			srv := mcpserver.NewServer(deps, version, logger)
			return srv.ServeStdio(cmd.Context())
		},
	}
}
