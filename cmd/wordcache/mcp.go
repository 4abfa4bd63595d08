package main

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unowned-ai/wordcache/pkg/mcp"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the Wordcache MCP server (stdio)",
		Long: `Start a Model Context Protocol (MCP) server that exposes the word collection,
search, stats and the review flow as MCP tools via STDIO.

The --db flag is optional. If not provided, a system-specific default location will be used:
- Windows: %USERPROFILE%\AppData\Roaming\wordcache\wordcache.db
- macOS: ~/Library/Application Support/wordcache/wordcache.db
- Linux: ~/.local/share/wordcache/wordcache.db

Example:
  wordcache mcp
  wordcache mcp --db words.db --wal`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			srv := mcp.NewWordcacheMCPServer(ws.session, a.logger)
			srv.RegisterTools()

			// Status goes to stderr so the JSON-RPC stream on stdout stays clean.
			cmd.PrintErrf("Wordcache MCP server started. DB: %s (WAL: %t, Sync: %s)\n", ws.dbPath, a.cfg.WAL, a.cfg.SyncMode)
			cmd.PrintErrln("Available tools: " + strings.Join(mcp.ToolNames, ", "))
			cmd.PrintErrln("Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

			if err := srv.Start(); err != nil {
				a.logger.Error("MCP server stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}
}
