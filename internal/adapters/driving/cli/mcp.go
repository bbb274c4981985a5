package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/mcp"
)

// supportedFormats is reported by the MCP status tool; set at startup.
var supportedFormats []string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes three tools:
  upload  index local files
  ask     answer a question from the indexed files
  status  report readiness and document count

By default, the server communicates over stdio using JSON-RPC. Use --port to
start an HTTP server instead. With --watch DIR, files created in DIR are
indexed as they appear.

Examples:
  # Stdio mode (default)
  ragchat mcp serve

  # HTTP mode, ingesting a drop folder
  ragchat mcp serve --port 8080 --watch ~/ragchat-inbox

Assistant configuration:
  {
    "mcpServers": {
      "ragchat": {
        "command": "/path/to/ragchat",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringP("watch", "w", "", "index files created in this directory")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

// SetSupportedFormats sets the extensions advertised to MCP clients.
func SetSupportedFormats(exts []string) {
	supportedFormats = exts
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	watchDir, err := cmd.Flags().GetString("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}

	svc, err := chat()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Chat: svc, Formats: supportedFormats, Version: version})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if watchDir != "" {
		if err := startUploadWatcher(ctx, cmd, svc, watchDir); err != nil {
			return err
		}
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
