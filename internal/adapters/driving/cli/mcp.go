package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/mcp"
)

var (
	mcpHTTPAddr string
	mcpFile     string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --http to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for Claude Desktop)
  docchat mcp --file ./report.pdf

  # HTTP mode (for MCP Inspector, remote access)
  docchat mcp --http :8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "docchat": {
        "command": "/path/to/docchat",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "HTTP listen address (empty = use stdio)")
	mcpCmd.Flags().StringVar(&mcpFile, "file", "", "file to load before serving")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	a, _, err := startApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if mcpFile != "" {
		if _, err := a.Ingest(cmd.Context(), mcpFile); err != nil {
			return fmt.Errorf("load %s: %w", mcpFile, userError(err))
		}
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Documents: a.Documents,
		Chat:      a.Chat,
		Retrieval: a.Retriever,
		Loader:    a,
	})
	if err != nil {
		return err
	}

	if mcpHTTPAddr != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s\n", mcpHTTPAddr)
		return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
	}

	return server.Run(cmd.Context())
}
