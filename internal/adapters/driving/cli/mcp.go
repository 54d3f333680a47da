package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grimoire-notes/grimoire/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve search and indexing to MCP clients",
	Long: `Serve the vector store to MCP clients such as desktop assistants.

The server offers two tools, search and index, and the read-only
grimoire://store resource with store statistics. It speaks JSON-RPC on
stdio unless --port is given, in which case it serves streamable HTTP.

  grimoire mcp serve             # launched by the client
  grimoire mcp serve --port 8080 # inspector or remote use

A client entry launching it over stdio:

  {"mcpServers": {"grimoire": {"command": "grimoire", "args": ["mcp", "serve"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, _ := cmd.Flags().GetInt("port") //nolint:errcheck // flag is registered in init

	server, err := mcp.NewServer(&mcp.Ports{Search: searchService, Index: indexService}, version)
	switch {
	case err != nil && servicesErr != nil:
		return fmt.Errorf("%w: %w", err, servicesErr)
	case err != nil:
		return err
	case port <= 0:
		return server.Run(cmd.Context())
	}

	addr := fmt.Sprintf(":%d", port)
	cmd.Printf("MCP server listening on http://localhost%s\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}
