package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/spicemodel/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the store over MCP (stdio)",
	Long: `mcp starts an MCP server over stdio exposing model_query and
subckt_query tools against the configured store, for use by MCP-aware
clients such as editor integrations.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	st, _, err := openConfiguredStore()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(st)
	if err != nil {
		st.Close()
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	return server.Serve(context.Background())
}
