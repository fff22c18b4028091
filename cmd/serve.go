package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"threejs-mcp/internal/server"
)

// serveCmd defines the serve command structure. This is the main command:
// it starts the MCP server on stdio for AI assistant integration.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Starts the threejs MCP server, speaking the MCP protocol on stdin/stdout.
This is the entry point MCP hosts (e.g. Claude Desktop, Cursor) should run.

The search tool is always available. The GLTF URL tool is advertised only
when an access token is configured, via flags, environment variables
(SKETCHFAB_ACCESS_TOKEN, SKETCHFAB_REFRESH_TOKEN, SKETCHFAB_CLIENT_ID,
SKETCHFAB_CLIENT_SECRET) or the credentials file.

All logging goes to stderr; stdout carries the protocol stream.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command.
func runServe(cmd *cobra.Command, args []string) error {
	initLogging()

	catalog, cred, err := newCatalogClient()
	if err != nil {
		return fmt.Errorf("failed to initialize catalog client: %w", err)
	}

	srv := server.New(catalog, cred.HasAccessToken(), GetVersion())
	return srv.Start(cmd.Context())
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
