package server

import (
	"context"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"threejs-mcp/internal/sketchfab"
	"threejs-mcp/pkg/logging"
)

// ServerName identifies this MCP server to connecting hosts.
const ServerName = "threejs"

// Server adapts the catalog client to the MCP tool protocol.
type Server struct {
	mcpServer *server.MCPServer
	catalog   *sketchfab.Client

	// downloadEnabled gates the gltf URL tool; it reflects whether an
	// access token was configured at startup.
	downloadEnabled bool
}

// New creates the MCP server and registers its tools.
func New(catalog *sketchfab.Client, downloadEnabled bool, version string) *Server {
	mcpServer := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer:       mcpServer,
		catalog:         catalog,
		downloadEnabled: downloadEnabled,
	}
	s.registerTools()

	return s
}

// registerTools registers the tool set. The gltf URL tool is only offered
// when downloads are possible, so hosts never see a tool that can only
// fail.
func (s *Server) registerTools() {
	searchTool := mcp.NewTool("threejs_search_models",
		mcp.WithDescription("Search for 3D models on Sketchfab that match your query."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search term for 3D models (e.g., 'car', 'house', 'character')"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (1-24, default: 10)"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchModels)

	if !s.downloadEnabled {
		logging.Warn("Server", "No access token configured, the gltf model URL tool is disabled")
		return
	}

	gltfTool := mcp.NewTool("threejs_get_gltf_model_url",
		mcp.WithDescription("Get direct url of a GLTF file for a Sketchfab model without downloading it"),
		mcp.WithString("model_id",
			mcp.Required(),
			mcp.Description("The uid of the model returned in the Sketchfab search response."),
		),
	)
	s.mcpServer.AddTool(gltfTool, s.handleGetGltfModelURL)
}

// Start serves the MCP protocol on stdio. It blocks until the transport is
// closed by the host or the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	logging.Info("Server", "Serving MCP on stdio transport")
	return s.serve(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
}
