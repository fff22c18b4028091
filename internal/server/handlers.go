package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"threejs-mcp/internal/sketchfab"
	"threejs-mcp/pkg/logging"
)

// jsonResult serializes a payload as an indented JSON text block.
func jsonResult(payload interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		// Payloads are maps and slices of plain values; this path is
		// unreachable in practice but must still not propagate.
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// errorResult renders a failure as the boundary's structured error payload.
func errorResult(message string) *mcp.CallToolResult {
	return jsonResult(map[string]interface{}{"error": message})
}

// handleSearchModels handles the threejs_search_models tool.
//
// Args:
//   - query (required): the search term
//   - limit (optional): result cap, clamped to 1-24, default 10
//
// Returns a {"models": [...]} payload. Search failures are soft and
// surface as an empty model list.
func (s *Server) handleSearchModels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return errorResult("query argument is required"), nil
	}

	limit := 0
	if v, ok := request.GetArguments()["limit"].(float64); ok {
		limit = int(v)
	}

	models := s.catalog.Search(ctx, query, limit)

	return jsonResult(map[string]interface{}{
		"models": models,
	}), nil
}

// handleGetGltfModelURL handles the threejs_get_gltf_model_url tool.
//
// Args:
//   - model_id (required): the model uid from a search result
//
// Returns {"model_name", "model_id", "gltf_url"} on success, or an
// {"error", [available_formats]} payload for the expected failure shapes.
func (s *Server) handleGetGltfModelURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modelID, err := request.RequireString("model_id")
	if err != nil {
		return errorResult("model_id argument is required"), nil
	}

	res, err := s.catalog.ResolveGltfURL(ctx, modelID)
	if err != nil {
		logging.Error("Server", err, "Failed to resolve gltf URL for model %s", modelID)
		return errorResult(err.Error()), nil
	}

	switch res.Status {
	case sketchfab.GltfNotDownloadable:
		return errorResult(fmt.Sprintf("Model '%s' is not downloadable.", res.ModelName)), nil

	case sketchfab.GltfFormatUnavailable:
		return jsonResult(map[string]interface{}{
			"error":             fmt.Sprintf("GLTF format is not available for model '%s'.", res.ModelName),
			"available_formats": res.AvailableFormats,
		}), nil

	default:
		return jsonResult(map[string]interface{}{
			"model_name": res.ModelName,
			"model_id":   res.ModelID,
			"gltf_url":   res.URL,
		}), nil
	}
}
