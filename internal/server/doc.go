// Package server exposes the catalog operations as MCP tools over stdio.
//
// Two tools are served: threejs_search_models is always available, while
// threejs_get_gltf_model_url is advertised only when an access token was
// configured at startup. The adapter boundary is fail-closed: every
// failure, expected or not, is rendered as a structured {"error": ...}
// payload in the tool result, never as a protocol-level fault.
package server
