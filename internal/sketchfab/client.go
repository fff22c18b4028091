package sketchfab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"threejs-mcp/internal/oauth"
	"threejs-mcp/pkg/logging"
)

const (
	// DefaultBaseURL is the Sketchfab API root.
	DefaultBaseURL = "https://api.sketchfab.com/v3"

	// DefaultHTTPTimeout is the timeout for catalog API requests.
	// Downloads have their own, larger bound.
	DefaultHTTPTimeout = 30 * time.Second

	// SearchLimitMax is the provider's hard cap on search result count.
	SearchLimitMax = 24

	// SearchLimitDefault applies when the caller leaves the limit unset.
	SearchLimitDefault = 10
)

// Client performs catalog operations against the Sketchfab API. Requests
// that support authentication attach the lifecycle's current bearer token;
// the lifecycle transparently refreshes it when close to expiry.
//
// File retrievals go through a separate HTTP client: the catalog client's
// 30s timeout would cut off large transfers long before the 300s download
// bound.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	downloadClient *http.Client
	auth           *oauth.Lifecycle
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom API root.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a catalog client using the given credential lifecycle.
func NewClient(auth *oauth.Lifecycle, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		auth:       auth,
	}

	for _, opt := range opts {
		opt(c)
	}

	// The download client shares any custom transport but carries the
	// larger download bound instead of the catalog timeout.
	c.downloadClient = &http.Client{
		Transport: c.httpClient.Transport,
		Timeout:   DownloadTimeout,
	}

	return c
}

// clampLimit applies the provider's 1..24 bound. Zero means unset and
// selects the default.
func clampLimit(limit int) int {
	switch {
	case limit == 0:
		return SearchLimitDefault
	case limit < 1:
		return 1
	case limit > SearchLimitMax:
		return SearchLimitMax
	default:
		return limit
	}
}

// Search queries the catalog for models matching the query and returns the
// downloadable ones. The limit is clamped silently to 1..24 (default 10).
// Search never fails: transport and decode errors are logged and degrade to
// an empty result list.
func (c *Client) Search(ctx context.Context, query string, limit int) []ModelSummary {
	params := url.Values{
		"q":     {query},
		"count": {strconv.Itoa(clampLimit(limit))},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		logging.Error("Catalog", err, "Failed to build search request")
		return []ModelSummary{}
	}

	var decoded searchResponse
	if err := c.doJSON(req, &decoded); err != nil {
		logging.Error("Catalog", err, "Search failed for query %q", query)
		return []ModelSummary{}
	}

	models := make([]ModelSummary, 0, len(decoded.Results.Models))
	for _, raw := range decoded.Results.Models {
		if !raw.IsDownloadable {
			logging.Debug("Catalog", "Skipping non-downloadable model %s", raw.UID)
			continue
		}
		models = append(models, raw.toSummary())
	}

	logging.Info("Catalog", "Search for %q returned %d downloadable models", query, len(models))
	return models
}

// GetModel fetches detailed information about a model. The request is
// authenticated when a token is available and anonymous otherwise.
func (c *Client) GetModel(ctx context.Context, modelID string) (*ModelDetail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models/"+url.PathEscape(modelID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteRequest, err)
	}
	c.attachAuth(ctx, req)

	var detail ModelDetail
	if err := c.doJSON(req, &detail); err != nil {
		return nil, fmt.Errorf("%w: failed to get model %s: %v", ErrRemoteRequest, modelID, err)
	}
	return &detail, nil
}

// GetDownloadLinks resolves the per-format download links for a model.
// A non-empty access token is a hard precondition: without one the call
// fails with ErrAuthRequired before touching the network.
func (c *Client) GetDownloadLinks(ctx context.Context, modelID string) (map[string]DownloadLink, error) {
	if c.auth == nil || c.auth.BearerToken() == "" {
		return nil, fmt.Errorf("%w: downloading models requires an OAuth2 access token", ErrAuthRequired)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models/"+url.PathEscape(modelID)+"/download", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteRequest, err)
	}
	c.attachAuth(ctx, req)

	var links map[string]DownloadLink
	if err := c.doJSON(req, &links); err != nil {
		return nil, fmt.Errorf("%w: failed to get download links for %s: %v", ErrRemoteRequest, modelID, err)
	}
	return links, nil
}

// ResolveGltfURL resolves a direct gltf download URL for a model. The two
// non-success outcomes (model not downloadable, gltf format not offered)
// are reported as tagged variants, not errors; only transport-level
// failures return an error. There is no rollback between the steps, each
// failure surfaces independently.
func (c *Client) ResolveGltfURL(ctx context.Context, modelID string) (*GltfResolution, error) {
	detail, err := c.GetModel(ctx, modelID)
	if err != nil {
		return nil, err
	}

	name := detail.Name
	if name == "" {
		name = modelID
	}

	if !detail.IsDownloadable {
		return &GltfResolution{
			Status:    GltfNotDownloadable,
			ModelID:   modelID,
			ModelName: name,
		}, nil
	}

	links, err := c.GetDownloadLinks(ctx, modelID)
	if err != nil {
		return nil, err
	}

	link, ok := links["gltf"]
	if !ok {
		available := make([]string, 0, len(links))
		for format := range links {
			available = append(available, format)
		}
		sort.Strings(available)
		return &GltfResolution{
			Status:           GltfFormatUnavailable,
			ModelID:          modelID,
			ModelName:        name,
			AvailableFormats: available,
		}, nil
	}

	return &GltfResolution{
		Status:    GltfOK,
		ModelID:   modelID,
		ModelName: name,
		URL:       link.URL,
	}, nil
}

// attachAuth adds a bearer header when a token is available, refreshing it
// first if it is close to expiry. Requests without a usable token go out
// unauthenticated.
func (c *Client) attachAuth(ctx context.Context, req *http.Request) {
	if c.auth == nil {
		return
	}
	if !c.auth.EnsureValid(ctx) {
		logging.Debug("Catalog", "No access token available, making unauthenticated request")
		return
	}
	if token := c.auth.BearerToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// doJSON executes a request and decodes a JSON response body into out.
// Non-2xx statuses are errors.
func (c *Client) doJSON(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request to %s returned status %d", req.URL.Path, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
