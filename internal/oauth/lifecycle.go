package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"threejs-mcp/pkg/logging"
)

const (
	// DefaultTokenURL is the Sketchfab OAuth2 token endpoint.
	DefaultTokenURL = "https://sketchfab.com/oauth2/token/"

	// DefaultHTTPTimeout is the timeout for token endpoint requests.
	DefaultHTTPTimeout = 30 * time.Second

	// RefreshMargin is the duration before expiry at which the access
	// token is proactively refreshed.
	RefreshMargin = 5 * time.Minute

	// DefaultTokenTTL is assumed when the provider omits expires_in
	// from the refresh response.
	DefaultTokenTTL = 30 * 24 * time.Hour
)

// ErrRefreshFailed indicates the refresh grant was attempted and rejected
// or unreachable. It is non-fatal: callers proceed with the existing token.
var ErrRefreshFailed = errors.New("token refresh failed")

// Lifecycle owns the process-wide Credential instance, tracks its expiry
// and refreshes it through the provider's refresh grant. Reads return
// snapshot copies; the credential is mutated only by a successful refresh,
// and concurrent refreshes collapse into a single in-flight exchange.
type Lifecycle struct {
	mu    sync.RWMutex
	cred  Credential
	store *Store

	httpClient *http.Client
	tokenURL   string
	now        func() time.Time

	group singleflight.Group
}

// LifecycleOption configures the Lifecycle.
type LifecycleOption func(*Lifecycle)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) LifecycleOption {
	return func(l *Lifecycle) {
		l.httpClient = httpClient
	}
}

// WithTokenURL sets a custom token endpoint.
func WithTokenURL(tokenURL string) LifecycleOption {
	return func(l *Lifecycle) {
		l.tokenURL = tokenURL
	}
}

// WithClock sets a custom time source.
func WithClock(now func() time.Time) LifecycleOption {
	return func(l *Lifecycle) {
		l.now = now
	}
}

// NewLifecycle creates a Lifecycle owning the given credential. The store
// may be nil, in which case rotated tokens are kept in memory only.
func NewLifecycle(cred Credential, store *Store, opts ...LifecycleOption) *Lifecycle {
	l := &Lifecycle{
		cred:       cred,
		store:      store,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		tokenURL:   DefaultTokenURL,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Credential returns a snapshot copy of the current credential. The copy
// is consistent: it never observes a partially applied refresh.
func (l *Lifecycle) Credential() Credential {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cred
}

// BearerToken returns the current access token, which may be empty.
func (l *Lifecycle) BearerToken() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cred.AccessToken
}

// EnsureValid prepares the credential for an authenticated call. It returns
// true when subsequent calls may proceed with the access token as-is or
// freshly refreshed, false when no usable token exists at all.
//
// A token within RefreshMargin of its expiry triggers a refresh attempt
// first, but refresh is best-effort: missing refresh fields or a failed
// exchange are logged and the possibly-stale token is used anyway. The
// remote API is authoritative on whether it still works.
func (l *Lifecycle) EnsureValid(ctx context.Context) bool {
	snap := l.Credential()

	if !snap.HasAccessToken() {
		return false
	}

	if !snap.ExpiresWithin(l.now(), RefreshMargin) {
		return true
	}

	if !snap.CanRefresh() {
		logging.Warn("TokenLifecycle", "Access token is about to expire but refresh credentials are incomplete, proceeding with existing token")
		return true
	}

	logging.Info("TokenLifecycle", "Access token is about to expire, refreshing")
	if err := l.Refresh(ctx); err != nil {
		logging.Warn("TokenLifecycle", "Token refresh failed, proceeding with existing token: %v", err)
	}
	return true
}

// Refresh executes the provider's refresh grant and, on success, replaces
// the access token (and refresh token when rotated), updates the expiry and
// persists the new credential. On failure the credential is left untouched.
// Concurrent callers share a single exchange.
func (l *Lifecycle) Refresh(ctx context.Context) error {
	_, err, _ := l.group.Do("refresh", func() (interface{}, error) {
		return nil, l.doRefresh(ctx)
	})
	return err
}

// tokenResponse mirrors the provider's refresh grant response. Every field
// is optional; absent fields degrade to defaults.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

func (l *Lifecycle) doRefresh(ctx context.Context) error {
	snap := l.Credential()
	if !snap.CanRefresh() {
		return fmt.Errorf("%w: missing refresh_token, client_id, or client_secret", ErrRefreshFailed)
	}

	data := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {snap.ClientID},
		"client_secret": {snap.ClientSecret},
		"refresh_token": {snap.RefreshToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read token response: %v", ErrRefreshFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logging.Debug("TokenLifecycle", "Token endpoint returned status %d", resp.StatusCode)
		return fmt.Errorf("%w: token endpoint returned status %d", ErrRefreshFailed, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return fmt.Errorf("%w: failed to parse token response: %v", ErrRefreshFailed, err)
	}
	if token.AccessToken == "" {
		return fmt.Errorf("%w: token response contained no access token", ErrRefreshFailed)
	}

	ttl := DefaultTokenTTL
	if token.ExpiresIn > 0 {
		ttl = time.Duration(token.ExpiresIn) * time.Second
	}

	l.mu.Lock()
	l.cred.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		l.cred.RefreshToken = token.RefreshToken
	}
	l.cred.TokenExpiry = float64(l.now().Add(ttl).Unix())
	updated := l.cred
	l.mu.Unlock()

	logging.Info("TokenLifecycle", "Successfully refreshed access token")

	if l.store != nil {
		if err := l.store.Save(updated); err != nil {
			// The refreshed token is usable in memory even when
			// persistence fails.
			logging.Error("TokenLifecycle", err, "Failed to persist refreshed credentials")
		}
	}

	return nil
}
