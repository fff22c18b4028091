package oauth

import "time"

// Credential is the unit of authentication state against the Sketchfab API.
// The JSON tags match the persisted credentials file format, which is shared
// with other consumers of ~/.sketchfab_credentials.json.
type Credential struct {
	// AccessToken is the bearer token attached to authenticated requests.
	AccessToken string `json:"access_token"`

	// RefreshToken is exchanged for a new access token when the current
	// one approaches expiry. The provider may rotate it on refresh.
	RefreshToken string `json:"refresh_token"`

	// ClientID identifies the OAuth2 application.
	ClientID string `json:"client_id"`

	// ClientSecret authenticates the OAuth2 application.
	ClientSecret string `json:"client_secret"`

	// TokenExpiry is the access token expiry as epoch seconds.
	// Zero means unknown/non-expiring: it never blocks use and never
	// triggers a refresh.
	TokenExpiry float64 `json:"token_expiry"`
}

// HasAccessToken reports whether an access token is configured.
func (c Credential) HasAccessToken() bool {
	return c.AccessToken != ""
}

// CanRefresh reports whether all three fields required for the refresh
// grant are present.
func (c Credential) CanRefresh() bool {
	return c.RefreshToken != "" && c.ClientID != "" && c.ClientSecret != ""
}

// ExpiresWithin reports whether the access token expires within the given
// margin of now. A zero TokenExpiry never expires.
func (c Credential) ExpiresWithin(now time.Time, margin time.Duration) bool {
	if c.TokenExpiry == 0 {
		return false
	}
	return float64(now.Unix()) > c.TokenExpiry-margin.Seconds()
}
