package oauth

import (
	"os"

	"threejs-mcp/pkg/logging"
)

// Environment variables consulted during credential resolution.
const (
	EnvAccessToken  = "SKETCHFAB_ACCESS_TOKEN"
	EnvRefreshToken = "SKETCHFAB_REFRESH_TOKEN"
	EnvClientID     = "SKETCHFAB_CLIENT_ID"
	EnvClientSecret = "SKETCHFAB_CLIENT_SECRET"
)

// Overrides carries explicit credential values, typically from command-line
// flags. An empty field means "not supplied".
type Overrides struct {
	AccessToken  string
	RefreshToken string
	ClientID     string
	ClientSecret string
}

// Resolve assembles the startup Credential. Each field is resolved
// independently: explicit override > environment variable > persisted file >
// empty. TokenExpiry comes only from the persisted file, as there is no
// flag or environment equivalent.
func Resolve(store *Store, ov Overrides) Credential {
	cred := store.Load()

	cred.AccessToken = firstNonEmpty(ov.AccessToken, os.Getenv(EnvAccessToken), cred.AccessToken)
	cred.RefreshToken = firstNonEmpty(ov.RefreshToken, os.Getenv(EnvRefreshToken), cred.RefreshToken)
	cred.ClientID = firstNonEmpty(ov.ClientID, os.Getenv(EnvClientID), cred.ClientID)
	cred.ClientSecret = firstNonEmpty(ov.ClientSecret, os.Getenv(EnvClientSecret), cred.ClientSecret)

	logCredentialStatus(cred)
	return cred
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// logCredentialStatus reports which credential fields were found, without
// ever logging their values.
func logCredentialStatus(cred Credential) {
	if cred.HasAccessToken() {
		logging.Info("Credentials", "OAuth2 access token found")
	} else {
		logging.Warn("Credentials", "No access token found - download functionality will be disabled")
	}

	if cred.RefreshToken == "" {
		logging.Warn("Credentials", "No refresh token found - automatic token refresh will not be available")
	}
	if cred.ClientID == "" {
		logging.Warn("Credentials", "No client ID found - automatic token refresh will not be available")
	}
	if cred.ClientSecret == "" {
		logging.Warn("Credentials", "No client secret found - automatic token refresh will not be available")
	}
	if cred.HasAccessToken() && cred.CanRefresh() {
		logging.Info("Credentials", "Automatic token refresh is available")
	}
}
