package oauth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks all credential environment variables so ambient values
// cannot leak into precedence tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAccessToken, EnvRefreshToken, EnvClientID, EnvClientSecret} {
		t.Setenv(key, "")
	}
}

func newTestStore(t *testing.T, cred *Credential) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)
	if cred != nil {
		require.NoError(t, store.Save(*cred))
	}
	return store
}

func TestResolve_FileOnly(t *testing.T) {
	clearEnv(t)
	store := newTestStore(t, &Credential{
		AccessToken:  "file-access",
		RefreshToken: "file-refresh",
		ClientID:     "file-id",
		ClientSecret: "file-secret",
		TokenExpiry:  1234,
	})

	cred := Resolve(store, Overrides{})
	assert.Equal(t, "file-access", cred.AccessToken)
	assert.Equal(t, "file-refresh", cred.RefreshToken)
	assert.Equal(t, "file-id", cred.ClientID)
	assert.Equal(t, "file-secret", cred.ClientSecret)
	assert.Equal(t, float64(1234), cred.TokenExpiry)
}

func TestResolve_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	store := newTestStore(t, &Credential{
		AccessToken:  "file-access",
		RefreshToken: "file-refresh",
	})

	t.Setenv(EnvAccessToken, "env-access")

	cred := Resolve(store, Overrides{})
	assert.Equal(t, "env-access", cred.AccessToken)
	// Fields without an environment value keep the file value.
	assert.Equal(t, "file-refresh", cred.RefreshToken)
}

func TestResolve_ExplicitOverridesEnvironment(t *testing.T) {
	clearEnv(t)
	store := newTestStore(t, nil)

	t.Setenv(EnvAccessToken, "env-access")
	t.Setenv(EnvClientID, "env-id")

	cred := Resolve(store, Overrides{AccessToken: "flag-access"})
	assert.Equal(t, "flag-access", cred.AccessToken)
	assert.Equal(t, "env-id", cred.ClientID)
}

func TestResolve_PerFieldPrecedence(t *testing.T) {
	clearEnv(t)
	// Each field resolves independently, not all-or-nothing per source.
	store := newTestStore(t, &Credential{
		AccessToken:  "file-access",
		RefreshToken: "file-refresh",
		ClientSecret: "file-secret",
		TokenExpiry:  99,
	})

	t.Setenv(EnvRefreshToken, "env-refresh")

	cred := Resolve(store, Overrides{ClientID: "flag-id"})
	assert.Equal(t, "file-access", cred.AccessToken)
	assert.Equal(t, "env-refresh", cred.RefreshToken)
	assert.Equal(t, "flag-id", cred.ClientID)
	assert.Equal(t, "file-secret", cred.ClientSecret)
	assert.Equal(t, float64(99), cred.TokenExpiry, "expiry is sourced only from the file")
}

func TestResolve_AllEmpty(t *testing.T) {
	clearEnv(t)
	store := newTestStore(t, nil)

	cred := Resolve(store, Overrides{})
	assert.Equal(t, Credential{}, cred)
	assert.False(t, cred.HasAccessToken())
	assert.False(t, cred.CanRefresh())
}
