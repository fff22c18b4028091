package oauth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_LoadMissingFile(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	cred := store.Load()
	if cred != (Credential{}) {
		t.Errorf("Expected zero credential for missing file, got %+v", cred)
	}
}

func TestStore_LoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	cred := store.Load()
	if cred != (Credential{}) {
		t.Errorf("Expected zero credential for malformed file, got %+v", cred)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	want := Credential{
		AccessToken:  "access-123",
		RefreshToken: "refresh-456",
		ClientID:     "client-789",
		ClientSecret: "secret-abc",
		TokenExpiry:  1700000000,
	}

	if err := store.Save(want); err != nil {
		t.Fatalf("Failed to save credentials: %v", err)
	}

	got := store.Load()
	if got != want {
		t.Errorf("Round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestStore_SaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "credentials.json")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := store.Save(Credential{AccessToken: "tok"}); err != nil {
		t.Fatalf("Failed to save credentials: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected credentials file to exist: %v", err)
	}
}

func TestStore_SaveSerializesAllFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	// An all-empty credential still serializes every field, with empty
	// strings for tokens and 0 for the expiry.
	if err := store.Save(Credential{}); err != nil {
		t.Fatalf("Failed to save credentials: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Saved file is not valid JSON: %v", err)
	}

	for _, key := range []string{"access_token", "refresh_token", "client_id", "client_secret", "token_expiry"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("Expected key %q in saved file", key)
		}
	}
	if raw["token_expiry"] != float64(0) {
		t.Errorf("Expected token_expiry 0, got %v", raw["token_expiry"])
	}
}

func TestStore_SaveOverwritesExisting(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := store.Save(Credential{AccessToken: "first"}); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if err := store.Save(Credential{AccessToken: "second"}); err != nil {
		t.Fatalf("Failed to save again: %v", err)
	}

	got := store.Load()
	if got.AccessToken != "second" {
		t.Errorf("Expected overwritten token %q, got %q", "second", got.AccessToken)
	}

	// No temporary files should be left behind.
	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the credentials file in the directory, found %d entries", len(entries))
	}
}

func TestStore_FilePermissions(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := store.Save(Credential{AccessToken: "tok"}); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected file mode 0600, got %o", perm)
	}
}
