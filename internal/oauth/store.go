package oauth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"threejs-mcp/pkg/logging"
)

// DefaultCredentialsFileName is the credentials file name created in the
// user's home directory when no explicit path is configured.
const DefaultCredentialsFileName = ".sketchfab_credentials.json"

// Store persists the Credential record to a JSON file.
//
// SECURITY: the file is created with 0600 permissions (owner read/write
// only) and any created parent directory with 0700.
type Store struct {
	path string
}

// NewStore creates a store for the given file path. An empty path selects
// the default location in the user's home directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, DefaultCredentialsFileName)
	}
	return &Store{path: path}, nil
}

// Path returns the resolved credentials file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted credential record. A missing file yields a zero
// Credential; a malformed or unreadable file is logged and also yields a
// zero Credential. Load never fails, so startup can always proceed.
func (s *Store) Load() Credential {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debug("CredentialStore", "No credentials file at %s", s.path)
		} else {
			logging.Error("CredentialStore", err, "Failed to read credentials file %s", s.path)
		}
		return Credential{}
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		logging.Error("CredentialStore", err, "Malformed credentials file %s, ignoring", s.path)
		return Credential{}
	}

	logging.Info("CredentialStore", "Loaded credentials from %s", s.path)
	return cred
}

// Save writes the credential record, creating any missing parent directory.
// The file is written to a temporary sibling and renamed into place, so a
// partial write never corrupts a pre-existing valid file.
func (s *Store) Save(cred Credential) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary credentials file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := writeAndClose(tmp, data); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write credentials: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace credentials file: %w", err)
	}

	logging.Info("CredentialStore", "Stored updated credentials to %s", s.path)
	return nil
}

func writeAndClose(f *os.File, data []byte) error {
	if err := f.Chmod(0600); err != nil {
		f.Close()
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
