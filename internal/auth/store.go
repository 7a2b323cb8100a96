package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNoCredential indicates no credential has been persisted yet.
var ErrNoCredential = fmt.Errorf("no saved credential")

// Store persists the current [Credential]. Pure I/O, no policy.
type Store interface {
	// Load returns the persisted credential, or [ErrNoCredential] if none exists.
	Load() (*Credential, error)

	// Save replaces the persisted credential in full.
	Save(cred *Credential) error
}

// FileStore is a [Store] backed by a single JSON file.
//
// Saves replace the whole file through a temp-file rename, so the last
// complete write wins and a crash never leaves a partial file behind. No file
// locking: concurrent processes sharing one token file are unsupported.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file path this store writes to.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and parses the token file.
func (s *FileStore) Load() (*Credential, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return &cred, nil
}

// Save writes the credential to the token file atomically with mode 0600.
func (s *FileStore) Save(cred *Credential) error {
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write token file: %w", err)
	}

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to set token file mode: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp token file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace token file: %w", err)
	}

	return nil
}
