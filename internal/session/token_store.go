package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TokenStore is the durable home of the bearer token. Only Store writes to it.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// tokenFile is the on-disk layout: a single key
type tokenFile struct {
	Token string `yaml:"token"`
}

// FileTokenStore keeps the token in a yaml file readable only by the user
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a store backed by path
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Path returns the backing file
func (f *FileTokenStore) Path() string {
	return f.path
}

// Load returns the persisted token, or "" when nothing is stored
func (f *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read token file: %w", err)
	}

	var content tokenFile
	if err := yaml.Unmarshal(data, &content); err != nil {
		return "", fmt.Errorf("decode token file: %w", err)
	}
	return content.Token, nil
}

// Save replaces the stored token through a temp file and rename
func (f *FileTokenStore) Save(token string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	data, err := yaml.Marshal(tokenFile{Token: token})
	if err != nil {
		return fmt.Errorf("encode token file: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp token file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp token file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

// Clear removes the stored token
func (f *FileTokenStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
