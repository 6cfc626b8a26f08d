package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

// Ensure FileTokenStore implements the interface.
var _ driven.TokenStore = (*FileTokenStore)(nil)

// FileTokenStore keeps the credential in a JSON file.
type FileTokenStore struct {
	path string
}

// tokenFile is the on-disk form. Files written by the Google Python client
// store the access token under "token"; both spellings are read.
type tokenFile struct {
	domain.Credential
	Token string `json:"token,omitempty"`
}

// NewFileTokenStore creates a token store at path. A leading ~ expands to
// the home directory.
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	expanded, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}
	return &FileTokenStore{path: expanded}, nil
}

// Load reads the stored credential.
func (s *FileTokenStore) Load() (*domain.Credential, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrAuthRequired
	}
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var file tokenFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", s.path, err)
	}

	cred := file.Credential
	if cred.AccessToken == "" {
		cred.AccessToken = file.Token
	}
	if cred.AccessToken == "" && cred.RefreshToken == "" {
		return nil, domain.ErrAuthRequired
	}
	return &cred, nil
}

// Save writes the credential with owner-only permissions.
func (s *FileTokenStore) Save(cred *domain.Credential) error {
	if cred == nil {
		return fmt.Errorf("save token: %w", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}

	// Write then rename so a crash never leaves a truncated token.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Delete removes the token file.
func (s *FileTokenStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete token file: %w", err)
	}
	return nil
}

// Path returns the token file location.
func (s *FileTokenStore) Path() string {
	return s.path
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
