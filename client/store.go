package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Credentials is the pair persisted between runs. Token and User always move
// together: a partial write would leave the next startup with a token it
// cannot attribute or a user it cannot authenticate.
type Credentials struct {
	Token        string `json:"token"`
	User         *User  `json:"user"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Complete reports whether both halves are present.
func (c Credentials) Complete() bool {
	return c.Token != "" && c.User != nil
}

// CredentialStore persists credentials across process restarts.
type CredentialStore interface {
	// Load returns the stored credentials. ok is false when nothing is stored.
	Load() (creds Credentials, ok bool, err error)
	// Save replaces the stored credentials with both values at once.
	Save(creds Credentials) error
	// Clear removes the stored credentials. Clearing an empty store is a no-op.
	Clear() error
}

// FileStore keeps credentials in a single JSON document, replaced atomically
// on every save so readers never observe a token without its user.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFileStore stores credentials under the user config dir,
// e.g. ~/.config/megasys/credentials.json.
func DefaultFileStore() (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return NewFileStore(filepath.Join(dir, "megasys", "credentials.json")), nil
}

func (s *FileStore) Load() (Credentials, bool, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Credentials{}, false, nil
	}
	if err != nil {
		return Credentials{}, false, fmt.Errorf("read credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return Credentials{}, false, fmt.Errorf("decode credentials: %w", err)
	}
	if !creds.Complete() {
		// Half a session is no session.
		return Credentials{}, false, nil
	}
	return creds, true, nil
}

func (s *FileStore) Save(creds Credentials) error {
	if !creds.Complete() {
		return errors.New("refusing to save incomplete credentials")
	}

	raw, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
