package intake

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Session is what the CLI keeps between runs
type Session struct {
	Email        string `json:"email"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Server       string `json:"server,omitempty"`
}

// FileIdentity stores the session as JSON on disk
type FileIdentity struct {
	Path string
}

// DefaultSessionPath is medbot/session.json under the user config directory
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "medbot", "session.json"), nil
}

// Load returns the stored session, or an empty one when none exists
func (f *FileIdentity) Load() (*Session, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Session{}, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", f.Path, err)
	}
	return &s, nil
}

// Save writes the session readable by the owner only
func (f *FileIdentity) Save(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0o600)
}

// Clear removes the session file
func (f *FileIdentity) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Email implements IdentitySource
func (f *FileIdentity) Email() (string, error) {
	s, err := f.Load()
	if err != nil {
		return "", err
	}
	return s.Email, nil
}
