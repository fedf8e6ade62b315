package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore persists the bearer token and the cached user record between
// runs. Absence of a stored credential is not an error: Load returns an
// empty token and a nil user.
//
// Token and user are always written and removed together so the two can
// never diverge on disk.
type TokenStore interface {
	// Load returns the stored token and user, if any.
	Load() (token string, user *User, err error)

	// Save persists the token and user, replacing any previous values.
	Save(token string, user *User) error

	// Clear removes the stored token and user.
	Clear() error
}

// credentialsFile is the on-disk format of the FileTokenStore.
type credentialsFile struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// FileTokenStore stores credentials in a single JSON file with 0600
// permissions. Writes are atomic (write-tmp-then-rename) so a crash can
// never leave a half-written file behind.
type FileTokenStore struct {
	path string
	mu   sync.Mutex
}

// DefaultCredentialsPath returns the default credentials file location,
// ~/.auth-redux/credentials.json.
func DefaultCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".auth-redux", "credentials.json"), nil
}

// NewFileTokenStore creates a FileTokenStore at the given path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load reads the credentials file. A missing file yields an empty token
// and nil user with no error.
func (s *FileTokenStore) Load() (string, *User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("read credentials file: %w", err)
	}

	var creds credentialsFile
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", nil, fmt.Errorf("parse credentials file: %w", err)
	}
	return creds.Token, creds.User, nil
}

// Save writes the token and user atomically: marshal, write to path+".tmp"
// with 0600 permissions, then rename over the target.
func (s *FileTokenStore) Save(token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(credentialsFile{Token: token, User: user}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	data = append(data, '\n')

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename credentials: %w", err)
	}
	return nil
}

// Clear removes the credentials file. A missing file is not an error.
func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials file: %w", err)
	}
	return nil
}

// MemoryTokenStore is an in-memory TokenStore for tests and embedding.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
	user  *User
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Load returns the stored token and a copy of the stored user.
func (s *MemoryTokenStore) Load() (string, *User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return s.token, nil, nil
	}
	userCopy := *s.user
	return s.token, &userCopy, nil
}

// Save stores the token and a copy of the user.
func (s *MemoryTokenStore) Save(token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	if user == nil {
		s.user = nil
	} else {
		userCopy := *user
		s.user = &userCopy
	}
	return nil
}

// Clear removes the stored token and user.
func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil
	return nil
}
