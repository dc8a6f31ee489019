package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

// TokenKey is the name the token is persisted under.
const TokenKey = "nav-auth-token"

// TokenStore persists the token between runs. Load returns "" when none is stored.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// DiskTokenStore keeps the token in a diskv directory.
type DiskTokenStore struct {
	d *diskv.Diskv
}

func NewDiskTokenStore(dir string) (*DiskTokenStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create token dir: %w", err)
	}
	return &DiskTokenStore{d: diskv.New(diskv.Options{
		BasePath:     dir,
		FilePerm:     0o600,
		PathPerm:     0o700,
		CacheSizeMax: 4 * 1024,
	})}, nil
}

func (s *DiskTokenStore) Load() (string, error) {
	b, err := s.d.Read(TokenKey)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(b), nil
}

func (s *DiskTokenStore) Save(token string) error {
	if err := s.d.Write(TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func (s *DiskTokenStore) Clear() error {
	if !s.d.Has(TokenKey) {
		return nil
	}
	if err := s.d.Erase(TokenKey); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("erase token: %w", err)
	}
	return nil
}

// MemoryTokenStore forgets the token when the process exits.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryTokenStore) Clear() error { return s.Save("") }
