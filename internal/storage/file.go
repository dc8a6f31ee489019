// Package storage persists the navigation document as a YAML file.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

// Source says where a loaded document came from.
type Source string

const (
	SourceFile     Source = "file"
	SourceFallback Source = "fallback"
	SourceBuiltin  Source = "builtin"
)

// FileStore reads the document from path, falling back to a bundled file
// and then to the built-in default. Writes always go to path.
type FileStore struct {
	path     string
	fallback string
	logger   logger.Logger
	mu       sync.Mutex
}

func NewFileStore(path, fallback string, log logger.Logger) *FileStore {
	return &FileStore{path: path, fallback: fallback, logger: log}
}

func (s *FileStore) Path() string { return s.path }

// Load returns the current document. A malformed primary file is an error,
// it is never silently replaced by the fallback.
func (s *FileStore) Load() (*nav.Document, Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := readDocument(s.path)
	if err == nil {
		return doc, SourceFile, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, "", err
	}

	if s.fallback != "" {
		doc, err = readDocument(s.fallback)
		if err == nil {
			s.logger.Warn("config file missing, serving fallback",
				logger.String("path", s.path),
				logger.String("fallback", s.fallback))
			return doc, SourceFallback, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", err
		}
	}

	s.logger.Warn("no config file found, serving built-in default", logger.String("path", s.path))
	return nav.Default(), SourceBuiltin, nil
}

// Exists reports whether the primary file is present.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save writes doc atomically: temp file in the same directory, then rename.
func (s *FileStore) Save(doc *nav.Document) error {
	data, err := nav.Marshal(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".nav-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close config: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod config: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}

	s.logger.Info("config saved",
		logger.String("path", s.path),
		logger.Int("bytes", len(data)))
	return nil
}

func readDocument(path string) (*nav.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := nav.Parse(data)
	if err != nil {
		var pe *apperr.ParseError
		if errors.As(err, &pe) {
			return nil, fmt.Errorf("%s: %w", path, pe)
		}
		return nil, err
	}
	return doc, nil
}
