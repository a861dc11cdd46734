package certificate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage persists generated certificates on disk under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./certificates"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create certificates directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save writes the given bytes to the provided file name under the base dir.
func (s *LocalStorage) Save(filename string, data []byte) (string, error) {
	path := s.resolve(filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write certificate file: %w", err)
	}
	return filename, nil
}

// Dir returns the base directory served by the HTTP layer.
func (s *LocalStorage) Dir() string { return s.baseDir }

func (s *LocalStorage) resolve(filename string) string {
	clean := filepath.Base(strings.TrimSpace(filename))
	return filepath.Join(s.baseDir, clean)
}
