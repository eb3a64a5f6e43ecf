package repository

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/oops"
)

// FileStorage implements render.Repository using the local file system.
// Files are written to a temp name and renamed so a published page is
// never read half-written.
type FileStorage struct {
	basePath string
	mu       sync.Mutex
}

// NewFileStorage creates a file-based output repository rooted at basePath.
func NewFileStorage(basePath string) (Repository, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create output directory").Wrap(err)
	}

	return &FileStorage{basePath: basePath}, nil
}

func (s *FileStorage) Write(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.basePath, name)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return oops.With("path", tmp, "context", "failed to write output file").Wrap(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return oops.With("path", path, "context", "failed to replace output file").Wrap(err)
	}

	return nil
}
