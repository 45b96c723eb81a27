package share

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/comparehub/internal/filex"
)

// FileStore writes reports under Dir.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := filex.EnsureDir(s.Dir)
	if err != nil {
		return "", err
	}

	p := filepath.Join(dir, filepath.Base(name))
	if err := filex.WriteFileAtomic(p, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", p, err)
	}
	return p, nil
}
