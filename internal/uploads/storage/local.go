package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"
)

// LocalStore writes uploads to a directory on disk. The returned path is the
// public one the router serves the directory under (e.g. /uploads/<file>).
type LocalStore struct {
	dir        string
	publicPath string
}

func NewLocalStore(dir, publicPath string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, publicPath: publicPath}, nil
}

func (s *LocalStore) Save(ctx context.Context, field, filename, contentType string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%s-%d%s", field, time.Now().UnixMilli(), filepath.Ext(filename))

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return path.Join(s.publicPath, name), nil
}

// Dir is the directory uploads land in; the sweeper prunes it.
func (s *LocalStore) Dir() string {
	return s.dir
}
