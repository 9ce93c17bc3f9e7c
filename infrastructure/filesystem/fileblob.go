package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileBlob is a blob stored as a single local file.
type FileBlob struct {
	path string
}

func NewFileBlob(dir, name string) *FileBlob {
	return &FileBlob{path: filepath.Join(dir, name)}
}

func (b *FileBlob) Read(ctx context.Context) ([]byte, error) {
	return os.ReadFile(b.path)
}

// Write replaces the file through a temp file and rename.
func (b *FileBlob) Write(ctx context.Context, data []byte) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), b.path)
}

func (b *FileBlob) Name() string {
	return b.path
}
