package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

// Blob is a single named byte object, a local file or an S3 object.
// Read returns an error wrapping fs.ErrNotExist when nothing was written yet.
type Blob interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Name() string
}

// BlobStore keeps a collection as an indented JSON array inside one blob.
type BlobStore[T any] struct {
	blob Blob
}

func NewBlobStore[T any](blob Blob) *BlobStore[T] {
	return &BlobStore[T]{blob: blob}
}

func (s *BlobStore[T]) Load(ctx context.Context) ([]T, error) {
	data, err := s.blob.Read(ctx)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.blob.Name(), err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.blob.Name(), err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s *BlobStore[T]) SaveAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.blob.Name(), err)
	}
	if err := s.blob.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.blob.Name(), err)
	}
	return nil
}
