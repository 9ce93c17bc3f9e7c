package core

import "context"

// Store loads and replaces a whole collection at once.
type Store[T any] interface {
	Load(ctx context.Context) ([]T, error)
	SaveAll(ctx context.Context, items []T) error
}
