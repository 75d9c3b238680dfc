package domain

import (
	"context"
)

// MovieRepo defines the local cache store. Paging is 0-indexed offset/limit
// with an order that is stable across calls.
type MovieRepo interface {
	InsertOrReplace(ctx context.Context, movie Movie) error
	ByID(ctx context.Context, id string) ([]Movie, error)
	BySubstring(ctx context.Context, query string, offset, limit int) ([]Movie, error)
	All(ctx context.Context, offset, limit int) ([]Movie, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}

// CatalogService defines the remote movie catalog.
type CatalogService interface {
	// Search returns one 1-indexed page of results. No results is an empty
	// slice, not an error.
	Search(ctx context.Context, keyword string, page int) ([]Movie, error)
	ByID(ctx context.Context, id string) (*Movie, error)
}

// SnapshotRepository reads and writes cache snapshot files.
type SnapshotRepository interface {
	Get(ctx context.Context, path string) ([]Movie, error)
	Store(ctx context.Context, path string, movies []Movie) error
}
