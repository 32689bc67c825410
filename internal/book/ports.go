package book

import (
	"context"

	"bookalchemy/internal/cover"
)

// Repository defines the contract for book data storage.
type Repository interface {
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id int64) (Book, error)
	List(ctx context.Context, q Query) ([]Book, int, error)
	// Delete removes the book and, when it was the last one, its author.
	Delete(ctx context.Context, id int64) (DeleteResult, error)
}

// Catalog confirms that an ISBN is known to the external catalog.
type Catalog interface {
	Exists(ctx context.Context, isbn string) error
}

// CoverResolver annotates an ISBN with cover information.
type CoverResolver interface {
	Resolve(ctx context.Context, identifier string, confirmRemotely bool) cover.Result
}
