package author

import (
	"context"
)

// Repository defines the contract for author storage.
type Repository interface {
	Create(ctx context.Context, a *Author) error
	GetByID(ctx context.Context, id int64) (Author, error)
	List(ctx context.Context) ([]Author, error)
}
