package repository

import (
	"context"
	"errors"

	"ormlab/internal/domain/entity"
)

// ErrItemNotFound is returned when an item is not found.
var ErrItemNotFound = errors.New("item not found")

// ItemRepository defines the operations for item persistence.
type ItemRepository interface {
	// Save persists a new item, or copies the state of a detached item with
	// an ID onto the managed instance and returns that instance.
	Save(ctx context.Context, item *entity.Item) (*entity.Item, error)

	// FindByID retrieves a single item by ID.
	FindByID(ctx context.Context, id int64) (*entity.Item, error)

	// FindAll returns all items ordered by ID.
	FindAll(ctx context.Context) ([]*entity.Item, error)

	// FindBooksByAuthor returns the books written by author.
	FindBooksByAuthor(ctx context.Context, author string) ([]*entity.Item, error)

	// FindLowStock returns items whose stock is below threshold, lowest first.
	FindLowStock(ctx context.Context, threshold int) ([]*entity.Item, error)
}
