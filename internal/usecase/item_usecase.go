package usecase

import (
	"context"

	"ormlab/internal/domain/entity"
)

// UpdateItemInput defines the fields of an item that can be changed.
type UpdateItemInput struct {
	ItemID        int64  `validate:"required,gt=0"`
	Name          string `validate:"required,max=255"`
	Price         int    `validate:"gte=0"`
	StockQuantity int    `validate:"gte=0"`
}

// ItemUsecase defines the interface for catalogue operations.
type ItemUsecase interface {
	// SaveItem stores a new item, or merges a detached one, and returns its ID.
	SaveItem(ctx context.Context, item *entity.Item) (int64, error)

	// UpdateItem loads the managed item and changes it in place.
	UpdateItem(ctx context.Context, input UpdateItemInput) error

	// FindItems returns all items.
	FindItems(ctx context.Context) ([]*entity.Item, error)

	// FindOne returns one item.
	FindOne(ctx context.Context, itemID int64) (*entity.Item, error)

	// LowStock lists items with fewer than threshold units in stock.
	LowStock(ctx context.Context, threshold int) ([]*entity.Item, error)
}
