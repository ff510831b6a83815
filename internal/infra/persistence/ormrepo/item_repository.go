package ormrepo

import (
	"context"

	"ormlab/internal/domain/entity"
	"ormlab/internal/domain/repository"
	"ormlab/internal/errors"
	"ormlab/internal/orm"
)

type itemRepository struct {
	s *orm.Session
}

// NewItemRepository is the constructor for itemRepository.
func NewItemRepository(s *orm.Session) repository.ItemRepository {
	return &itemRepository{s: s}
}

// Save persists a new item, or merges a detached one. Merge copies every
// field, so a detached item with blank fields blanks the stored row.
func (repo *itemRepository) Save(ctx context.Context, item *entity.Item) (*entity.Item, error) {
	if item.ID == 0 {
		if err := repo.s.Persist(item); err != nil {
			return nil, errors.Wrap(err, "failed to save item")
		}

		return item, nil
	}

	merged, err := orm.Merge(ctx, repo.s, item)
	if err != nil {
		if errors.Is(err, orm.ErrEntityNotFound) {
			return nil, repository.ErrItemNotFound
		}

		return nil, errors.Wrap(err, "failed to merge item")
	}

	return merged, nil
}

func (repo *itemRepository) FindByID(ctx context.Context, id int64) (*entity.Item, error) {
	item, err := orm.Find[entity.Item](ctx, repo.s, id)
	if err != nil {
		if errors.Is(err, orm.ErrEntityNotFound) {
			return nil, repository.ErrItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find item by id")
	}

	return item, nil
}

func (repo *itemRepository) FindAll(ctx context.Context) ([]*entity.Item, error) {
	items, err := orm.From[entity.Item]("i").OrderBy(orm.Asc(orm.P("i"))).List(ctx, repo.s)

	return items, errors.Wrap(err, "failed to find items")
}

func (repo *itemRepository) FindBooksByAuthor(ctx context.Context, author string) ([]*entity.Item, error) {
	items, err := orm.From[entity.Item]("i").
		Where(orm.Treat("i", "Book", orm.Eq(orm.P("i.Author"), author))).
		OrderBy(orm.Asc(orm.P("i.Name"))).
		List(ctx, repo.s)

	return items, errors.Wrap(err, "failed to find books by author")
}

func (repo *itemRepository) FindLowStock(ctx context.Context, threshold int) ([]*entity.Item, error) {
	items, err := orm.From[entity.Item]("i").
		Where(orm.Lt(orm.P("i.StockQuantity"), threshold)).
		OrderBy(orm.Asc(orm.P("i.StockQuantity")), orm.Asc(orm.P("i"))).
		List(ctx, repo.s)

	return items, errors.Wrap(err, "failed to find low stock items")
}
