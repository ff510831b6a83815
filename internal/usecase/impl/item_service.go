package impl

import (
	"context"
	"log/slog"

	deliverycontext "ormlab/internal/delivery/context"
	"ormlab/internal/domain/entity"
	domainerrors "ormlab/internal/domain/errors"
	"ormlab/internal/domain/repository"
	"ormlab/internal/errors"
	"ormlab/internal/usecase"

	"go.uber.org/fx"
)

// itemService implements the ItemUsecase interface.
type itemService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// ItemServiceParams holds dependencies for ItemService, injected by Fx.
type ItemServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewItemService is the constructor for itemService.
func NewItemService(params ItemServiceParams) usecase.ItemUsecase {
	return &itemService{
		txManager: params.TxManager,
		logger:    orDiscard(params.Logger),
	}
}

// log returns the run-scoped logger if available, otherwise the service logger.
func (srv *itemService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *itemService) SaveItem(ctx context.Context, item *entity.Item) (int64, error) {
	if item == nil || item.Name == "" || item.Kind.Payload() == nil {
		return 0, domainerrors.ErrValidationFailed.WithDetails("item needs a name and a kind")
	}

	var saved *entity.Item
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		saved, err = repoFactory.NewItemRepository().Save(ctx, item)
		if errors.Is(err, repository.ErrItemNotFound) {
			return domainerrors.ErrItemNotFound.WithDetails(formatID(item.ID))
		}

		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to save item")
	}

	srv.log(ctx).Info("Item saved", slog.Int64("itemID", saved.ID), slog.String("kind", saved.KindName()))

	return saved.ID, nil
}

// UpdateItem changes the managed item in place instead of merging a detached
// copy, so fields not in the input keep their stored values.
func (srv *itemService) UpdateItem(ctx context.Context, input usecase.UpdateItemInput) error {
	if err := validateInput(input); err != nil {
		return err
	}

	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		item, err := findItem(ctx, repoFactory.NewItemRepository(), input.ItemID)
		if err != nil {
			return err
		}
		item.Name = input.Name
		item.Price = input.Price
		item.StockQuantity = input.StockQuantity

		return nil
	})
}

func (srv *itemService) FindItems(ctx context.Context) ([]*entity.Item, error) {
	var items []*entity.Item
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		items, err = repoFactory.NewItemRepository().FindAll(ctx)

		return err
	})

	return items, errors.Wrap(err, "failed to find items")
}

func (srv *itemService) FindOne(ctx context.Context, itemID int64) (*entity.Item, error) {
	var item *entity.Item
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		item, err = findItem(ctx, repoFactory.NewItemRepository(), itemID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (srv *itemService) LowStock(ctx context.Context, threshold int) ([]*entity.Item, error) {
	var items []*entity.Item
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		items, err = repoFactory.NewItemRepository().FindLowStock(ctx, threshold)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find low stock items")
	}

	for _, item := range items {
		srv.log(ctx).Warn("Low stock", slog.Int64("itemID", item.ID), slog.String("name", item.Name),
			slog.Int("stock", item.StockQuantity))
	}

	return items, nil
}

func findItem(ctx context.Context, repo repository.ItemRepository, itemID int64) (*entity.Item, error) {
	item, err := repo.FindByID(ctx, itemID)
	if errors.Is(err, repository.ErrItemNotFound) {
		return nil, domainerrors.ErrItemNotFound.WithDetails(formatID(itemID))
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}
