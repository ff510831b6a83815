package main

import (
	"context"
	"log/slog"

	"ormlab/config"
	"ormlab/internal/delivery"
	"ormlab/internal/delivery/report"
	"ormlab/internal/domain/entity"
	logs "ormlab/internal/infra/log"
	"ormlab/internal/infra/persistence/gormstore"
	"ormlab/internal/infra/persistence/ormrepo"
	"ormlab/internal/infra/persistence/postgres"
	"ormlab/internal/infra/persistence/sqlite"
	"ormlab/internal/orm"
	"ormlab/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type dbParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

type startParams struct {
	fx.In
	fx.Lifecycle

	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectUsecase(),
		injectDelivery(),
		fx.Invoke(
			start,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		newDB,
		newEngine,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			ormrepo.NewTransactionManager,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewMemberService,
			impl.NewItemService,
			impl.NewOrderService,
			impl.NewOrderQueryService,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				report.New,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// newDB opens the store selected by database.driver.
func newDB(params dbParams) (*gorm.DB, error) {
	switch params.Config.Database.Driver {
	case config.DriverPostgres:
		return postgres.New(postgres.Params{Lifecycle: params.Lifecycle, Config: params.Config, Logger: params.Logger})
	case config.DriverSQLite:
		return sqlite.New(sqlite.Params{Lifecycle: params.Lifecycle, Config: params.Config, Logger: params.Logger})
	default:
		return nil, errors.Errorf("unsupported database driver %q", params.Config.Database.Driver)
	}
}

func newEngine(cfg *config.Config, db *gorm.DB, logger *slog.Logger) (*orm.Engine, error) {
	reg, err := entity.NewRegistry()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build mapping")
	}

	mode, err := orm.ParseFlushMode(cfg.Engine.FlushMode)
	if err != nil {
		return nil, err
	}

	return orm.NewEngine(reg, gormstore.New(db), logger,
		orm.WithBatchFetchSize(cfg.Engine.BatchFetchSize),
		orm.WithStaleDetection(cfg.Engine.DetectStale),
		orm.WithFlushMode(mode),
		orm.WithSlowStatementThreshold(cfg.Engine.SlowStatementThreshold),
	)
}

// start runs every delivery once the store is up and stops the app when all
// of them have returned.
func start(params startParams) {
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := 0
				for _, d := range params.Deliveries {
					if err := d.Serve(context.Background()); err != nil {
						params.Logger.Error("Delivery failed", slog.Any("error", err))
						code = 1

						break
					}
				}
				if err := params.Shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					params.Logger.Error("Failed to shut down", slog.Any("error", err))
				}
			}()

			return nil
		},
	})
}
