// Package report seeds the shop and logs what each read path returns.
package report

import (
	"context"
	"log/slog"
	"time"

	"ormlab/config"
	"ormlab/internal/delivery"
	deliverycontext "ormlab/internal/delivery/context"
	"ormlab/internal/domain/entity"
	"ormlab/internal/domain/repository"
	"ormlab/internal/errors"
	"ormlab/internal/infra/persistence/schema"
	"ormlab/internal/usecase"
	"ormlab/internal/util"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

type runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *gorm.DB
	members usecase.MemberUsecase
	items   usecase.ItemUsecase
	orders  usecase.OrderUsecase
	queries usecase.OrderQueryUsecase
}

// Params holds dependencies for the report runner.
type Params struct {
	fx.In

	Config  *config.Config
	Logger  *slog.Logger
	DB      *gorm.DB
	Members usecase.MemberUsecase
	Items   usecase.ItemUsecase
	Orders  usecase.OrderUsecase
	Queries usecase.OrderQueryUsecase
}

// New creates the report runner.
func New(params Params) delivery.Delivery {
	return &runner{
		cfg:     params.Config,
		logger:  params.Logger,
		db:      params.DB,
		members: params.Members,
		items:   params.Items,
		orders:  params.Orders,
		queries: params.Queries,
	}
}

// Serve applies the schema and seeds the shop when configured, then runs the
// reports once.
func (r *runner) Serve(ctx context.Context) error {
	started := time.Now()
	ctx, logger := deliverycontext.Scope(ctx, r.logger)

	if r.cfg.Database.ApplySchema {
		if err := schema.Apply(ctx, r.db); err != nil {
			return errors.Wrap(err, "failed to apply schema")
		}
	}
	if r.cfg.Shop.Seed {
		if err := r.seed(ctx); err != nil {
			return errors.Wrap(err, "failed to seed shop")
		}
	}

	for _, step := range []struct {
		name string
		run  func(context.Context) error
	}{
		{"orders", r.reportOrders},
		{"order pages", r.reportPages},
		{"order dtos", r.reportDtos},
		{"status summary", r.reportSummary},
		{"teams", r.reportTeams},
		{"low stock", r.reportLowStock},
	} {
		if err := step.run(ctx); err != nil {
			return errors.Wrapf(err, "report %s", step.name)
		}
	}

	logger.Info("Reports finished", slog.String("elapsed", util.FormatDuration(time.Since(started))))

	return nil
}

// seed stores two members in one team and has each order two books.
func (r *runner) seed(ctx context.Context) error {
	teamID, err := r.members.CreateTeam(ctx, "teamA")
	if err != nil {
		return err
	}

	memberIDs := make(map[string]int64)
	for _, in := range []usecase.JoinMemberInput{
		{Name: "userA", Age: 20, City: "Seoul", Street: "1", Zipcode: "1111"},
		{Name: "userB", Age: 30, City: "Busan", Street: "2", Zipcode: "2222"},
	} {
		id, err := r.members.Join(ctx, in)
		if err != nil {
			return err
		}
		if err := r.members.ChangeTeam(ctx, id, teamID); err != nil {
			return err
		}
		memberIDs[in.Name] = id
	}

	itemIDs := make(map[string]int64)
	for _, item := range []*entity.Item{
		entity.NewBook("JPA1 BOOK", 10000, 100, "kim", "1"),
		entity.NewBook("JPA2 BOOK", 20000, 100, "kim", "2"),
		entity.NewBook("SPRING1 BOOK", 20000, 200, "lee", "3"),
		entity.NewBook("SPRING2 BOOK", 40000, 300, "lee", "4"),
		entity.NewAlbum("ALBUM", 15000, 5, "artist", ""),
	} {
		id, err := r.items.SaveItem(ctx, item)
		if err != nil {
			return err
		}
		itemIDs[item.Name] = id
	}

	for _, o := range []struct {
		member, item string
		count        int
	}{
		{"userA", "JPA1 BOOK", 1},
		{"userA", "JPA2 BOOK", 2},
		{"userB", "SPRING1 BOOK", 3},
		{"userB", "SPRING2 BOOK", 4},
	} {
		if _, err := r.orders.Order(ctx, usecase.PlaceOrderInput{
			MemberID: memberIDs[o.member],
			ItemID:   itemIDs[o.item],
			Count:    o.count,
		}); err != nil {
			return err
		}
	}

	r.log(ctx).Info("Shop seeded", slog.Int("members", len(memberIDs)), slog.Int("items", len(itemIDs)))

	return nil
}

func (r *runner) reportOrders(ctx context.Context) error {
	orders, err := r.orders.FindOrders(ctx, repository.OrderSearch{})
	if err != nil {
		return err
	}
	for _, o := range orders {
		r.log(ctx).Info("Order",
			slog.Int64("orderID", o.OrderID),
			slog.String("member", o.MemberName),
			slog.String("status", string(o.Status)),
			slog.String("total", util.FormatPrice(int64(o.TotalPrice))))
	}

	return nil
}

func (r *runner) reportPages(ctx context.Context) error {
	size := r.cfg.Shop.PageSize
	if size <= 0 {
		views, err := r.queries.OrdersWithFetchJoin(ctx)
		if err != nil {
			return err
		}
		r.logViews(ctx, 0, views)

		return nil
	}

	for page := 0; ; page++ {
		views, err := r.queries.OrdersPaged(ctx, page*size, size)
		if err != nil {
			return err
		}
		if len(views) == 0 {
			return nil
		}
		r.logViews(ctx, page, views)
	}
}

func (r *runner) logViews(ctx context.Context, page int, views []usecase.OrderView) {
	for _, v := range views {
		names := make([]string, len(v.Items))
		for i, item := range v.Items {
			names[i] = item.ItemName
		}
		r.log(ctx).Info("Order view",
			slog.Int("page", page),
			slog.Int64("orderID", v.OrderID),
			slog.String("member", v.Name),
			slog.String("city", v.Address.City),
			slog.Any("items", names))
	}
}

func (r *runner) reportDtos(ctx context.Context) error {
	dtos, err := r.queries.OrderDtos(ctx)
	if err != nil {
		return err
	}
	for _, d := range dtos {
		r.log(ctx).Info("Order dto",
			slog.Int64("orderID", d.OrderID),
			slog.String("member", d.Name),
			slog.Int("lines", len(d.OrderItems)))
	}

	return nil
}

func (r *runner) reportSummary(ctx context.Context) error {
	summary, err := r.queries.StatusSummary(ctx)
	if err != nil {
		return err
	}
	for _, s := range summary {
		r.log(ctx).Info("Order status",
			slog.String("status", string(s.Status)),
			slog.Int64("orders", s.Orders),
			slog.String("revenue", util.FormatPrice(s.Revenue)))
	}

	return nil
}

func (r *runner) reportTeams(ctx context.Context) error {
	counts, err := r.members.TeamReport(ctx)
	if err != nil {
		return err
	}
	for _, c := range counts {
		r.log(ctx).Info("Team",
			slog.String("team", c.TeamName),
			slog.Int64("members", c.Members),
			slog.Float64("avgAge", c.AvgAge))
	}

	return nil
}

func (r *runner) reportLowStock(ctx context.Context) error {
	items, err := r.items.LowStock(ctx, r.cfg.Shop.StockAlert)
	if err != nil {
		return err
	}
	r.log(ctx).Info("Low stock items", slog.Int("count", len(items)))

	return nil
}

func (r *runner) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, r.logger)
}
