package ormrepo

import (
	"context"
	"testing"

	"ormlab/internal/domain/entity"
	domainerrors "ormlab/internal/domain/errors"
	"ormlab/internal/domain/repository"
	"ormlab/internal/orm"
	"ormlab/internal/orm/store"
	"ormlab/internal/testutil/shopdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shopFixture struct {
	memberA, memberB int64
	orderA, orderB   int64
	items            map[string]int64
}

// seedShop stores two members with one order of two books each.
func seedShop(t *testing.T, tm repository.TransactionManager) shopFixture {
	t.Helper()

	fx := shopFixture{items: make(map[string]int64)}
	err := tm.Execute(context.Background(), func(f repository.RepositoryFactory) error {
		ctx := context.Background()
		members, items, orders := f.NewMemberRepository(), f.NewItemRepository(), f.NewOrderRepository()

		userA := entity.NewMember("userA", 20, entity.NewAddress("Seoul", "1", "1111"))
		userB := entity.NewMember("userB", 30, entity.NewAddress("Busan", "2", "2222"))
		require.NoError(t, members.Save(ctx, userA))
		require.NoError(t, members.Save(ctx, userB))

		books := []*entity.Item{
			entity.NewBook("JPA1 BOOK", 10000, 100, "kim", "1"),
			entity.NewBook("JPA2 BOOK", 20000, 100, "kim", "2"),
			entity.NewBook("SPRING1 BOOK", 20000, 200, "lee", "3"),
			entity.NewBook("SPRING2 BOOK", 40000, 300, "lee", "4"),
		}
		for _, b := range books {
			_, err := items.Save(ctx, b)
			require.NoError(t, err)
		}

		newOrder := func(m *entity.Member, lines ...[2]int) *entity.Order {
			var ois []*entity.OrderItem
			for _, l := range lines {
				b := books[l[0]]
				oi, err := entity.NewOrderItem(b, b.Price, l[1])
				require.NoError(t, err)
				ois = append(ois, oi)
			}

			return entity.CreateOrder(m, entity.NewDelivery(m.Address), ois...)
		}
		a := newOrder(userA, [2]int{0, 1}, [2]int{1, 2})
		b := newOrder(userB, [2]int{2, 3}, [2]int{3, 4})
		require.NoError(t, orders.Save(ctx, a))
		require.NoError(t, orders.Save(ctx, b))

		// keys are assigned by the flush in front of this query
		all, err := members.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)

		fx.memberA, fx.memberB = userA.ID, userB.ID
		fx.orderA, fx.orderB = a.ID, b.ID
		for _, b := range books {
			fx.items[b.Name] = b.ID
		}

		return nil
	})
	require.NoError(t, err)

	return fx
}

func TestMemberRepository(t *testing.T) {
	db := shopdb.Open(t)
	tm := NewTransactionManager(db.Engine)
	ctx := context.Background()

	var teamA int64
	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		teams, members := f.NewTeamRepository(), f.NewMemberRepository()
		a, b := entity.NewTeam("teamA"), entity.NewTeam("teamB")
		require.NoError(t, teams.Save(ctx, a))
		require.NoError(t, teams.Save(ctx, b))

		for i, age := range []int{10, 19, 20, 21, 40} {
			m := entity.NewMember("member"+string(rune('1'+i)), age, entity.Address{})
			if i%2 == 0 {
				m.ChangeTeam(a)
			} else {
				m.ChangeTeam(b)
			}
			require.NoError(t, members.Save(ctx, m))
		}
		require.NoError(t, teams.Save(ctx, entity.NewTeam("empty")))

		all, err := members.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 5)
		teamA = a.ID

		return nil
	})
	require.NoError(t, err)

	t.Run("find", func(t *testing.T) {
		err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			members := f.NewMemberRepository()

			found, err := members.FindByName(ctx, "member3")
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, 20, found[0].Age)

			again, err := members.FindByID(ctx, found[0].ID)
			require.NoError(t, err)
			assert.Same(t, found[0], again)

			_, err = members.FindByID(ctx, 9999)
			require.ErrorIs(t, err, repository.ErrMemberNotFound)

			return nil
		})
		require.NoError(t, err)
	})

	t.Run("page", func(t *testing.T) {
		err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			members := f.NewMemberRepository()
			for _, name := range []string{"p1", "p2", "p3", "p4", "p5"} {
				require.NoError(t, members.Save(ctx, entity.NewMember(name, 55, entity.Address{})))
			}

			page, err := members.FindPageByAge(ctx, 55, 0, 3)
			require.NoError(t, err)
			assert.EqualValues(t, 5, page.Total)
			assert.Equal(t, 2, page.TotalPages())
			assert.True(t, page.HasNext())
			require.Len(t, page.Content, 3)
			assert.Equal(t, "p5", page.Content[0].Name)

			return errRollback
		})
		require.ErrorIs(t, err, errRollback)
	})

	t.Run("fetch team in one select", func(t *testing.T) {
		err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			db.Recorder.Reset()
			members, err := f.NewMemberRepository().FindAllWithTeam(ctx)
			require.NoError(t, err)
			for _, m := range members {
				assert.True(t, m.Team.IsResolved())
				team, err := m.Team.Get(ctx)
				require.NoError(t, err)
				assert.NotNil(t, team)
			}
			assert.Equal(t, 1, db.Recorder.Count(store.KindSelect))

			return nil
		})
		require.NoError(t, err)
	})

	t.Run("team members in one select", func(t *testing.T) {
		err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			db.Recorder.Reset()
			teams, err := f.NewTeamRepository().FindAllWithMembers(ctx)
			require.NoError(t, err)
			require.Len(t, teams, 3)
			assert.Equal(t, teamA, teams[0].ID)
			assert.True(t, teams[0].Members.IsLoaded())
			assert.Equal(t, 3, teams[0].Members.Len())
			assert.Equal(t, 0, teams[2].Members.Len())
			assert.Equal(t, 1, db.Recorder.Count(store.KindSelect))

			return nil
		})
		require.NoError(t, err)
	})

	t.Run("count by team", func(t *testing.T) {
		err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			counts, err := f.NewMemberRepository().CountByTeam(ctx)
			require.NoError(t, err)
			require.Len(t, counts, 2)
			assert.Equal(t, "teamA", counts[0].TeamName)
			assert.EqualValues(t, 3, counts[0].Members)
			assert.InDelta(t, (10.0+20+40)/3, counts[0].AvgAge, 0.001)
			assert.Equal(t, "teamB", counts[1].TeamName)
			assert.EqualValues(t, 2, counts[1].Members)

			return nil
		})
		require.NoError(t, err)
	})

	t.Run("bulk age plus", func(t *testing.T) {
		err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			members := f.NewMemberRepository()
			found, err := members.FindByName(ctx, "member5")
			require.NoError(t, err)
			require.Len(t, found, 1)

			n, err := members.BulkAgePlus(ctx, 20)
			require.NoError(t, err)
			assert.EqualValues(t, 3, n)
			// the managed instance does not see the bulk statement
			assert.Equal(t, 40, found[0].Age)

			return errRollback
		})
		require.ErrorIs(t, err, errRollback)
	})

	t.Run("duplicate name", func(t *testing.T) {
		err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			return f.NewMemberRepository().Save(ctx, entity.NewMember("member1", 1, entity.Address{}))
		})
		require.ErrorIs(t, err, domainerrors.ErrConflict)
		assert.Equal(t, domainerrors.KindConflict, domainerrors.KindOf(err))
		assert.EqualValues(t, 5, db.CountRows(t, "member"))
	})

	t.Run("delete", func(t *testing.T) {
		err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			members := f.NewMemberRepository()
			found, err := members.FindByName(ctx, "member1")
			require.NoError(t, err)
			require.Len(t, found, 1)

			return members.Delete(ctx, found[0])
		})
		require.NoError(t, err)
		assert.EqualValues(t, 4, db.CountRows(t, "member"))
	})
}

func TestItemRepository(t *testing.T) {
	db := shopdb.Open(t)
	tm := NewTransactionManager(db.Engine)
	ctx := context.Background()
	fx := seedShop(t, tm)

	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		items := f.NewItemRepository()

		all, err := items.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		for _, it := range all {
			assert.Equal(t, "Book", it.KindName())
		}

		books, err := items.FindBooksByAuthor(ctx, "lee")
		require.NoError(t, err)
		require.Len(t, books, 2)
		book, err := orm.Narrow[entity.Book](&books[0].Kind).Get()
		require.NoError(t, err)
		assert.Equal(t, "3", book.Isbn)

		low, err := items.FindLowStock(ctx, 150)
		require.NoError(t, err)
		require.Len(t, low, 2)
		assert.Equal(t, "JPA2 BOOK", low[0].Name)
		assert.Equal(t, 98, low[0].StockQuantity)

		_, err = items.FindByID(ctx, 9999)
		require.ErrorIs(t, err, repository.ErrItemNotFound)

		return nil
	})
	require.NoError(t, err)

	t.Run("merge detached item", func(t *testing.T) {
		detached := entity.NewBook("JPA1 BOOK (2nd)", 12000, 50, "kim", "1-2")
		detached.ID = fx.items["JPA1 BOOK"]

		err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			merged, err := f.NewItemRepository().Save(ctx, detached)
			require.NoError(t, err)
			assert.NotSame(t, detached, merged)
			assert.Equal(t, 12000, merged.Price)

			return nil
		})
		require.NoError(t, err)

		err = tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			item, err := f.NewItemRepository().FindByID(ctx, fx.items["JPA1 BOOK"])
			require.NoError(t, err)
			assert.Equal(t, "JPA1 BOOK (2nd)", item.Name)
			assert.Equal(t, 50, item.StockQuantity)
			book, err := orm.Narrow[entity.Book](&item.Kind).Get()
			require.NoError(t, err)
			assert.Equal(t, "1-2", book.Isbn)

			return nil
		})
		require.NoError(t, err)
	})

	t.Run("merge unknown item", func(t *testing.T) {
		detached := entity.NewAlbum("ghost", 1, 1, "nobody", "")
		detached.ID = 9999

		err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			_, err := f.NewItemRepository().Save(ctx, detached)

			return err
		})
		require.ErrorIs(t, err, repository.ErrItemNotFound)
	})
}

func TestOrderRepository(t *testing.T) {
	db := shopdb.Open(t)
	tm := NewTransactionManager(db.Engine)
	ctx := context.Background()
	fx := seedShop(t, tm)

	assert.EqualValues(t, 2, db.CountRows(t, "orders"))
	assert.EqualValues(t, 4, db.CountRows(t, "order_item"))
	assert.EqualValues(t, 2, db.CountRows(t, "delivery"))

	t.Run("search", func(t *testing.T) {
		tests := []struct {
			name   string
			search repository.OrderSearch
			want   []int64
		}{
			{name: "all", want: []int64{fx.orderB, fx.orderA}},
			{name: "by member", search: repository.OrderSearch{MemberName: "A"}, want: []int64{fx.orderA}},
			{name: "by status", search: repository.OrderSearch{OrderStatus: entity.OrderStatusCancel}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
					orders, err := f.NewOrderRepository().FindAll(ctx, tt.search)
					require.NoError(t, err)
					var ids []int64
					for _, o := range orders {
						ids = append(ids, o.ID)
					}
					assert.Equal(t, tt.want, ids)

					return nil
				})
				require.NoError(t, err)
			})
		}
	})

	t.Run("member and delivery window", func(t *testing.T) {
		err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			db.Recorder.Reset()
			orders, err := f.NewOrderRepository().FindAllWithMemberDelivery(ctx, 1, 10)
			require.NoError(t, err)
			require.Len(t, orders, 1)

			member, err := orders[0].Member.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, "userB", member.Name)
			delivery, err := orders[0].Delivery.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, "Busan", delivery.Address.City)
			assert.Equal(t, 1, db.Recorder.Len())

			return nil
		})
		require.NoError(t, err)
	})

	t.Run("orders with items", func(t *testing.T) {
		err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			db.Recorder.Reset()
			orders, err := f.NewOrderRepository().FindAllWithItems(ctx)
			require.NoError(t, err)
			require.Len(t, orders, 2)

			total, err := orders[0].TotalPrice(ctx)
			require.NoError(t, err)
			assert.Equal(t, 10000+2*20000, total)
			for _, oi := range orders[1].OrderItems.Items() {
				assert.True(t, oi.Item.IsResolved())
			}
			assert.Equal(t, 1, db.Recorder.Len())

			return nil
		})
		require.NoError(t, err)
	})

	t.Run("cancel under lock", func(t *testing.T) {
		err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			order, err := f.NewOrderRepository().FindByIDForUpdate(ctx, fx.orderA)
			require.NoError(t, err)

			return order.Cancel(ctx)
		})
		require.NoError(t, err)

		err = tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			order, err := f.NewOrderRepository().FindByID(ctx, fx.orderA)
			require.NoError(t, err)
			assert.Equal(t, entity.OrderStatusCancel, order.Status)

			item, err := f.NewItemRepository().FindByID(ctx, fx.items["JPA2 BOOK"])
			require.NoError(t, err)
			assert.Equal(t, 100, item.StockQuantity)

			_, err = f.NewOrderRepository().FindByIDForUpdate(ctx, 9999)
			require.ErrorIs(t, err, repository.ErrOrderNotFound)

			return nil
		})
		require.NoError(t, err)
	})
}

func TestOrderQueryRepository(t *testing.T) {
	db := shopdb.Open(t)
	tm := NewTransactionManager(db.Engine)
	ctx := context.Background()
	fx := seedShop(t, tm)

	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		q := f.NewOrderQueryRepository()

		db.Recorder.Reset()
		dtos, err := q.FindOrderQueryDtos(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, db.Recorder.Count(store.KindSelect))
		require.Len(t, dtos, 2)
		assert.Equal(t, fx.orderA, dtos[0].OrderID)
		assert.Equal(t, "userA", dtos[0].Name)
		assert.Equal(t, entity.OrderStatusOrder, dtos[0].OrderStatus)
		assert.Equal(t, "Seoul", dtos[0].Address.City)
		assert.False(t, dtos[0].OrderDate.IsZero())
		require.Len(t, dtos[0].OrderItems, 2)
		assert.Equal(t, repository.OrderItemQueryDto{OrderID: fx.orderA, ItemName: "JPA2 BOOK", OrderPrice: 20000, Count: 2},
			dtos[0].OrderItems[1])

		flat, err := q.FindOrderFlatDtos(ctx)
		require.NoError(t, err)
		require.Len(t, flat, 4)
		assert.Equal(t, "userB", flat[3].Name)
		assert.Equal(t, "SPRING2 BOOK", flat[3].ItemName)
		assert.Equal(t, 4, flat[3].Count)
		assert.Equal(t, "2222", flat[3].Address.Zipcode)

		summary, err := q.SummarizeByStatus(ctx)
		require.NoError(t, err)
		require.Len(t, summary, 1)
		assert.Equal(t, repository.OrderStatusSummary{
			Status:  entity.OrderStatusOrder,
			Orders:  2,
			Revenue: 10000 + 2*20000 + 3*20000 + 4*40000,
		}, summary[0])

		return nil
	})
	require.NoError(t, err)
}
