package orm_test

import (
	"context"
	"fmt"
	"testing"

	"ormlab/internal/orm"
	"ormlab/internal/orm/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedBlog stores kim with posts a1 (1) and a2 (2), and lee with b1 (1),
// b2 (2) and b3 (3).
func seedBlog(t *testing.T, e *env) (kim, lee *Author) {
	t.Helper()

	kim = e.seedAuthor(t, "kim", "a1", "a2")
	lee = e.seedAuthor(t, "lee", "b1", "b2", "b3")
	e.rec.Reset()

	return kim, lee
}

func TestFetchJoinWithPaginationFailsBeforeSQL(t *testing.T) {
	e := newEnv(t)
	seedBlog(t, e)

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		_, err := orm.From[Author]("a").FetchJoin("a.Posts", "p").Limit(1).List(ctx, s)
		require.ErrorIs(t, err, orm.ErrInvalidFetchPagination)

		_, err = orm.From[Author]("a").LeftFetchJoin("a.Posts", "p").Page(ctx, s, 0, 1)
		require.ErrorIs(t, err, orm.ErrInvalidFetchPagination)

		return nil
	})

	assert.Zero(t, e.rec.Len())
}

func TestFetchJoinLoadsCollectionsInOneSelect(t *testing.T) {
	e := newEnv(t)
	seedBlog(t, e)

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		authors, err := orm.From[Author]("a").
			LeftFetchJoin("a.Posts", "p").
			OrderBy(orm.Asc(orm.P("a.Name"))).
			List(ctx, s)
		require.NoError(t, err)
		require.Len(t, authors, 2, "roots are not repeated per joined row")

		assert.Equal(t, "kim", authors[0].Name)
		assert.True(t, authors[0].Posts.IsLoaded())
		assert.Equal(t, 2, authors[0].Posts.Len())
		assert.Equal(t, 3, authors[1].Posts.Len())

		posts, err := authors[1].Posts.All(ctx)
		require.NoError(t, err)
		for _, p := range posts {
			got, err := p.Author.Get(ctx)
			require.NoError(t, err)
			assert.Same(t, authors[1], got)
		}

		return nil
	})

	assert.Equal(t, 1, e.rec.Count(store.KindSelect))
}

func TestSingleFirstAndCount(t *testing.T) {
	e := newEnv(t)
	seedBlog(t, e)

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		got, err := orm.From[Author]("a").Where(orm.Eq(orm.P("a.Name"), "lee")).Single(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, "lee", got.Name)

		_, err = orm.From[Author]("a").Where(orm.Eq(orm.P("a.Name"), "nobody")).Single(ctx, s)
		require.ErrorIs(t, err, orm.ErrNoResult)

		_, err = orm.From[Author]("a").Single(ctx, s)
		require.ErrorIs(t, err, orm.ErrNonUniqueResult)

		top, err := orm.From[Post]("p").OrderBy(orm.Desc(orm.P("p.Score"))).First(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, "b3", top.Title)

		n, err := orm.From[Post]("p").
			Join("p.Author", "a").
			Where(orm.Eq(orm.P("a.Name"), "lee"), orm.Ge(orm.P("p.Score"), 2)).
			Count(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = orm.From[Post]("p").Where(orm.StartsWith(orm.P("p.Title"), "a")).Count(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		return nil
	})
}

func TestPageAndSlice(t *testing.T) {
	e := newEnv(t)
	seedBlog(t, e)

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		q := orm.From[Post]("p").OrderBy(orm.Asc(orm.P("p.Title")))

		page, err := q.Page(ctx, s, 2, 2)
		require.NoError(t, err)
		require.Len(t, page.Content, 2)
		assert.Equal(t, "b1", page.Content[0].Title)
		assert.Equal(t, int64(5), page.Total)
		assert.Equal(t, 3, page.TotalPages())
		assert.Equal(t, 1, page.Number())
		assert.True(t, page.HasNext())

		last, err := q.Slice(ctx, s, 4, 2)
		require.NoError(t, err)
		require.Len(t, last.Content, 1)
		assert.Equal(t, "b3", last.Content[0].Title)
		assert.False(t, last.HasNext)

		first, err := q.Slice(ctx, s, 0, 2)
		require.NoError(t, err)
		assert.Len(t, first.Content, 2)
		assert.True(t, first.HasNext)

		_, err = q.Page(ctx, s, 0, 0)
		require.ErrorIs(t, err, orm.ErrUnsupported)

		return nil
	})
}

func TestProjections(t *testing.T) {
	e := newEnv(t)
	seedBlog(t, e)

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		byAuthor := orm.From[Post]("p").
			Join("p.Author", "a").
			GroupBy(orm.P("a.Name")).
			OrderBy(orm.Asc(orm.P("a.Name")))

		rows, err := byAuthor.Clone().Tuples(ctx, s, orm.P("a.Name"), orm.Count(orm.P("p.ID")), orm.Sum(orm.P("p.Score")))
		require.NoError(t, err)
		assert.Equal(t, []orm.Tuple{
			{"kim", int64(2), int64(3)},
			{"lee", int64(3), int64(6)},
		}, rows)

		type authorStats struct {
			Name  string
			Posts int64
			Total int64
		}
		stats, err := orm.SelectInto[authorStats](ctx, s,
			byAuthor.Clone().Having(orm.Gt(orm.Count(orm.P("p.ID")), 2)),
			orm.P("a.Name"), orm.Count(orm.P("p.ID")), orm.Sum(orm.P("p.Score")))
		require.NoError(t, err)
		assert.Equal(t, []authorStats{{Name: "lee", Posts: 3, Total: 6}}, stats)

		labels, err := orm.From[Post]("p").
			Where(orm.In(orm.P("p.Title"), "a1", "a2", "b3")).
			OrderBy(orm.Asc(orm.P("p.Title"))).
			Tuples(ctx, s, orm.P("p.Title"), orm.Case(orm.When(orm.Ge(orm.P("p.Score"), 2), "high")).Else("low"))
		require.NoError(t, err)
		assert.Equal(t, []orm.Tuple{{"a1", "low"}, {"a2", "high"}, {"b3", "high"}}, labels)

		return nil
	})

	assert.Zero(t, e.rec.Count(store.KindInsert))
}

func TestSubqueries(t *testing.T) {
	e := newEnv(t)
	_, lee := seedBlog(t, e)

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		prolific, err := orm.From[Author]("a").
			Where(orm.Exists(orm.Sub[Post]("p2").Where(
				orm.Eq(orm.P("p2.Author"), orm.P("a")),
				orm.Ge(orm.P("p2.Score"), 3),
			))).
			List(ctx, s)
		require.NoError(t, err)
		require.Len(t, prolific, 1)
		assert.Equal(t, lee.ID, prolific[0].ID)

		posts, err := orm.From[Post]("p").
			Where(orm.In(orm.P("p.Author"), orm.Sub[Author]("a").Where(orm.Eq(orm.P("a.Name"), "kim")))).
			List(ctx, s)
		require.NoError(t, err)
		assert.Len(t, posts, 2)

		none, err := orm.From[Author]("a").
			Where(orm.Not(orm.Exists(orm.Sub[Post]("p").Where(orm.Eq(orm.P("p.Author"), orm.P("a")))))).
			List(ctx, s)
		require.NoError(t, err)
		assert.Empty(t, none)

		return nil
	})
}

func TestQueriesSeePendingChanges(t *testing.T) {
	e := newEnv(t)

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		require.NoError(t, s.Persist(&Author{Name: "fresh"}))

		n, err := orm.From[Author]("a").Count(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		return nil
	})
}

func TestCommitFlushModeDefersWrites(t *testing.T) {
	e := newEnv(t, orm.WithFlushMode(orm.FlushModeCommit))

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		require.NoError(t, s.Persist(&Author{Name: "fresh"}))

		n, err := orm.From[Author]("a").Count(ctx, s)
		require.NoError(t, err)
		assert.Zero(t, n)

		require.NoError(t, s.Flush(ctx))
		n, err = orm.From[Author]("a").Count(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		return nil
	})
}

func TestBulkUpdateLeavesManagedStateByDefault(t *testing.T) {
	e := newEnv(t)
	kim, _ := seedBlog(t, e)

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		got, err := orm.Find[Author](ctx, s, kim.ID)
		require.NoError(t, err)

		n, err := orm.UpdateAll[Author]("a").
			Set("Name", "renamed").
			Where(orm.Eq(orm.P("a.ID"), kim.ID)).
			Execute(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		again, err := orm.Find[Author](ctx, s, kim.ID)
		require.NoError(t, err)
		assert.Same(t, got, again)
		assert.Equal(t, "kim", again.Name, "bulk statements bypass managed instances")

		require.NoError(t, s.Refresh(ctx, got))
		assert.Equal(t, "renamed", got.Name)

		return nil
	})

	stmts := e.rec.Statements()
	var bulk []string
	for _, st := range stmts {
		if st.Kind == store.KindUpdate {
			bulk = append(bulk, st.SQL)
		}
	}
	assert.Equal(t, []string{"UPDATE author AS a SET name = ? WHERE a.id = ?"}, bulk)
}

func TestBulkUpdateIsVisibleOnlyAfterClear(t *testing.T) {
	e := newEnv(t)
	a := &Author{Name: "kim"}
	e.tx(t, func(_ context.Context, s *orm.Session) error {
		for _, score := range []int{10, 15, 20, 25, 30} {
			p := &Post{Title: fmt.Sprintf("p%d", score), Score: score}
			orm.Link(p, &p.Author, a, postsOf)
		}

		return s.Persist(a)
	})

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		posts, err := orm.From[Post]("p").OrderBy(orm.Asc(orm.P("p.Score"))).List(ctx, s)
		require.NoError(t, err)
		require.Len(t, posts, 5)
		top := posts[4]

		n, err := orm.UpdateAll[Post]("p").
			Set("Score", orm.Plus(orm.P("p.Score"), 20)).
			Where(orm.Ge(orm.P("p.Score"), 20)).
			Execute(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		cached, err := orm.Find[Post](ctx, s, top.ID)
		require.NoError(t, err)
		assert.Same(t, top, cached)
		assert.Equal(t, 30, cached.Score)

		s.Clear()

		fresh, err := orm.Find[Post](ctx, s, top.ID)
		require.NoError(t, err)
		assert.NotSame(t, top, fresh)
		assert.Equal(t, 50, fresh.Score)

		return nil
	})
}

func TestBulkUpdateWithStaleDetection(t *testing.T) {
	e := newEnv(t, orm.WithStaleDetection(true))
	kim, _ := seedBlog(t, e)

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		got, err := orm.Find[Author](ctx, s, kim.ID)
		require.NoError(t, err)

		n, err := orm.UpdateAll[Post]("p").
			Set("Score", orm.Plus(orm.P("p.Score"), 10)).
			Execute(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, int64(5), n)

		// authors were not touched
		_, err = orm.Find[Author](ctx, s, kim.ID)
		require.NoError(t, err)

		posts, err := got.Posts.All(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.ElementsMatch(t, []int{11, 12}, []int{posts[0].Score, posts[1].Score})

		_, err = orm.UpdateAll[Author]("a").Set("Name", "renamed").Execute(ctx, s)
		require.NoError(t, err)

		_, err = orm.Find[Author](ctx, s, kim.ID)
		require.ErrorIs(t, err, orm.ErrStaleDataAccess)

		require.NoError(t, s.Refresh(ctx, got))
		again, err := orm.Find[Author](ctx, s, kim.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", again.Name)

		return nil
	})
}

func TestBulkDelete(t *testing.T) {
	e := newEnv(t)
	seedBlog(t, e)

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		n, err := orm.DeleteAll[Post]("p").Where(orm.Lt(orm.P("p.Score"), 2)).Execute(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.Equal(t, 1, s.Stats().BulkStatements)

		return nil
	})

	assert.Equal(t, int64(3), e.count(t, "post"))
}

func TestUnknownPath(t *testing.T) {
	e := newEnv(t)

	err := e.engine.InTransaction(context.Background(), func(ctx context.Context, s *orm.Session) error {
		_, err := orm.From[Author]("a").Where(orm.Eq(orm.P("a.Nickname"), "x")).List(ctx, s)

		return err
	})
	require.ErrorIs(t, err, orm.ErrUnknownPath)
}

func TestReadOnlyLockAndNullOrdering(t *testing.T) {
	e := newEnv(t)
	a := &Author{Name: "kim"}
	withDetail := &Post{Title: "with", Detail: orm.RefTo(&Detail{Body: "body"})}
	without := &Post{Title: "without"}
	orm.Link(withDetail, &withDetail.Author, a, postsOf)
	orm.Link(without, &without.Author, a, postsOf)
	e.tx(t, func(_ context.Context, s *orm.Session) error { return s.Persist(a) })
	e.rec.Reset()

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		posts, err := orm.From[Post]("p").
			OrderBy(orm.Asc(orm.P("p.Detail")).NullsFirst()).
			Lock(store.LockPessimisticWrite).
			ReadOnly().
			List(ctx, s)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "without", posts[0].Title)

		for _, p := range posts {
			p.Title = "changed"
		}

		last, err := orm.From[Post]("p").OrderBy(orm.Asc(orm.P("p.Detail")).NullsLast()).First(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, "changed", last.Title, "the identity map returns the read-only instance")

		return nil
	})

	assert.Zero(t, e.rec.Count(store.KindUpdate))
	for _, st := range e.rec.Statements() {
		assert.NotContains(t, st.SQL, "FOR UPDATE")
	}
}
