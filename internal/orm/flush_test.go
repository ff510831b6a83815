package orm_test

import (
	"context"
	"testing"

	"ormlab/internal/orm"
	"ormlab/internal/orm/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statementsOf(rec *store.Recorder, kind store.StatementKind) []store.Statement {
	var out []store.Statement
	for _, st := range rec.Statements() {
		if st.Kind == kind {
			out = append(out, st)
		}
	}

	return out
}

func TestFlushWritesOnlyChangedColumns(t *testing.T) {
	e := newEnv(t)
	a := e.seedAuthor(t, "kim")

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		got, err := orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)
		e.rec.Reset()

		got.Name = "lee"
		require.NoError(t, s.Flush(ctx))

		updates := statementsOf(e.rec, store.KindUpdate)
		require.Len(t, updates, 1)
		assert.Equal(t, "UPDATE author SET name = ? WHERE id = ?", updates[0].SQL)
		assert.Equal(t, []any{"lee", a.ID}, updates[0].Args)

		e.rec.Reset()
		require.NoError(t, s.Flush(ctx))
		assert.Zero(t, e.rec.Len(), "a clean session flushes nothing")
		assert.Equal(t, 1, s.Stats().Updates)

		return nil
	})

	e.rec.Reset()
	e.tx(t, func(context.Context, *orm.Session) error { return nil })
	assert.Zero(t, e.rec.Count(store.KindUpdate))
}

func TestUnchangedEntitiesAreNotWritten(t *testing.T) {
	e := newEnv(t)
	a := e.seedAuthor(t, "kim", "one", "two")
	e.rec.Reset()

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		got, err := orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)
		posts, err := got.Posts.All(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 2)

		return nil
	})

	assert.Zero(t, e.rec.Count(store.KindUpdate))
	assert.Zero(t, e.rec.Count(store.KindInsert))
}

func TestPersistCascadesToReachableInstances(t *testing.T) {
	e := newEnv(t)

	a := &Author{Name: "kim"}
	p := &Post{Title: "hello", Detail: orm.RefTo(&Detail{Body: "body"})}
	orm.Link(p, &p.Author, a, postsOf)

	e.tx(t, func(_ context.Context, s *orm.Session) error {
		require.NoError(t, s.Persist(a))
		assert.Zero(t, a.ID, "keys are assigned at flush")

		return nil
	})

	inserts := statementsOf(e.rec, store.KindInsert)
	require.Len(t, inserts, 3)
	assert.Contains(t, inserts[2].SQL, "INSERT INTO post")
	assert.NotZero(t, a.ID)
	assert.NotZero(t, p.ID)

	var detailID int64
	require.NoError(t, e.db.Raw("SELECT detail_id FROM post WHERE id = ?", p.ID).Scan(&detailID).Error)
	d, err := p.Detail.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, d.ID, detailID)
}

func TestTransientReference(t *testing.T) {
	e := newEnv(t)
	err := e.engine.InTransaction(context.Background(), func(ctx context.Context, s *orm.Session) error {
		// Author has no cascade from Post, so the new author stays transient.
		p := &Post{Title: "orphaned", Author: orm.RefTo(&Author{Name: "nobody"})}
		require.NoError(t, s.Persist(p))

		return s.Flush(ctx)
	})
	require.ErrorIs(t, err, orm.ErrTransientReference)
	assert.Zero(t, e.count(t, "post"))
}

func TestUnresolvableInsertOrder(t *testing.T) {
	e := newEnv(t)

	egg := &Egg{}
	chicken := &Chicken{Egg: orm.RefTo(egg)}
	egg.Chicken = orm.RefTo(chicken)

	err := e.engine.InTransaction(context.Background(), func(_ context.Context, s *orm.Session) error {
		require.NoError(t, s.Persist(egg))

		return s.Persist(chicken)
	})
	require.ErrorIs(t, err, orm.ErrUnresolvableInsertOrder)
	assert.Zero(t, e.rec.Count(store.KindInsert))
	assert.Zero(t, e.count(t, "egg"))
}

func TestMoveBetweenParents(t *testing.T) {
	e := newEnv(t)
	from := e.seedAuthor(t, "kim", "moving")
	to := e.seedAuthor(t, "lee")

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		src, err := orm.Find[Author](ctx, s, from.ID)
		require.NoError(t, err)
		dst, err := orm.Find[Author](ctx, s, to.ID)
		require.NoError(t, err)
		posts, err := src.Posts.All(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 1)

		e.rec.Reset()
		orm.Link(posts[0], &posts[0].Author, dst, postsOf)
		assert.Zero(t, src.Posts.Len())
		assert.True(t, dst.Posts.Contains(posts[0]))

		return nil
	})

	updates := statementsOf(e.rec, store.KindUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t, "UPDATE post SET author_id = ? WHERE id = ?", updates[0].SQL)

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		dst, err := orm.Find[Author](ctx, s, to.ID)
		require.NoError(t, err)
		posts, err := dst.Posts.All(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "moving", posts[0].Title)

		return nil
	})
}

func TestOrphanRemoval(t *testing.T) {
	e := newEnv(t)
	a := e.seedAuthor(t, "kim", "keep", "drop")

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		got, err := orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)
		posts, err := got.Posts.All(ctx)
		require.NoError(t, err)
		for _, p := range posts {
			if p.Title == "drop" {
				assert.True(t, got.Posts.Remove(p))
			}
		}
		assert.Equal(t, 1, got.Posts.Len())

		return nil
	})

	var titles []string
	require.NoError(t, e.db.Raw("SELECT title FROM post").Scan(&titles).Error)
	assert.Equal(t, []string{"keep"}, titles)
}

func TestOrphanRemovalIgnoresNonMembers(t *testing.T) {
	e := newEnv(t)
	kim := e.seedAuthor(t, "kim", "kim-post")
	lee := e.seedAuthor(t, "lee", "lee-post")

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		gotKim, err := orm.Find[Author](ctx, s, kim.ID)
		require.NoError(t, err)
		gotLee, err := orm.Find[Author](ctx, s, lee.ID)
		require.NoError(t, err)

		leePosts, err := gotLee.Posts.All(ctx)
		require.NoError(t, err)
		require.Len(t, leePosts, 1)
		require.False(t, gotKim.Posts.IsLoaded())

		assert.False(t, gotKim.Posts.Remove(leePosts[0]))
		assert.True(t, s.Contains(leePosts[0]))

		return nil
	})

	var titles []string
	require.NoError(t, e.db.Raw("SELECT title FROM post ORDER BY title").Scan(&titles).Error)
	assert.Equal(t, []string{"kim-post", "lee-post"}, titles)
}

func TestOrphanRemovalOfUnloadedMember(t *testing.T) {
	e := newEnv(t)
	a := e.seedAuthor(t, "kim", "keep", "drop")

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		drop, err := orm.From[Post]("p").Where(orm.Eq(orm.P("p.Title"), "drop")).Single(ctx, s)
		require.NoError(t, err)
		got, err := orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)
		require.False(t, got.Posts.IsLoaded())

		assert.True(t, got.Posts.Remove(drop))

		posts, err := got.Posts.All(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "keep", posts[0].Title)

		return nil
	})

	var titles []string
	require.NoError(t, e.db.Raw("SELECT title FROM post").Scan(&titles).Error)
	assert.Equal(t, []string{"keep"}, titles)
}

func TestRemoveCascades(t *testing.T) {
	e := newEnv(t)
	a := &Author{Name: "kim"}
	p := &Post{Title: "hello", Detail: orm.RefTo(&Detail{Body: "body"})}
	orm.Link(p, &p.Author, a, postsOf)
	e.tx(t, func(_ context.Context, s *orm.Session) error { return s.Persist(a) })
	e.rec.Reset()

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		got, err := orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)
		require.NoError(t, s.Remove(ctx, got))
		assert.False(t, s.Contains(got))

		_, err = orm.Find[Author](ctx, s, a.ID)
		require.ErrorIs(t, err, orm.ErrEntityNotFound)

		return nil
	})

	deletes := statementsOf(e.rec, store.KindDelete)
	require.Len(t, deletes, 3)
	assert.Contains(t, deletes[0].SQL, "DELETE FROM post")
	rest := []string{deletes[1].SQL, deletes[2].SQL}
	assert.ElementsMatch(t, []string{"DELETE FROM author WHERE id = ?", "DELETE FROM detail WHERE id = ?"}, rest)
	assert.Zero(t, e.count(t, "author"))
	assert.Zero(t, e.count(t, "post"))
	assert.Zero(t, e.count(t, "detail"))
}

func TestRemoveUnmanaged(t *testing.T) {
	e := newEnv(t)

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		require.ErrorIs(t, s.Remove(ctx, &Author{ID: 1}), orm.ErrNotManaged)

		a := &Author{Name: "short lived"}
		require.NoError(t, s.Persist(a))
		require.NoError(t, s.Remove(ctx, a))

		return nil
	})

	assert.Zero(t, e.rec.Count(store.KindInsert))
	assert.Zero(t, e.count(t, "author"))
}

func TestFailedFlushRollsBack(t *testing.T) {
	e := newEnv(t)
	e.tx(t, func(_ context.Context, s *orm.Session) error {
		return s.Persist(&Label{Code: "go", Title: "Go"})
	})

	s := e.engine.NewSession()
	ctx := context.Background()
	require.NoError(t, s.Begin(ctx))
	// the new session has not loaded "go", so only the store sees the conflict
	require.NoError(t, s.Persist(&Label{Code: "rust", Title: "Rust"}))
	require.NoError(t, s.Persist(&Label{Code: "go", Title: "dup"}))

	err := s.Flush(ctx)
	require.Error(t, err)
	assert.Equal(t, orm.TxRolledBack, s.State())
	require.ErrorIs(t, s.Commit(ctx), orm.ErrNoTransaction)

	assert.Equal(t, int64(1), e.count(t, "label"))
}
