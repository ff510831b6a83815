package orm_test

import (
	"context"
	"testing"

	"ormlab/internal/orm"
	"ormlab/internal/orm/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindReturnsSameInstance(t *testing.T) {
	e := newEnv(t)
	a := e.seedAuthor(t, "kim", "first")
	e.rec.Reset()

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		first, err := orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)
		second, err := orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)
		assert.Same(t, first, second)

		listed, err := orm.From[Author]("a").List(ctx, s)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Same(t, first, listed[0])
		assert.True(t, s.Contains(first))

		return nil
	})

	assert.Equal(t, 2, e.rec.Count(store.KindSelect))
}

func TestGetReferenceDoesNotTouchStore(t *testing.T) {
	e := newEnv(t)
	a := e.seedAuthor(t, "kim")
	e.rec.Reset()

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		r1, err := orm.GetReference[Author](s, a.ID)
		require.NoError(t, err)
		r2, err := orm.GetReference[Author](s, a.ID)
		require.NoError(t, err)
		assert.Same(t, r1, r2)
		assert.False(t, r1.IsResolved())

		key, ok := r1.Key()
		assert.True(t, ok)
		assert.Equal(t, a.ID, key)
		assert.Zero(t, e.rec.Len())

		got, err := r1.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "kim", got.Name)

		found, err := orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)
		assert.Same(t, got, found)

		return nil
	})

	assert.Equal(t, 1, e.rec.Count(store.KindSelect))
}

func TestGetReferenceOfManagedInstanceIsResolved(t *testing.T) {
	e := newEnv(t)
	a := e.seedAuthor(t, "kim")

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		found, err := orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)

		r, err := orm.GetReference[Author](s, a.ID)
		require.NoError(t, err)
		assert.True(t, r.IsResolved())
		got, err := r.Get(ctx)
		require.NoError(t, err)
		assert.Same(t, found, got)

		return nil
	})
}

func TestMissingReference(t *testing.T) {
	e := newEnv(t)

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		r, err := orm.GetReference[Author](s, int64(404))
		require.NoError(t, err)
		_, err = r.Get(ctx)
		require.ErrorIs(t, err, orm.ErrEntityNotFound)

		_, err = orm.Find[Author](ctx, s, int64(404))
		require.ErrorIs(t, err, orm.ErrEntityNotFound)

		return nil
	})
}

func TestPlaceholdersDetachAfterTransaction(t *testing.T) {
	e := newEnv(t)
	a := e.seedAuthor(t, "kim", "first")

	var (
		post   *Post
		author *Author
	)
	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		posts, err := orm.From[Post]("p").List(ctx, s)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		post = posts[0]

		author, err = orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)

		return nil
	})

	detail, err := post.Detail.Get(context.Background())
	require.NoError(t, err, "a nil reference needs no session")
	assert.Nil(t, detail)

	// the author was loaded after the post, so the ref was never bound to it
	_, err = post.Author.Get(context.Background())
	require.ErrorIs(t, err, orm.ErrDetached)

	_, err = author.Posts.All(context.Background())
	require.ErrorIs(t, err, orm.ErrDetached)
}

func TestUnresolvedRefDetachesAfterTransaction(t *testing.T) {
	e := newEnv(t)
	a := e.seedAuthor(t, "kim")

	var r *orm.Ref[Author]
	e.tx(t, func(_ context.Context, s *orm.Session) error {
		var err error
		r, err = orm.GetReference[Author](s, a.ID)

		return err
	})

	_, err := r.Get(context.Background())
	require.ErrorIs(t, err, orm.ErrDetached)
}

func TestDuplicateIdentity(t *testing.T) {
	e := newEnv(t)
	e.tx(t, func(_ context.Context, s *orm.Session) error {
		return s.Persist(&Label{Code: "go", Title: "Go"})
	})

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		_, err := orm.Find[Label](ctx, s, "go")
		require.NoError(t, err)

		err = s.Persist(&Label{Code: "go", Title: "Other"})
		require.ErrorIs(t, err, orm.ErrDuplicateIdentity)

		return nil
	})
}

func TestPersistWithAssignedAutoIncrementKey(t *testing.T) {
	e := newEnv(t)

	err := e.engine.InTransaction(context.Background(), func(_ context.Context, s *orm.Session) error {
		return s.Persist(&Author{ID: 5, Name: "ghost"})
	})
	require.ErrorIs(t, err, orm.ErrDetached)
}

func TestDetachAndEvict(t *testing.T) {
	e := newEnv(t)
	a := e.seedAuthor(t, "kim")

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		first, err := orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)

		s.Detach(first)
		assert.False(t, s.Contains(first))
		first.Name = "ignored"

		second, err := orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)
		assert.NotSame(t, first, second)
		assert.Equal(t, "kim", second.Name)

		require.NoError(t, orm.Evict[Author](s, a.ID))
		assert.False(t, s.Contains(second))

		third, err := orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)
		assert.NotSame(t, second, third)

		s.Clear()
		assert.False(t, s.Contains(third))

		return nil
	})

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		got, err := orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "kim", got.Name)

		return nil
	})
}

func TestReadOnlyIsNotFlushed(t *testing.T) {
	e := newEnv(t)
	a := e.seedAuthor(t, "kim")

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		got, err := orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)
		require.NoError(t, s.SetReadOnly(got, true))
		got.Name = "changed"

		require.ErrorIs(t, s.SetReadOnly(&Author{}, true), orm.ErrNotManaged)

		return nil
	})

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		got, err := orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "kim", got.Name)

		return nil
	})
}
