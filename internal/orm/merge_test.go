package orm_test

import (
	"context"
	"testing"

	"ormlab/internal/orm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeDetachedInstance(t *testing.T) {
	e := newEnv(t)
	a := e.seedAuthor(t, "kim", "first")

	var detached *Author
	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		var err error
		detached, err = orm.Find[Author](ctx, s, a.ID)

		return err
	})
	detached.Name = "edited offline"

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		managed, err := orm.Merge(ctx, s, detached)
		require.NoError(t, err)
		assert.NotSame(t, detached, managed)
		assert.True(t, s.Contains(managed))
		assert.False(t, s.Contains(detached))
		assert.Equal(t, "edited offline", managed.Name)

		posts, err := managed.Posts.All(ctx)
		require.NoError(t, err)
		assert.Len(t, posts, 1)

		again, err := orm.Merge(ctx, s, managed)
		require.NoError(t, err)
		assert.Same(t, managed, again)

		return nil
	})

	var name string
	require.NoError(t, e.db.Raw("SELECT name FROM author WHERE id = ?", a.ID).Scan(&name).Error)
	assert.Equal(t, "edited offline", name)
}

func TestMergeUnknownGeneratedKey(t *testing.T) {
	e := newEnv(t)

	err := e.engine.InTransaction(context.Background(), func(ctx context.Context, s *orm.Session) error {
		_, err := orm.Merge(ctx, s, &Author{ID: 99, Name: "ghost"})

		return err
	})
	require.ErrorIs(t, err, orm.ErrEntityNotFound)
}

func TestMergeAsNew(t *testing.T) {
	e := newEnv(t)

	src := &Label{Code: "go", Title: "Go"}
	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		managed, err := orm.Merge(ctx, s, src)
		require.NoError(t, err)
		assert.NotSame(t, src, managed)
		assert.Equal(t, *src, *managed)

		fresh, err := orm.Merge(ctx, s, &Author{Name: "new"})
		require.NoError(t, err)
		assert.True(t, s.Contains(fresh))

		return nil
	})

	assert.Equal(t, int64(1), e.count(t, "label"))
	assert.Equal(t, int64(1), e.count(t, "author"))
}

func TestMergeCopiesZeroValues(t *testing.T) {
	e := newEnv(t)
	e.tx(t, func(_ context.Context, s *orm.Session) error {
		return s.Persist(&Label{Code: "go", Title: "Go"})
	})

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		managed, err := orm.Merge(ctx, s, &Label{Code: "go"})
		require.NoError(t, err)
		assert.Empty(t, managed.Title)

		return nil
	})

	var title string
	require.NoError(t, e.db.Raw("SELECT title FROM label WHERE code = ?", "go").Scan(&title).Error)
	assert.Empty(t, title)
}

func TestRefreshDiscardsChanges(t *testing.T) {
	e := newEnv(t)
	a := e.seedAuthor(t, "kim")

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		got, err := orm.Find[Author](ctx, s, a.ID)
		require.NoError(t, err)
		got.Name = "scratch"

		require.NoError(t, s.Refresh(ctx, got))
		assert.Equal(t, "kim", got.Name)

		require.ErrorIs(t, s.Refresh(ctx, &Author{ID: a.ID}), orm.ErrNotManaged)

		fresh := &Author{Name: "new"}
		require.NoError(t, s.Persist(fresh))
		require.ErrorIs(t, s.Refresh(ctx, fresh), orm.ErrNotManaged)

		return nil
	})

	assert.Equal(t, int64(2), e.count(t, "author"))
}
