package orm_test

import (
	"context"
	"testing"

	"ormlab/internal/errors"
	"ormlab/internal/orm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlushMode(t *testing.T) {
	tests := []struct {
		in      string
		want    orm.FlushMode
		wantErr bool
	}{
		{in: "", want: orm.FlushModeAuto},
		{in: "auto", want: orm.FlushModeAuto},
		{in: "commit", want: orm.FlushModeCommit},
		{in: "never", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := orm.ParseFlushMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.String(), map[orm.FlushMode]string{orm.FlushModeAuto: "auto", orm.FlushModeCommit: "commit"}[got])
		})
	}
}

func TestInTransactionRollsBackOnError(t *testing.T) {
	e := newEnv(t)
	boom := errors.New("boom")

	err := e.engine.InTransaction(context.Background(), func(ctx context.Context, s *orm.Session) error {
		require.NoError(t, s.Persist(&Author{Name: "lost"}))
		require.NoError(t, s.Flush(ctx))

		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Zero(t, e.count(t, "author"))
}

func TestInTransactionRollsBackOnPanic(t *testing.T) {
	e := newEnv(t)

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = e.engine.InTransaction(context.Background(), func(ctx context.Context, s *orm.Session) error {
			require.NoError(t, s.Persist(&Author{Name: "lost"}))
			require.NoError(t, s.Flush(ctx))
			panic("kaboom")
		})
	})
	assert.Zero(t, e.count(t, "author"))
}

func TestInTransactionEndedInside(t *testing.T) {
	e := newEnv(t)

	err := e.engine.InTransaction(context.Background(), func(ctx context.Context, s *orm.Session) error {
		require.NoError(t, s.Persist(&Author{Name: "early"}))

		return s.Commit(ctx)
	})
	require.ErrorIs(t, err, orm.ErrNoTransaction)
	assert.Contains(t, err.Error(), "committed")
	assert.Equal(t, int64(1), e.count(t, "author"))
}

func TestSessionLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := e.engine.NewSession()
	assert.Equal(t, orm.TxIdle, s.State())
	assert.NotEqual(t, s.ID(), e.engine.NewSession().ID())

	require.ErrorIs(t, s.Commit(ctx), orm.ErrNoTransaction)
	require.ErrorIs(t, s.Rollback(ctx), orm.ErrNoTransaction)
	require.ErrorIs(t, s.Persist(&Author{Name: "x"}), orm.ErrNoTransaction)
	_, err := orm.Find[Author](ctx, s, int64(1))
	require.ErrorIs(t, err, orm.ErrNoTransaction)

	require.NoError(t, s.Begin(ctx))
	assert.Equal(t, orm.TxActive, s.State())
	require.ErrorIs(t, s.Begin(ctx), orm.ErrTransactionActive)

	a := &Author{Name: "kim"}
	require.NoError(t, s.Persist(a))
	require.NoError(t, s.Commit(ctx))
	assert.Equal(t, orm.TxCommitted, s.State())
	assert.False(t, s.Contains(a))

	stats := s.Stats()
	assert.Equal(t, 1, stats.Inserts)
	assert.Equal(t, 1, stats.Flushes)
	assert.Equal(t, 1, stats.Statements())

	// a finished session can start the next unit of work
	require.NoError(t, s.Begin(ctx))
	got, err := orm.Find[Author](ctx, s, a.ID)
	require.NoError(t, err)
	assert.NotSame(t, a, got)
	require.NoError(t, s.Rollback(ctx))
	assert.Equal(t, orm.TxRolledBack, s.State())
}

func TestRegistryValidation(t *testing.T) {
	t.Run("unregistered target", func(t *testing.T) {
		reg := orm.NewRegistry()
		require.NoError(t, orm.Register[Post](reg))
		_, err := orm.NewEngine(reg, nil, nil)
		require.ErrorIs(t, err, orm.ErrMapping)
	})

	t.Run("registered twice", func(t *testing.T) {
		reg := orm.NewRegistry()
		require.NoError(t, orm.Register[Label](reg))
		require.ErrorIs(t, orm.Register[Label](reg), orm.ErrMapping)
	})

	t.Run("collection without mappedBy", func(t *testing.T) {
		type shelf struct {
			ID    int64 `orm:"primaryKey;autoIncrement"`
			Books orm.Collection[Post]
		}
		require.ErrorIs(t, orm.Register[shelf](orm.NewRegistry()), orm.ErrMapping)
	})

	t.Run("no primary key", func(t *testing.T) {
		type note struct {
			Text string
		}
		require.ErrorIs(t, orm.Register[note](orm.NewRegistry()), orm.ErrMapping)
	})

	t.Run("variant without strategy", func(t *testing.T) {
		require.ErrorIs(t, orm.Register[Shape](orm.NewRegistry()), orm.ErrMapping)
	})

	t.Run("table per class with generated keys", func(t *testing.T) {
		err := orm.Register[Shape](orm.NewRegistry(), orm.WithInheritance(orm.TablePerClass,
			orm.Subtype[Circle]("C", "circle")))
		require.ErrorIs(t, err, orm.ErrMapping)
	})

	t.Run("unknown cascade", func(t *testing.T) {
		type pin struct {
			ID    int64          `orm:"primaryKey;autoIncrement"`
			Label orm.Ref[Label] `orm:"cascade:everything"`
		}
		require.ErrorIs(t, orm.Register[pin](orm.NewRegistry()), orm.ErrMapping)
	})
}

func TestMappingDefaults(t *testing.T) {
	e := newEnv(t)

	tables := make(map[string]string)
	for _, m := range e.engine.Registry().Entities() {
		tables[m.Name] = m.Table
	}
	assert.Equal(t, "author", tables["Author"])
	assert.Equal(t, "post", tables["Post"])
	assert.Equal(t, "vehicle", tables["Vehicle"])
	assert.Len(t, tables, 10)

	for _, m := range e.engine.Registry().Entities() {
		switch m.Name {
		case "Post":
			a, ok := m.Assoc("Author")
			require.True(t, ok)
			assert.Equal(t, "author_id", a.Column)
		case "Shape":
			require.NotNil(t, m.Hierarchy)
			assert.Equal(t, "dtype", m.Hierarchy.Column)
			sub, ok := m.Hierarchy.Subtype("Circle")
			require.True(t, ok)
			assert.Equal(t, "circle", sub.Table)
		case "Vehicle":
			assert.Equal(t, "kind", m.Hierarchy.Column)
		}
	}
}

func TestEmbeddedValues(t *testing.T) {
	e := newEnv(t)
	pl := &Place{Name: "office", Location: Coord{Lat: 37.5, Lng: 127}}
	e.tx(t, func(_ context.Context, s *orm.Session) error { return s.Persist(pl) })

	var lat float64
	require.NoError(t, e.db.Raw("SELECT loc_lat FROM place WHERE id = ?", pl.ID).Scan(&lat).Error)
	assert.InDelta(t, 37.5, lat, 0.0001)

	e.tx(t, func(ctx context.Context, s *orm.Session) error {
		got, err := orm.From[Place]("pl").Where(orm.Gt(orm.P("pl.Location.Lng"), 100)).Single(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, pl.Location, got.Location)

		type placeView struct {
			Name     string
			Location Coord
		}
		views, err := orm.SelectInto[placeView](ctx, s, orm.From[Place]("pl"), orm.P("pl.Name"), orm.P("pl.Location"))
		require.NoError(t, err)
		assert.Equal(t, []placeView{{Name: "office", Location: pl.Location}}, views)

		got.Location.Lat = 0

		return nil
	})

	require.NoError(t, e.db.Raw("SELECT loc_lat FROM place WHERE id = ?", pl.ID).Scan(&lat).Error)
	assert.Zero(t, lat)
}
