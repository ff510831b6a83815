package orm_test

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"ormlab/internal/infra/persistence/gormstore"
	"ormlab/internal/infra/persistence/sqlite"
	"ormlab/internal/orm"
	"ormlab/internal/orm/store"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type Author struct {
	ID    int64 `orm:"primaryKey;autoIncrement"`
	Name  string
	Posts orm.Collection[Post] `orm:"mappedBy:Author;cascade:all;orphanRemoval"`
}

type Post struct {
	ID     int64 `orm:"primaryKey;autoIncrement"`
	Title  string
	Score  int
	Author orm.Ref[Author] `orm:"notNull"`
	Detail orm.Ref[Detail] `orm:"cascade:all"`
}

type Detail struct {
	ID   int64 `orm:"primaryKey;autoIncrement"`
	Body string
	Post orm.Ref[Post] `orm:"mappedBy:Detail"`
}

type Label struct {
	Code  string `orm:"primaryKey"`
	Title string
}

type Coord struct {
	Lat float64
	Lng float64
}

type Place struct {
	ID       int64 `orm:"primaryKey;autoIncrement"`
	Name     string
	Location Coord `orm:"embeddedPrefix:loc_"`
}

type Vehicle struct {
	ID   int64 `orm:"primaryKey;autoIncrement"`
	Name string
	Kind orm.Variant `orm:"discriminator:kind"`
}

type Car struct{ Doors int }

type Truck struct{ Payload int }

type Shape struct {
	ID   int64 `orm:"primaryKey;autoIncrement"`
	Name string
	Kind orm.Variant
}

type Circle struct{ Radius int }

type Square struct{ Side int }

type Account struct {
	ID    int64 `orm:"primaryKey"`
	Owner string
	Kind  orm.Variant
}

type Savings struct{ Rate int }

type Checking struct{ Overdraft int }

type Egg struct {
	ID      int64            `orm:"primaryKey;autoIncrement"`
	Chicken orm.Ref[Chicken] `orm:"notNull"`
}

type Chicken struct {
	ID  int64        `orm:"primaryKey;autoIncrement"`
	Egg orm.Ref[Egg] `orm:"notNull"`
}

func postsOf(a *Author) *orm.Collection[Post] { return &a.Posts }

func postOf(d *Detail) *orm.Ref[Post] { return &d.Post }

const testDDL = `
CREATE TABLE author (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL);
CREATE TABLE detail (id INTEGER PRIMARY KEY AUTOINCREMENT, body TEXT NOT NULL);
CREATE TABLE post (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	score INTEGER NOT NULL,
	author_id INTEGER NOT NULL REFERENCES author (id),
	detail_id INTEGER REFERENCES detail (id)
);
CREATE TABLE label (code TEXT PRIMARY KEY, title TEXT NOT NULL);
CREATE TABLE place (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL, loc_lat REAL, loc_lng REAL);
CREATE TABLE vehicle (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL, kind TEXT NOT NULL, doors INTEGER, payload INTEGER);
CREATE TABLE shape (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL, dtype TEXT NOT NULL);
CREATE TABLE circle (id INTEGER PRIMARY KEY REFERENCES shape (id), radius INTEGER NOT NULL);
CREATE TABLE square (id INTEGER PRIMARY KEY REFERENCES shape (id), side INTEGER NOT NULL);
CREATE TABLE savings (id INTEGER PRIMARY KEY, owner TEXT NOT NULL, rate INTEGER NOT NULL);
CREATE TABLE checking (id INTEGER PRIMARY KEY, owner TEXT NOT NULL, overdraft INTEGER NOT NULL);
CREATE TABLE egg (id INTEGER PRIMARY KEY AUTOINCREMENT, chicken_id INTEGER NOT NULL);
CREATE TABLE chicken (id INTEGER PRIMARY KEY AUTOINCREMENT, egg_id INTEGER NOT NULL)
`

func registerModel(reg *orm.Registry) error {
	for _, register := range []func() error{
		func() error { return orm.Register[Author](reg) },
		func() error { return orm.Register[Post](reg) },
		func() error { return orm.Register[Detail](reg) },
		func() error { return orm.Register[Label](reg) },
		func() error { return orm.Register[Place](reg) },
		func() error {
			return orm.Register[Vehicle](reg, orm.WithInheritance(orm.SingleTable,
				orm.Subtype[Car]("C", ""), orm.Subtype[Truck]("T", "")))
		},
		func() error {
			return orm.Register[Shape](reg, orm.WithInheritance(orm.Joined,
				orm.Subtype[Circle]("CIRCLE", "circle"), orm.Subtype[Square]("SQUARE", "square")))
		},
		func() error {
			return orm.Register[Account](reg, orm.WithInheritance(orm.TablePerClass,
				orm.Subtype[Savings]("S", "savings"), orm.Subtype[Checking]("K", "checking")))
		},
		func() error { return orm.Register[Egg](reg) },
		func() error { return orm.Register[Chicken](reg) },
	} {
		if err := register(); err != nil {
			return err
		}
	}

	return nil
}

var dbSeq atomic.Int64

type env struct {
	db     *gorm.DB
	rec    *store.Recorder
	engine *orm.Engine
}

// newEnv opens a private in-memory database with the test model.
func newEnv(t *testing.T, opts ...orm.Option) *env {
	t.Helper()

	dsn := fmt.Sprintf("file:orm_test_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)&_time_format=sqlite", dbSeq.Add(1))
	db, err := sqlite.Open(dsn, nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range strings.Split(testDDL, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			require.NoError(t, db.Exec(stmt).Error)
		}
	}

	reg := orm.NewRegistry()
	require.NoError(t, registerModel(reg))

	rec := store.NewRecorder(gormstore.New(db))
	engine, err := orm.NewEngine(reg, rec, nil, opts...)
	require.NoError(t, err)

	return &env{db: db, rec: rec, engine: engine}
}

// tx runs fn in a committed transaction and fails the test on error.
func (e *env) tx(t *testing.T, fn func(ctx context.Context, s *orm.Session) error) {
	t.Helper()
	require.NoError(t, e.engine.InTransaction(context.Background(), fn))
}

func (e *env) count(t *testing.T, table string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, e.db.Table(table).Count(&n).Error)

	return n
}

// seedAuthor stores an author with one post per title; scores are 1, 2, ...
func (e *env) seedAuthor(t *testing.T, name string, titles ...string) *Author {
	t.Helper()

	a := &Author{Name: name}
	e.tx(t, func(_ context.Context, s *orm.Session) error {
		for i, title := range titles {
			p := &Post{Title: title, Score: i + 1}
			orm.Link(p, &p.Author, a, postsOf)
		}

		return s.Persist(a)
	})
	require.NotZero(t, a.ID)

	return a
}
