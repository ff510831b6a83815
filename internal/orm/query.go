package orm

import (
	"reflect"
	"slices"

	"ormlab/internal/orm/store"
)

type joinKind int

const (
	innerJoin joinKind = iota
	leftJoin
)

type joinSpec struct {
	kind  joinKind
	path  string // "m.Team"; empty for an entity join
	alias string
	fetch bool

	entity string // registered entity name for JoinOn
	on     Predicate
}

// querySpec is the untyped description shared by queries, subqueries and
// internal loads.
type querySpec struct {
	rootType reflect.Type
	root     *EntityMeta
	alias    string
	joins    []*joinSpec
	where    []Predicate
	groupBy  []Expr
	having   []Predicate
	orderBy  []Order
	offset   int
	limit    int
	lock     store.LockMode
	readOnly bool
	distinct bool
}

func newSpec(t reflect.Type, alias string) *querySpec {
	return &querySpec{rootType: t, alias: alias, limit: -1}
}

func (q *querySpec) clone() *querySpec {
	c := *q
	c.joins = slices.Clone(q.joins)
	c.where = slices.Clone(q.where)
	c.groupBy = slices.Clone(q.groupBy)
	c.having = slices.Clone(q.having)
	c.orderBy = slices.Clone(q.orderBy)

	return &c
}

func (q *querySpec) paginated() bool {
	return q.limit >= 0 || q.offset > 0
}

// Query selects entities of type T. Builder methods mutate and return the
// receiver; use Clone to branch.
type Query[T any] struct {
	spec *querySpec
}

// From starts a query over T bound to alias.
func From[T any](alias string) *Query[T] {
	return &Query[T]{spec: newSpec(reflect.TypeFor[T](), alias)}
}

// Clone returns an independent copy.
func (q *Query[T]) Clone() *Query[T] {
	return &Query[T]{spec: q.spec.clone()}
}

// Join inner-joins the association at path ("m.Team") as alias.
func (q *Query[T]) Join(path, alias string) *Query[T] {
	q.spec.joins = append(q.spec.joins, &joinSpec{kind: innerJoin, path: path, alias: alias})

	return q
}

// LeftJoin outer-joins the association at path as alias.
func (q *Query[T]) LeftJoin(path, alias string) *Query[T] {
	q.spec.joins = append(q.spec.joins, &joinSpec{kind: leftJoin, path: path, alias: alias})

	return q
}

// FetchJoin inner-joins path and materializes it with the result.
func (q *Query[T]) FetchJoin(path, alias string) *Query[T] {
	q.spec.joins = append(q.spec.joins, &joinSpec{kind: innerJoin, path: path, alias: alias, fetch: true})

	return q
}

// LeftFetchJoin outer-joins path and materializes it with the result.
func (q *Query[T]) LeftFetchJoin(path, alias string) *Query[T] {
	q.spec.joins = append(q.spec.joins, &joinSpec{kind: leftJoin, path: path, alias: alias, fetch: true})

	return q
}

// JoinOn inner-joins an unrelated entity with an explicit condition.
func (q *Query[T]) JoinOn(entity, alias string, on Predicate) *Query[T] {
	q.spec.joins = append(q.spec.joins, &joinSpec{kind: innerJoin, entity: entity, alias: alias, on: on})

	return q
}

// LeftJoinOn outer-joins an unrelated entity with an explicit condition.
func (q *Query[T]) LeftJoinOn(entity, alias string, on Predicate) *Query[T] {
	q.spec.joins = append(q.spec.joins, &joinSpec{kind: leftJoin, entity: entity, alias: alias, on: on})

	return q
}

// Where adds conjuncts. nil predicates are ignored.
func (q *Query[T]) Where(preds ...Predicate) *Query[T] {
	q.spec.where = append(q.spec.where, compact(preds)...)

	return q
}

func (q *Query[T]) GroupBy(exprs ...Expr) *Query[T] {
	q.spec.groupBy = append(q.spec.groupBy, exprs...)

	return q
}

func (q *Query[T]) Having(preds ...Predicate) *Query[T] {
	q.spec.having = append(q.spec.having, compact(preds)...)

	return q
}

func (q *Query[T]) OrderBy(orders ...Order) *Query[T] {
	q.spec.orderBy = append(q.spec.orderBy, orders...)

	return q
}

// Offset skips n rows of the driving entity.
func (q *Query[T]) Offset(n int) *Query[T] {
	q.spec.offset = max(n, 0)

	return q
}

// Limit caps the number of rows; a negative n removes the cap.
func (q *Query[T]) Limit(n int) *Query[T] {
	q.spec.limit = n

	return q
}

// Lock forwards a pessimistic lock request with the select.
func (q *Query[T]) Lock(mode store.LockMode) *Query[T] {
	q.spec.lock = mode

	return q
}

// ReadOnly loads results without snapshots; they are never dirty-checked.
func (q *Query[T]) ReadOnly() *Query[T] {
	q.spec.readOnly = true

	return q
}

// Distinct removes duplicate rows and duplicate root instances.
func (q *Query[T]) Distinct() *Query[T] {
	q.spec.distinct = true

	return q
}

// Subquery is a nested select usable with In, Exists or as a scalar.
// It may reference aliases of the enclosing query.
type Subquery struct {
	spec *querySpec
	sel  Expr
}

// Sub starts a subquery over T bound to alias. Without Select it yields the
// primary key of alias.
func Sub[T any](alias string) *Subquery {
	return &Subquery{spec: newSpec(reflect.TypeFor[T](), alias)}
}

// Select sets the single projected expression.
func (sq *Subquery) Select(e Expr) *Subquery {
	sq.sel = e

	return sq
}

func (sq *Subquery) Join(path, alias string) *Subquery {
	sq.spec.joins = append(sq.spec.joins, &joinSpec{kind: innerJoin, path: path, alias: alias})

	return sq
}

func (sq *Subquery) LeftJoin(path, alias string) *Subquery {
	sq.spec.joins = append(sq.spec.joins, &joinSpec{kind: leftJoin, path: path, alias: alias})

	return sq
}

func (sq *Subquery) Where(preds ...Predicate) *Subquery {
	sq.spec.where = append(sq.spec.where, compact(preds)...)

	return sq
}

func (sq *Subquery) GroupBy(exprs ...Expr) *Subquery {
	sq.spec.groupBy = append(sq.spec.groupBy, exprs...)

	return sq
}

func (sq *Subquery) Having(preds ...Predicate) *Subquery {
	sq.spec.having = append(sq.spec.having, compact(preds)...)

	return sq
}

func (sq *Subquery) render(c *compiler) error {
	sql, args, err := c.subselect(sq)
	if err != nil {
		return err
	}
	c.sb.WriteString("(" + sql + ")")
	c.args = append(c.args, args...)

	return nil
}
