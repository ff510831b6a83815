package orm

import (
	"context"
	"reflect"

	"ormlab/internal/errors"
	"ormlab/internal/orm/store"
)

// run executes an entity query on behalf of a caller: pagination checks first,
// then the auto flush, then the select.
func (s *Session) run(ctx context.Context, spec *querySpec) ([]any, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	if err := s.engine.registry.checkFetchPagination(spec); err != nil {
		return nil, err
	}
	if err := s.autoFlush(ctx); err != nil {
		return nil, err
	}

	roots, err := s.selectEntities(ctx, spec)
	if err != nil {
		return nil, err
	}
	for _, r := range roots {
		if err := s.checkStale(r); err != nil {
			return nil, err
		}
	}

	return roots, nil
}

// autoFlush writes pending changes before a query so it sees them.
func (s *Session) autoFlush(ctx context.Context) error {
	if s.state != TxActive || s.engine.opts.FlushMode != FlushModeAuto {
		return nil
	}
	if err := s.flush(ctx); err != nil {
		return s.abort(ctx, errors.Wrap(err, "auto flush failed"))
	}

	return nil
}

func (s *Session) checkStale(ptr any) error {
	if !s.engine.opts.DetectStale || ptr == nil {
		return nil
	}
	if e := s.tracker.get(ptr); e != nil && e.stale {
		return errors.Wrapf(ErrStaleDataAccess, "%s#%v was changed by a bulk statement", e.meta.Name, e.key)
	}

	return nil
}

// selectEntities compiles and runs spec without auto flush; internal loads use
// it directly.
func (s *Session) selectEntities(ctx context.Context, spec *querySpec) ([]any, error) {
	cq, err := newCompiler(s.engine.registry, s.dialect).selectEntities(spec)
	if err != nil {
		return nil, err
	}

	rows, err := s.query(ctx, cq.sql, cq.args)
	if err != nil {
		return nil, err
	}

	dedupe := spec.distinct
	for _, f := range cq.fetches {
		if f.assoc.Kind == ToMany {
			dedupe = true
		}
	}

	return s.materializeRows(cq, rows, spec.readOnly, dedupe)
}

// loadWhere selects instances of meta matching preds, ordered by key.
func (s *Session) loadWhere(ctx context.Context, meta *EntityMeta, preds ...Predicate) ([]any, error) {
	spec := &querySpec{root: meta, alias: "x", limit: -1, where: preds}
	spec.orderBy = []Order{Asc(P("x"))}

	return s.selectEntities(ctx, spec)
}

type fetchedCollection struct {
	coll  collectionAccess
	items []any
}

func (s *Session) materializeRows(cq *compiled, rows *store.Rows, readOnly, dedupe bool) ([]any, error) {
	roots := make([]any, 0, rows.Len())
	seen := make(map[any]bool)
	var fetched []*fetchedCollection
	byColl := make(map[collectionAccess]*fetchedCollection)

	for _, row := range rows.Values {
		ptrs := make([]any, len(cq.layouts))
		for i, l := range cq.layouts {
			ptr, err := s.materialize(l, row, readOnly)
			if err != nil {
				return nil, err
			}
			ptrs[i] = ptr
		}

		for _, f := range cq.fetches {
			parent := ptrs[f.parent]
			if parent == nil {
				continue
			}
			pv := reflect.ValueOf(parent).Elem()
			child := ptrs[f.child]

			if f.assoc.Kind == ToOne {
				ref := refOf(pv, f.assoc)
				if _, lazy := ref.refValue(); lazy != nil {
					ref.refResolve(child)
				}

				continue
			}

			coll := collectionOf(pv, f.assoc)
			if coll.collectionLoaded() {
				continue
			}
			fc, ok := byColl[coll]
			if !ok {
				fc = &fetchedCollection{coll: coll}
				byColl[coll] = fc
				fetched = append(fetched, fc)
			}
			if child != nil && !containsPtr(fc.items, child) {
				fc.items = append(fc.items, child)
			}
		}

		root := ptrs[0]
		if dedupe {
			if seen[root] {
				continue
			}
			seen[root] = true
		}
		roots = append(roots, root)
	}

	for _, fc := range fetched {
		fc.coll.collectionFill(fc.items)
		s.pending.dropColl(fc.coll)
		s.stats.CollectionsLoaded++
	}

	return roots, nil
}

func containsPtr(items []any, ptr any) bool {
	for _, it := range items {
		if it == ptr {
			return true
		}
	}

	return false
}

// materialize returns the managed instance for the row segment of l, creating
// it when the identity is not yet mapped. Existing instances are never
// overwritten by query results.
func (s *Session) materialize(l *entityLayout, row []any, readOnly bool) (any, error) {
	raw := row[l.offset]
	if raw == nil {
		return nil, nil
	}

	meta := l.meta
	key, err := meta.normalizeKey(raw)
	if err != nil {
		return nil, err
	}
	if ptr, ok := s.identities.get(meta, key); ok {
		return ptr, nil
	}

	pv := reflect.New(meta.Type)
	if err := s.hydrate(meta, pv.Elem(), key, row[l.offset+1:l.offset+l.width()]); err != nil {
		return nil, err
	}

	e := &entry{meta: meta, ptr: pv.Interface(), val: pv.Elem(), key: key, keyed: true, status: statusManaged, readOnly: readOnly}
	if !readOnly {
		e.snapshot = meta.state(e.val)
	}
	s.tracker.add(e)
	if err := s.identities.put(meta, key, e.ptr); err != nil {
		return nil, err
	}
	s.pending.dropRef(meta, key)
	s.stats.EntitiesLoaded++

	return e.ptr, nil
}

// hydrate writes a row into v. Associations come back as placeholders.
func (s *Session) hydrate(meta *EntityMeta, v reflect.Value, key any, vals []any) error {
	if err := meta.setKey(v, key); err != nil {
		return err
	}

	var sub *SubtypeMeta
	var payload reflect.Value
	if h := meta.Hierarchy; h != nil {
		for i, col := range meta.columns {
			if col.kind != colDiscriminator {
				continue
			}
			var tag string
			if err := assignValue(reflect.ValueOf(&tag).Elem(), vals[i]); err != nil {
				return err
			}
			var err error
			if sub, payload, err = h.instantiate(v, tag); err != nil {
				return err
			}
		}
	}

	for i, col := range meta.columns {
		raw := vals[i]
		switch col.kind {
		case colField:
			if err := assignValue(v.FieldByIndex(col.field.Index), raw); err != nil {
				return errors.Wrapf(err, "%s.%s", meta.Name, col.field.Name)
			}
		case colSubtype:
			if col.sub != sub {
				continue
			}
			if err := assignValue(payload.FieldByIndex(col.field.Index), raw); err != nil {
				return errors.Wrapf(err, "%s.%s", sub.Name, col.field.Name)
			}
		case colForeignKey:
			ref := refOf(v, col.assoc)
			if raw == nil {
				ref.refResolve(nil)

				continue
			}
			tk, err := col.assoc.target.normalizeKey(raw)
			if err != nil {
				return err
			}
			ref.refLazy(s.lazyRef(col.assoc.target, tk, col.assoc))
		}
	}

	owner := v.Addr().Interface()
	for _, a := range meta.Assocs {
		switch {
		case a.Kind == ToMany:
			v.FieldByIndex(a.Index).SetZero()
			coll := collectionOf(v, a)
			coll.collectionBind(&collectionBinding{s: s, epoch: s.epoch, assoc: a, owner: owner, ownerKey: key}, true)
			s.pending.addColl(a, coll)
		case !a.Owning():
			refOf(v, a).refLazy(&lazySource{s: s, epoch: s.epoch, target: a.target, key: key, inverse: a.inverseOf, via: a})
		}
	}

	return nil
}

// List returns every matching instance.
func (q *Query[T]) List(ctx context.Context, s *Session) ([]*T, error) {
	roots, err := s.run(ctx, q.spec)
	if err != nil {
		return nil, err
	}

	out := make([]*T, len(roots))
	for i, r := range roots {
		out[i] = r.(*T)
	}

	return out, nil
}

// Single returns the only match; ErrNoResult or ErrNonUniqueResult otherwise.
func (q *Query[T]) Single(ctx context.Context, s *Session) (*T, error) {
	list, err := q.List(ctx, s)
	if err != nil {
		return nil, err
	}

	switch len(list) {
	case 0:
		return nil, errors.WithStack(ErrNoResult)
	case 1:
		return list[0], nil
	default:
		return nil, errors.Wrapf(ErrNonUniqueResult, "%d rows", len(list))
	}
}

// First returns the first match in query order, or ErrNoResult.
func (q *Query[T]) First(ctx context.Context, s *Session) (*T, error) {
	list, err := q.Clone().Limit(1).List(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.WithStack(ErrNoResult)
	}

	return list[0], nil
}

// Count returns the number of distinct matching root rows, ignoring the window.
func (q *Query[T]) Count(ctx context.Context, s *Session) (int64, error) {
	if err := s.requireActive(); err != nil {
		return 0, err
	}
	if err := s.autoFlush(ctx); err != nil {
		return 0, err
	}

	return s.count(ctx, q.spec)
}

func (s *Session) count(ctx context.Context, spec *querySpec) (int64, error) {
	cq, err := newCompiler(s.engine.registry, s.dialect).count(spec)
	if err != nil {
		return 0, err
	}

	rows, err := s.query(ctx, cq.sql, cq.args)
	if err != nil {
		return 0, err
	}
	if rows.Len() == 0 || len(rows.Values[0]) == 0 {
		return 0, nil
	}

	return toInt64(rows.Values[0][0])
}
