package orm

import (
	"context"
	"reflect"

	"ormlab/internal/errors"
)

// Merge copies the state of a detached instance onto the managed instance of
// the same identity and returns the managed one. Every scalar is copied,
// zero values included, so a field left empty on the detached copy clears
// the stored value. References are re-pointed at managed instances or
// placeholders; collection membership is left alone. Instances without a key
// are persisted as a fresh copy.
func Merge[T any](ctx context.Context, s *Session, detached *T) (*T, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	meta, rv, err := s.engine.registry.metaOfValue(detached)
	if err != nil {
		return nil, err
	}

	merged, err := s.merge(ctx, meta, rv, make(map[any]any))
	if err != nil {
		return nil, err
	}

	return merged.(*T), nil
}

func (s *Session) merge(ctx context.Context, meta *EntityMeta, rv reflect.Value, visited map[any]any) (any, error) {
	src := rv.Interface()
	if done, ok := visited[src]; ok {
		return done, nil
	}
	if e := s.tracker.get(src); e != nil {
		visited[src] = src

		return src, nil
	}

	v := rv.Elem()
	if !meta.hasKey(v) {
		return s.mergeAsNew(ctx, meta, v, visited)
	}

	key := meta.keyOf(v)
	target, err := s.managedForMerge(ctx, meta, key)
	if err != nil {
		return nil, err
	}
	if target == nil {
		if meta.ID.AutoIncrement {
			return nil, errors.Wrapf(ErrEntityNotFound, "merge %s#%v", meta.Name, key)
		}

		return s.mergeAsNew(ctx, meta, v, visited)
	}

	visited[src] = target.ptr
	if err := s.copyState(ctx, meta, target.val, v, visited); err != nil {
		return nil, err
	}

	return target.ptr, nil
}

func (s *Session) mergeAsNew(ctx context.Context, meta *EntityMeta, v reflect.Value, visited map[any]any) (any, error) {
	cp := reflect.New(meta.Type)
	if err := meta.setKey(cp.Elem(), columnValueOrNil(v.FieldByIndex(meta.ID.Index))); err != nil {
		return nil, err
	}
	visited[v.Addr().Interface()] = cp.Interface()
	if err := s.copyState(ctx, meta, cp.Elem(), v, visited); err != nil {
		return nil, err
	}
	if err := s.persist(meta, cp); err != nil {
		return nil, err
	}

	return cp.Interface(), nil
}

func columnValueOrNil(fv reflect.Value) any {
	if fv.IsZero() {
		return nil
	}

	return columnValue(fv)
}

// managedForMerge finds or loads the managed entry for (meta, key). A managed
// instance invalidated by a bulk statement is replaced by a fresh copy of the
// row so the merge applies to current data.
func (s *Session) managedForMerge(ctx context.Context, meta *EntityMeta, key any) (*entry, error) {
	if ptr, ok := s.identities.get(meta, key); ok {
		e := s.tracker.get(ptr)
		if e == nil {
			return nil, errors.Wrapf(ErrNotManaged, "%s#%v", meta.Name, key)
		}
		if e.status == statusRemoved {
			return nil, errors.Wrapf(ErrEntityNotFound, "%s#%v is scheduled for removal", meta.Name, key)
		}
		if !e.stale {
			return e, nil
		}

		vals, found, err := s.fetchRow(ctx, meta, key)
		if err != nil || !found {
			return e, err
		}
		fresh := reflect.New(meta.Type)
		if err := s.hydrate(meta, fresh.Elem(), key, vals); err != nil {
			return nil, err
		}
		s.tracker.remove(e)
		ne := &entry{meta: meta, ptr: fresh.Interface(), val: fresh.Elem(), key: key, keyed: true, status: statusManaged}
		ne.snapshot = meta.state(ne.val)
		s.tracker.add(ne)
		s.identities.replace(meta, key, ne.ptr)
		delete(s.refs, identity{meta: meta, key: key})

		return ne, nil
	}

	loaded, err := s.loadWhere(ctx, meta, Eq(P("x"), key))
	if err != nil {
		return nil, err
	}
	if len(loaded) == 0 {
		return nil, nil
	}

	return s.tracker.get(loaded[0]), nil
}

func (s *Session) copyState(ctx context.Context, meta *EntityMeta, dst, src reflect.Value, visited map[any]any) error {
	for _, f := range meta.Fields {
		if f == meta.ID {
			continue
		}
		dst.FieldByIndex(f.Index).Set(src.FieldByIndex(f.Index))
	}

	if h := meta.Hierarchy; h != nil {
		_, payload, err := h.subtypeOf(src)
		if err != nil {
			return err
		}
		cp := reflect.New(payload.Type())
		cp.Elem().Set(payload)
		h.variantOf(dst).payload = cp.Interface()
	}

	for _, a := range meta.Assocs {
		switch {
		case a.Owning():
			if err := s.mergeRef(ctx, a, refOf(dst, a), refOf(src, a), visited); err != nil {
				return err
			}
		case a.Kind == ToMany && a.Cascade.has(CascadeMerge):
			for _, item := range collectionOf(src, a).collectionItems() {
				if _, err := s.merge(ctx, a.target, reflect.ValueOf(item), visited); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (s *Session) mergeRef(ctx context.Context, a *AssocMeta, dst, src refAccess, visited map[any]any) error {
	ptr, lazy := src.refValue()
	if lazy != nil {
		dst.refLazy(nil)
		s.pointAt(dst, a, lazy.key)

		return nil
	}
	if ptr == nil {
		dst.refResolve(nil)

		return nil
	}

	tv := reflect.ValueOf(ptr)
	if a.Cascade.has(CascadeMerge) {
		merged, err := s.merge(ctx, a.target, tv, visited)
		if err != nil {
			return err
		}
		dst.refResolve(merged)

		return nil
	}
	if te := s.tracker.get(ptr); te != nil {
		dst.refResolve(ptr)

		return nil
	}
	if !a.target.hasKey(tv.Elem()) {
		return errors.Wrapf(ErrTransientReference, "%s.%s points at an unsaved %s", a.Owner.Name, a.Name, a.target.Name)
	}
	s.pointAt(dst, a, a.target.keyOf(tv.Elem()))

	return nil
}

// pointAt sets ref to the managed instance of key, or to a placeholder.
func (s *Session) pointAt(ref refAccess, a *AssocMeta, key any) {
	if ptr, ok := s.identities.get(a.target, key); ok {
		ref.refResolve(ptr)

		return
	}
	ref.refLazy(s.lazyRef(a.target, key, a))
}

// Refresh overwrites a managed instance with its stored row, discarding
// unflushed changes, and clears its stale flag.
func (s *Session) Refresh(ctx context.Context, entity any) error {
	if err := s.requireActive(); err != nil {
		return err
	}
	e := s.tracker.get(entity)
	if e == nil || !e.keyed || e.status == statusNew {
		return errors.Wrapf(ErrNotManaged, "refresh %T", entity)
	}

	vals, found, err := s.fetchRow(ctx, e.meta, e.key)
	if err != nil {
		return err
	}
	if !found {
		return errors.Wrapf(ErrEntityNotFound, "%s#%v", e.meta.Name, e.key)
	}
	if err := s.hydrate(e.meta, e.val, e.key, vals); err != nil {
		return err
	}
	e.snapshot = e.meta.state(e.val)
	e.stale = false

	return nil
}

// fetchRow reads the state columns of one row without touching the identity map.
func (s *Session) fetchRow(ctx context.Context, meta *EntityMeta, key any) ([]any, bool, error) {
	spec := &querySpec{root: meta, alias: "x", limit: -1, where: []Predicate{Eq(P("x"), key)}}
	cq, err := newCompiler(s.engine.registry, s.dialect).selectEntities(spec)
	if err != nil {
		return nil, false, err
	}

	rows, err := s.query(ctx, cq.sql, cq.args)
	if err != nil {
		return nil, false, err
	}
	if rows.Len() == 0 {
		return nil, false, nil
	}
	l := cq.layouts[0]

	return rows.Values[0][l.offset+1 : l.offset+l.width()], true, nil
}
