package orm

import (
	"context"
	"reflect"

	"ormlab/internal/errors"
)

// Persist makes a transient instance managed and walks cascade-persist
// associations. The INSERT is issued at flush.
func (s *Session) Persist(entity any) error {
	if err := s.requireActive(); err != nil {
		return err
	}
	meta, rv, err := s.engine.registry.metaOfValue(entity)
	if err != nil {
		return err
	}

	return s.persist(meta, rv)
}

func (s *Session) persist(meta *EntityMeta, rv reflect.Value) error {
	ptr := rv.Interface()
	if e := s.tracker.get(ptr); e != nil {
		if e.status != statusRemoved {
			return nil
		}
		e.status = statusManaged
		e.cascadePending = false
	} else if err := s.register(meta, ptr, rv.Elem()); err != nil {
		return err
	}

	return s.cascadePersist(meta, rv.Elem())
}

func (s *Session) register(meta *EntityMeta, ptr any, v reflect.Value) error {
	if h := meta.Hierarchy; h != nil {
		if _, _, err := h.subtypeOf(v); err != nil {
			return errors.Wrapf(err, "persist %s", meta.Name)
		}
	}

	e := &entry{meta: meta, ptr: ptr, val: v, status: statusNew}
	if meta.hasKey(v) {
		e.key = meta.keyOf(v)
		if meta.ID.AutoIncrement {
			return errors.Wrapf(ErrDetached, "%s#%v already has a generated key; merge it instead", meta.Name, e.key)
		}
		if _, ok := s.identities.get(meta, e.key); ok {
			return errors.Wrapf(ErrDuplicateIdentity, "%s#%v", meta.Name, e.key)
		}
		e.keyed = true
	}

	if meta.beforeInsert {
		ptr.(beforeInserter).BeforeInsert()
	}

	s.tracker.add(e)
	if e.keyed {
		if err := s.identities.put(meta, e.key, ptr); err != nil {
			return err
		}
	}

	for _, a := range meta.Assocs {
		if a.Kind == ToMany {
			collectionOf(v, a).collectionBind(&collectionBinding{s: s, epoch: s.epoch, assoc: a, owner: ptr, ownerKey: e.key}, false)
		}
	}

	return nil
}

func (s *Session) cascadePersist(meta *EntityMeta, v reflect.Value) error {
	for _, a := range meta.Assocs {
		if !a.Cascade.has(CascadePersist) {
			continue
		}

		if a.Kind == ToMany {
			for _, item := range collectionOf(v, a).collectionItems() {
				if err := s.persist(a.target, reflect.ValueOf(item)); err != nil {
					return err
				}
			}

			continue
		}

		ptr, lazy := refOf(v, a).refValue()
		if lazy != nil || ptr == nil {
			continue
		}
		if err := s.persist(a.target, reflect.ValueOf(ptr)); err != nil {
			return err
		}
	}

	return nil
}

// Remove schedules entity for deletion and walks cascade-remove and
// orphan-removal associations, loading them when needed. Removing an instance
// that was never flushed simply forgets it.
func (s *Session) Remove(ctx context.Context, entity any) error {
	if err := s.requireActive(); err != nil {
		return err
	}
	if _, _, err := s.engine.registry.metaOfValue(entity); err != nil {
		return err
	}
	if s.tracker.get(entity) == nil {
		return errors.Wrapf(ErrNotManaged, "remove %T", entity)
	}

	return s.remove(ctx, entity)
}

func (s *Session) remove(ctx context.Context, ptr any) error {
	e := s.tracker.get(ptr)
	if e == nil {
		return nil
	}

	switch e.status {
	case statusRemoved:
		return nil
	case statusNew:
		s.forget(e)
	default:
		e.status = statusRemoved
		e.cascadePending = false
	}

	return s.cascadeRemove(ctx, e)
}

func (s *Session) cascadeRemove(ctx context.Context, e *entry) error {
	for _, a := range e.meta.Assocs {
		if !a.Cascade.has(CascadeRemove) && !a.OrphanRemoval {
			continue
		}

		if a.Kind == ToMany {
			coll := collectionOf(e.val, a)
			if !coll.collectionLoaded() {
				if err := s.loadCollection(ctx, coll); err != nil {
					return err
				}
			}
			for _, item := range coll.collectionItems() {
				if err := s.remove(ctx, item); err != nil {
					return err
				}
			}

			continue
		}

		ref := refOf(e.val, a)
		ptr, lazy := ref.refValue()
		if lazy != nil {
			resolved, err := lazy.resolve(ctx)
			if err != nil && !errors.Is(err, ErrEntityNotFound) {
				return err
			}
			ref.refResolve(resolved)
			ptr = resolved
		}
		if ptr != nil {
			if err := s.remove(ctx, ptr); err != nil {
				return err
			}
		}
	}

	return nil
}

// orphan handles an element removed from an orphan-removal collection.
func (s *Session) orphan(ptr any) {
	e := s.tracker.get(ptr)
	if e == nil {
		return
	}

	switch e.status {
	case statusNew:
		s.forget(e)
	case statusManaged:
		e.status = statusRemoved
		e.cascadePending = true
	}
}
