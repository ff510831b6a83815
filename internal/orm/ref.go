package orm

import (
	"context"
	"reflect"
)

// Ref is a to-one association. It is in one of three states: nil, unresolved
// (holding only the target identity) or resolved (holding the target
// instance). An unresolved Ref resolves on the first Get.
type Ref[T any] struct {
	value *T
	lazy  *lazySource
}

// RefTo returns a resolved reference to v.
func RefTo[T any](v *T) Ref[T] {
	return Ref[T]{value: v}
}

// Set points the reference at v. Only the owning side of an association is
// written to the store; use Link to keep the inverse side in step.
func (r *Ref[T]) Set(v *T) {
	r.value = v
	r.lazy = nil
}

// Clear makes the reference nil.
func (r *Ref[T]) Clear() {
	r.value = nil
	r.lazy = nil
}

// Get returns the target, loading it on first access.
func (r *Ref[T]) Get(ctx context.Context) (*T, error) {
	if r.lazy == nil {
		return r.value, nil
	}

	ptr, err := r.lazy.resolve(ctx)
	if err != nil {
		return nil, err
	}
	r.lazy = nil
	if ptr == nil {
		r.value = nil

		return nil, nil
	}
	r.value = ptr.(*T)

	return r.value, nil
}

// IsResolved reports whether Get would return without touching the store.
// It never triggers resolution.
func (r *Ref[T]) IsResolved() bool {
	return r.lazy == nil
}

// IsNil reports whether the reference is known to point nowhere.
func (r *Ref[T]) IsNil() bool {
	return r.lazy == nil && r.value == nil
}

// Key returns the target identity without loading it. It reports false for a
// nil reference, an unsaved target, or an unresolved inverse reference whose
// target key is not known until it is loaded.
func (r *Ref[T]) Key() (any, bool) {
	if r.lazy != nil {
		if r.lazy.inverse != nil {
			return nil, false
		}

		return r.lazy.key, true
	}
	if r.value == nil {
		return nil, false
	}

	idx, ok := keyIndexes.Load(reflect.TypeFor[T]())
	if !ok {
		return nil, false
	}
	fv := reflect.ValueOf(r.value).Elem().FieldByIndex(idx.([]int))
	if fv.IsZero() {
		return nil, false
	}

	return columnValue(fv), true
}

// refAccess is the untyped view of Ref used by the mapping layer.
type refAccess interface {
	refTarget() reflect.Type
	refValue() (ptr any, lazy *lazySource)
	refResolve(ptr any)
	refLazy(l *lazySource)
}

func (r *Ref[T]) refTarget() reflect.Type {
	return reflect.TypeFor[T]()
}

func (r *Ref[T]) refValue() (any, *lazySource) {
	if r.value == nil {
		return nil, r.lazy
	}

	return r.value, r.lazy
}

func (r *Ref[T]) refResolve(ptr any) {
	r.lazy = nil
	if ptr == nil {
		r.value = nil

		return
	}
	r.value = ptr.(*T)
}

func (r *Ref[T]) refLazy(l *lazySource) {
	r.value = nil
	r.lazy = l
}

func refOf(entity reflect.Value, a *AssocMeta) refAccess {
	return entity.FieldByIndex(a.Index).Addr().Interface().(refAccess)
}
