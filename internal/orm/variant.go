package orm

import (
	"reflect"

	"ormlab/internal/errors"
)

// Variant holds the concrete payload of an entity that is the root of an
// inheritance hierarchy. The payload is a pointer to one of the subtype
// structs declared at registration; its type decides the discriminator.
type Variant struct {
	payload any
}

// VariantOf wraps a subtype payload pointer.
func VariantOf(payload any) Variant {
	return Variant{payload: payload}
}

// Payload returns the wrapped subtype pointer, or nil.
func (v *Variant) Payload() any {
	return v.payload
}

// Set replaces the payload.
func (v *Variant) Set(payload any) {
	v.payload = payload
}

// Is reports whether the payload is a *T.
func Is[T any](v *Variant) bool {
	_, ok := v.payload.(*T)

	return ok
}

// View is a typed window onto a variant payload. The check against the stored
// subtype happens on Get, not when the view is created, so narrowing a lazily
// loaded value never touches the database by itself.
type View[T any] struct {
	v *Variant
}

// Narrow returns a view of v as subtype T.
func Narrow[T any](v *Variant) View[T] {
	return View[T]{v: v}
}

// Get returns the payload as *T or ErrTypeMismatch when the stored subtype differs.
func (w View[T]) Get() (*T, error) {
	if w.v == nil || w.v.payload == nil {
		return nil, errors.Wrapf(ErrTypeMismatch, "no payload, expected %s", reflect.TypeFor[T]().Name())
	}

	p, ok := w.v.payload.(*T)
	if !ok {
		return nil, errors.Wrapf(ErrTypeMismatch, "payload is %T, expected *%s", w.v.payload, reflect.TypeFor[T]().Name())
	}

	return p, nil
}

func (h *Hierarchy) variantOf(entity reflect.Value) *Variant {
	return entity.FieldByIndex(h.variantIndex).Addr().Interface().(*Variant)
}

// subtypeOf returns the subtype of the payload currently stored in entity.
func (h *Hierarchy) subtypeOf(entity reflect.Value) (*SubtypeMeta, reflect.Value, error) {
	payload := h.variantOf(entity).payload
	if payload == nil {
		return nil, reflect.Value{}, errors.Wrap(ErrMapping, "variant has no payload")
	}

	pv := reflect.ValueOf(payload)
	if pv.Kind() != reflect.Pointer || pv.IsNil() {
		return nil, reflect.Value{}, errors.Wrapf(ErrMapping, "variant payload %T must be a non-nil pointer", payload)
	}

	sub, ok := h.byType[pv.Elem().Type()]
	if !ok {
		return nil, reflect.Value{}, errors.Wrapf(ErrMapping, "%T is not a declared subtype", payload)
	}

	return sub, pv.Elem(), nil
}

// instantiate stores a fresh payload for the subtype tagged tag.
func (h *Hierarchy) instantiate(entity reflect.Value, tag string) (*SubtypeMeta, reflect.Value, error) {
	sub, ok := h.byTag[tag]
	if !ok {
		return nil, reflect.Value{}, errors.Wrapf(ErrMapping, "unknown discriminator %q", tag)
	}

	pv := reflect.New(sub.Type)
	h.variantOf(entity).payload = pv.Interface()

	return sub, pv.Elem(), nil
}
