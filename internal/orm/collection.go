package orm

import (
	"context"
	"reflect"
	"slices"
)

// Collection is the inverse side of a one-to-many association. The zero value
// is a loaded, empty collection. Collections of loaded entities start
// unloaded and fetch their members on the first All.
type Collection[T any] struct {
	items    []*T
	unloaded bool
	pending  []*T
	removed  []*T
	bind     *collectionBinding
}

// collectionBinding ties a collection to the session and owner it belongs to.
type collectionBinding struct {
	s        *Session
	epoch    uint64
	assoc    *AssocMeta
	owner    any
	ownerKey any
}

func (b *collectionBinding) live() bool {
	return b != nil && b.s.epoch == b.epoch && b.s.state.open()
}

// CollectionOf returns a loaded collection holding items.
func CollectionOf[T any](items ...*T) Collection[T] {
	return Collection[T]{items: items}
}

// All returns the members, loading them on first access.
func (c *Collection[T]) All(ctx context.Context) ([]*T, error) {
	if c.unloaded {
		if err := c.bind.s.loadCollection(ctx, c); err != nil {
			return nil, err
		}
	}

	return slices.Clone(c.items), nil
}

// IsLoaded reports whether the members are in memory. It never loads them.
func (c *Collection[T]) IsLoaded() bool {
	return !c.unloaded
}

// Items returns the members currently in memory without loading.
func (c *Collection[T]) Items() []*T {
	if c.unloaded {
		return slices.Clone(c.pending)
	}

	return slices.Clone(c.items)
}

// Len counts the members currently in memory.
func (c *Collection[T]) Len() int {
	if c.unloaded {
		return len(c.pending)
	}

	return len(c.items)
}

// Contains reports whether v is a member in memory.
func (c *Collection[T]) Contains(v *T) bool {
	if c.unloaded {
		return slices.Contains(c.pending, v)
	}

	return slices.Contains(c.items, v)
}

// Add appends v. Only the inverse side changes; see Link.
func (c *Collection[T]) Add(v *T) {
	if v == nil {
		return
	}
	if c.unloaded {
		if !slices.Contains(c.pending, v) {
			c.pending = append(c.pending, v)
		}
		c.removed = slices.DeleteFunc(c.removed, func(e *T) bool { return e == v })

		return
	}
	if !slices.Contains(c.items, v) {
		c.items = append(c.items, v)
	}
}

// Remove drops v from the collection. When the association removes orphans and
// the owner is managed, v is scheduled for deletion at the next flush.
func (c *Collection[T]) Remove(v *T) bool {
	if !c.detach(v) {
		return false
	}
	if c.bind.live() && c.bind.assoc.OrphanRemoval {
		c.bind.s.orphan(v)
	}

	return true
}

func (c *Collection[T]) detach(v *T) bool {
	if v == nil {
		return false
	}
	if c.unloaded {
		if slices.Contains(c.removed, v) {
			return false
		}
		n := len(c.pending)
		c.pending = slices.DeleteFunc(c.pending, func(e *T) bool { return e == v })
		if len(c.pending) == n && !c.bind.s.belongsTo(c.bind, v) {
			return false
		}
		c.removed = append(c.removed, v)

		return true
	}

	n := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(e *T) bool { return e == v })

	return len(c.items) != n
}

// collectionAccess is the untyped view of Collection used by the engine.
type collectionAccess interface {
	collectionElem() reflect.Type
	binding() *collectionBinding
	collectionBind(b *collectionBinding, lazy bool)
	collectionLoaded() bool
	collectionItems() []any
	collectionFill(items []any)
	collectionAppend(item any)
	collectionDetach(item any) bool
}

func (c *Collection[T]) collectionElem() reflect.Type {
	return reflect.TypeFor[T]()
}

func (c *Collection[T]) binding() *collectionBinding {
	return c.bind
}

func (c *Collection[T]) collectionBind(b *collectionBinding, lazy bool) {
	c.bind = b
	if lazy {
		c.unloaded = true
		c.pending = c.items
		c.items = nil
	}
}

func (c *Collection[T]) collectionLoaded() bool {
	return !c.unloaded
}

func (c *Collection[T]) collectionItems() []any {
	src := c.items
	if c.unloaded {
		src = c.pending
	}
	out := make([]any, len(src))
	for i, v := range src {
		out[i] = v
	}

	return out
}

// collectionFill installs loaded members, then replays in-memory Add and
// Remove calls made while the collection was unloaded.
func (c *Collection[T]) collectionFill(items []any) {
	loaded := make([]*T, 0, len(items)+len(c.pending))
	for _, it := range items {
		v := it.(*T)
		if slices.Contains(c.removed, v) || slices.Contains(loaded, v) {
			continue
		}
		loaded = append(loaded, v)
	}
	for _, v := range c.pending {
		if !slices.Contains(loaded, v) {
			loaded = append(loaded, v)
		}
	}

	c.items = loaded
	c.pending = nil
	c.removed = nil
	c.unloaded = false
}

func (c *Collection[T]) collectionAppend(item any) {
	c.Add(item.(*T))
}

func (c *Collection[T]) collectionDetach(item any) bool {
	return c.detach(item.(*T))
}

func collectionOf(entity reflect.Value, a *AssocMeta) collectionAccess {
	return entity.FieldByIndex(a.Index).Addr().Interface().(collectionAccess)
}
