package orm

import (
	"ormlab/internal/errors"
)

// identity is (root entity type, normalized primary key). Subtypes of a
// hierarchy share the identity space of their root.
type identity struct {
	meta *EntityMeta
	key  any
}

// identityMap guarantees at most one live instance per identity within a
// transaction. It is owned by a single Session and never shared.
type identityMap struct {
	entries map[identity]any
}

func newIdentityMap() *identityMap {
	return &identityMap{entries: make(map[identity]any)}
}

func (m *identityMap) get(meta *EntityMeta, key any) (any, bool) {
	ptr, ok := m.entries[identity{meta: meta, key: key}]

	return ptr, ok
}

// put installs ptr. Installing a second instance under a managed identity is
// a programming error; re-installing the same pointer is a no-op.
func (m *identityMap) put(meta *EntityMeta, key, ptr any) error {
	id := identity{meta: meta, key: key}
	if existing, ok := m.entries[id]; ok {
		if existing == ptr {
			return nil
		}

		return errors.Wrapf(ErrDuplicateIdentity, "%s#%v", meta.Name, key)
	}
	m.entries[id] = ptr

	return nil
}

// replace installs ptr regardless of what is mapped. Only merge uses it.
func (m *identityMap) replace(meta *EntityMeta, key, ptr any) (previous any) {
	id := identity{meta: meta, key: key}
	previous = m.entries[id]
	m.entries[id] = ptr

	return previous
}

func (m *identityMap) remove(meta *EntityMeta, key any) {
	delete(m.entries, identity{meta: meta, key: key})
}

func (m *identityMap) len() int {
	return len(m.entries)
}

// each visits the identities of one root type.
func (m *identityMap) each(meta *EntityMeta, fn func(key, ptr any)) {
	for id, ptr := range m.entries {
		if id.meta == meta {
			fn(id.key, ptr)
		}
	}
}
