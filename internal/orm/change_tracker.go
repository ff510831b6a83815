package orm

import (
	"reflect"
)

type entryStatus int

const (
	statusNew entryStatus = iota
	statusManaged
	statusRemoved
)

// entry is the tracking record of one managed instance.
type entry struct {
	meta     *EntityMeta
	ptr      any
	val      reflect.Value
	key      any
	keyed    bool
	status   entryStatus
	readOnly bool
	stale    bool
	gone     bool

	// snapshot holds the column values of meta.columns as last written or read.
	snapshot []any
	// cascadePending marks an orphan whose remove cascade runs at flush.
	cascadePending bool
}

// changeTracker records every managed instance in registration order.
type changeTracker struct {
	entries map[any]*entry
	list    []*entry
}

func newChangeTracker() *changeTracker {
	return &changeTracker{entries: make(map[any]*entry)}
}

func (t *changeTracker) get(ptr any) *entry {
	return t.entries[ptr]
}

func (t *changeTracker) add(e *entry) {
	t.entries[e.ptr] = e
	t.list = append(t.list, e)
}

func (t *changeTracker) remove(e *entry) {
	if t.entries[e.ptr] != e {
		return
	}
	delete(t.entries, e.ptr)
	e.gone = true
}

// live returns the tracked entries, dropping forgotten ones.
func (t *changeTracker) live() []*entry {
	n := 0
	for _, e := range t.list {
		if !e.gone {
			t.list[n] = e
			n++
		}
	}
	clear(t.list[n:])
	t.list = t.list[:n]

	return t.list
}

func (t *changeTracker) len() int {
	return len(t.entries)
}

// state reads the current value of every column in meta.columns.
func (m *EntityMeta) state(v reflect.Value) []any {
	out := make([]any, len(m.columns))
	for i, col := range m.columns {
		out[i] = m.read(v, col)
	}

	return out
}

func (m *EntityMeta) read(v reflect.Value, col *column) any {
	switch col.kind {
	case colField:
		return columnValue(v.FieldByIndex(col.field.Index))
	case colForeignKey:
		ptr, lazy := refOf(v, col.assoc).refValue()
		if lazy != nil {
			return lazy.key
		}
		if ptr == nil {
			return nil
		}
		tv := reflect.ValueOf(ptr).Elem()
		if !col.assoc.target.hasKey(tv) {
			return nil
		}

		return col.assoc.target.keyOf(tv)
	case colDiscriminator:
		sub, _, err := m.Hierarchy.subtypeOf(v)
		if err != nil {
			return nil
		}

		return sub.Tag
	case colSubtype:
		sub, pv, err := m.Hierarchy.subtypeOf(v)
		if err != nil || sub != col.sub {
			return nil
		}

		return columnValue(pv.FieldByIndex(col.field.Index))
	}

	return nil
}

// dirty returns the indexes of updatable columns whose value differs from the
// snapshot.
func (e *entry) dirty(current []any) []int {
	var changed []int
	for i, col := range e.meta.columns {
		if col.field != nil && !col.field.Updatable {
			continue
		}
		if !equalValues(e.snapshot[i], current[i]) {
			changed = append(changed, i)
		}
	}

	return changed
}
