package orm

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"ormlab/internal/errors"
	"ormlab/internal/orm/store"
)

// Flush writes pending inserts, updates and deletes. A failed flush rolls the
// transaction back.
func (s *Session) Flush(ctx context.Context) error {
	if err := s.requireActive(); err != nil {
		return err
	}
	if err := s.flush(ctx); err != nil {
		return s.abort(ctx, errors.Wrap(err, "flush failed"))
	}

	return nil
}

type flushResult struct {
	inserts, updates, deletes int
}

// flush runs to completion regardless of ctx cancellation.
func (s *Session) flush(ctx context.Context) error {
	if s.state == TxFlushing {
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	s.state = TxFlushing
	defer func() {
		if s.state == TxFlushing {
			s.state = TxActive
		}
	}()

	if err := s.cascadeReachable(); err != nil {
		return err
	}
	if err := s.cascadeOrphans(ctx); err != nil {
		return err
	}

	var news, managed, removed []*entry
	for _, e := range s.tracker.live() {
		switch e.status {
		case statusNew:
			news = append(news, e)
		case statusManaged:
			managed = append(managed, e)
		case statusRemoved:
			removed = append(removed, e)
		}
	}

	var res flushResult
	var err error
	if res.inserts, err = s.flushInserts(ctx, news); err != nil {
		return err
	}
	if res.updates, err = s.flushUpdates(ctx, managed); err != nil {
		return err
	}
	if res.deletes, err = s.flushDeletes(ctx, removed); err != nil {
		return err
	}
	s.stats.Flushes++

	s.logger.LogAttrs(ctx, slog.LevelDebug, "orm flush",
		slog.Int("inserts", res.inserts),
		slog.Int("updates", res.updates),
		slog.Int("deletes", res.deletes),
		slog.Int("managed", s.tracker.len()),
	)

	return nil
}

// cascadeReachable persists transient instances reachable through
// cascade-persist associations of new and managed entities. It rejects
// references to unsaved instances that nothing cascades to.
func (s *Session) cascadeReachable() error {
	for i := 0; i < len(s.tracker.list); i++ {
		e := s.tracker.list[i]
		if e.gone || e.status == statusRemoved {
			continue
		}

		for _, a := range e.meta.Assocs {
			if a.Kind == ToMany {
				if !a.Cascade.has(CascadePersist) {
					continue
				}
				for _, item := range collectionOf(e.val, a).collectionItems() {
					if err := s.persistReachable(a, item); err != nil {
						return err
					}
				}

				continue
			}

			ptr, lazy := refOf(e.val, a).refValue()
			if lazy != nil || ptr == nil {
				continue
			}
			if a.Cascade.has(CascadePersist) {
				if err := s.persistReachable(a, ptr); err != nil {
					return err
				}

				continue
			}
			if a.Owning() && s.tracker.get(ptr) == nil && !a.target.hasKey(reflect.ValueOf(ptr).Elem()) {
				return errors.Wrapf(ErrTransientReference, "%s.%s points at an unsaved %s", e.meta.Name, a.Name, a.target.Name)
			}
		}
	}

	return nil
}

func (s *Session) persistReachable(a *AssocMeta, ptr any) error {
	if s.tracker.get(ptr) != nil {
		return nil
	}

	return s.persist(a.target, reflect.ValueOf(ptr))
}

func (s *Session) cascadeOrphans(ctx context.Context) error {
	for i := 0; i < len(s.tracker.list); i++ {
		e := s.tracker.list[i]
		if e.gone || e.status != statusRemoved || !e.cascadePending {
			continue
		}
		e.cascadePending = false
		if err := s.cascadeRemove(ctx, e); err != nil {
			return err
		}
	}

	return nil
}

// tableWrite is the part of an entity's columns stored in one table.
type tableWrite struct {
	table string
	cols  []int
}

func (m *EntityMeta) writeTables(sub *SubtypeMeta) []tableWrite {
	pick := func(keep func(*column) bool) []int {
		var out []int
		for i, col := range m.columns {
			if keep(col) {
				out = append(out, i)
			}
		}

		return out
	}

	h := m.Hierarchy
	switch {
	case h == nil:
		return []tableWrite{{table: m.Table, cols: pick(func(*column) bool { return true })}}
	case h.Strategy == SingleTable:
		return []tableWrite{{table: m.Table, cols: pick(func(c *column) bool {
			return c.kind != colSubtype || c.sub == sub
		})}}
	case h.Strategy == Joined:
		return []tableWrite{
			{table: m.Table, cols: pick(func(c *column) bool { return c.kind != colSubtype })},
			{table: sub.Table, cols: pick(func(c *column) bool { return c.kind == colSubtype && c.sub == sub })},
		}
	default:
		return []tableWrite{{table: sub.Table, cols: pick(func(c *column) bool {
			return c.kind != colDiscriminator && (c.kind != colSubtype || c.sub == sub)
		})}}
	}
}

func (e *entry) subtype() (*SubtypeMeta, error) {
	if e.meta.Hierarchy == nil {
		return nil, nil
	}
	sub, _, err := e.meta.Hierarchy.subtypeOf(e.val)

	return sub, err
}

// storedSubtype is the subtype recorded in the snapshot, i.e. the row's.
func (e *entry) storedSubtype() (*SubtypeMeta, error) {
	h := e.meta.Hierarchy
	if h == nil {
		return nil, nil
	}
	for i, col := range e.meta.columns {
		if col.kind == colDiscriminator && e.snapshot != nil {
			if tag, ok := e.snapshot[i].(string); ok {
				if sub, ok := h.byTag[tag]; ok {
					return sub, nil
				}
			}
		}
	}

	return e.subtype()
}

// insertDeps lists the owning associations of e pointing at new entities that
// are not inserted yet.
func (s *Session) insertDeps(e *entry, inserted map[*entry]bool) []*AssocMeta {
	var deps []*AssocMeta
	for _, a := range e.meta.Assocs {
		if !a.Owning() {
			continue
		}
		ptr, lazy := refOf(e.val, a).refValue()
		if lazy != nil || ptr == nil {
			continue
		}
		te := s.tracker.get(ptr)
		if te == nil || te.status != statusNew || inserted[te] {
			continue
		}
		if te == e && te.keyed {
			continue
		}
		deps = append(deps, a)
	}

	return deps
}

// flushInserts writes new entities so that every referenced row exists before
// its referrer. A cycle is broken by inserting one nullable foreign key as
// NULL and setting it afterwards; a cycle of non-nullable keys cannot be
// ordered.
func (s *Session) flushInserts(ctx context.Context, news []*entry) (int, error) {
	inserted := make(map[*entry]bool, len(news))
	deferred := make(map[*entry][]*AssocMeta)
	var deferredOrder []*entry
	pending := news

	for len(pending) > 0 {
		var next []*entry
		progress := false
		for _, e := range pending {
			if len(without(s.insertDeps(e, inserted), deferred[e])) > 0 {
				next = append(next, e)

				continue
			}
			if err := s.insert(ctx, e, deferred[e]); err != nil {
				return 0, err
			}
			inserted[e] = true
			progress = true
		}
		pending = next
		if progress || len(pending) == 0 {
			continue
		}

		broken := false
		for _, e := range pending {
			for _, a := range without(s.insertDeps(e, inserted), deferred[e]) {
				if a.NotNull {
					continue
				}
				if deferred[e] == nil {
					deferredOrder = append(deferredOrder, e)
				}
				deferred[e] = append(deferred[e], a)
				broken = true

				break
			}
			if broken {
				break
			}
		}
		if !broken {
			names := make([]string, len(pending))
			for i, e := range pending {
				names[i] = e.meta.Name
			}

			return 0, errors.Wrapf(ErrUnresolvableInsertOrder, "cycle among new %s", strings.Join(names, ", "))
		}
	}

	for _, e := range deferredOrder {
		if err := s.applyDeferred(ctx, e, deferred[e]); err != nil {
			return 0, err
		}
	}

	return len(inserted), nil
}

func without(list, drop []*AssocMeta) []*AssocMeta {
	if len(drop) == 0 {
		return list
	}
	out := list[:0:0]
	for _, a := range list {
		skip := false
		for _, d := range drop {
			if a == d {
				skip = true
			}
		}
		if !skip {
			out = append(out, a)
		}
	}

	return out
}

func (s *Session) insert(ctx context.Context, e *entry, nulled []*AssocMeta) error {
	meta := e.meta
	sub, err := e.subtype()
	if err != nil {
		return errors.Wrapf(err, "%s", meta.Name)
	}

	current := meta.state(e.val)
	for i, col := range meta.columns {
		for _, a := range nulled {
			if col.assoc == a {
				current[i] = nil
			}
		}
	}

	generated := meta.ID.AutoIncrement && !meta.hasKey(e.val)
	for n, tw := range meta.writeTables(sub) {
		var cols []string
		var args []any
		if !generated || n > 0 {
			cols = append(cols, meta.ID.Column)
			args = append(args, meta.keyOf(e.val))
		}
		for _, i := range tw.cols {
			cols = append(cols, meta.columns[i].name)
			args = append(args, current[i])
		}

		var sql string
		if len(cols) == 0 {
			sql = "INSERT INTO " + tw.table + " DEFAULT VALUES"
		} else {
			sql = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tw.table, strings.Join(cols, ", "), placeholders(len(cols)))
		}

		if !generated || n > 0 {
			if _, err := s.exec(ctx, store.KindInsert, sql, args); err != nil {
				return errors.Wrapf(err, "insert %s", meta.Name)
			}

			continue
		}

		rows, err := s.fetch(ctx, sql+" RETURNING "+meta.ID.Column, args)
		if err != nil {
			return errors.Wrapf(err, "insert %s", meta.Name)
		}
		s.stats.Inserts++
		if rows.Len() != 1 || len(rows.Values[0]) != 1 {
			return errors.Errorf("insert %s returned %d rows", meta.Name, rows.Len())
		}
		if err := meta.setKey(e.val, rows.Values[0][0]); err != nil {
			return err
		}
	}

	if !e.keyed {
		e.key = meta.keyOf(e.val)
		e.keyed = true
		if err := s.identities.put(meta, e.key, e.ptr); err != nil {
			return err
		}
		for _, a := range meta.Assocs {
			if a.Kind == ToMany {
				if b := collectionOf(e.val, a).binding(); b != nil {
					b.ownerKey = e.key
				}
			}
		}
	}
	e.status = statusManaged
	e.snapshot = current

	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func (s *Session) applyDeferred(ctx context.Context, e *entry, assocs []*AssocMeta) error {
	current := e.meta.state(e.val)
	var sets []string
	var args []any
	for i, col := range e.meta.columns {
		for _, a := range assocs {
			if col.assoc == a {
				sets = append(sets, col.name+" = ?")
				args = append(args, current[i])
				e.snapshot[i] = current[i]
			}
		}
	}
	args = append(args, e.key)

	sub, err := e.subtype()
	if err != nil {
		return err
	}
	table := e.meta.writeTables(sub)[0].table
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", table, strings.Join(sets, ", "), e.meta.ID.Column)
	if _, err := s.exec(ctx, store.KindUpdate, sql, args); err != nil {
		return errors.Wrapf(err, "update %s", e.meta.Name)
	}

	return nil
}

// flushUpdates emits one UPDATE per dirty entity and table, covering only the
// changed columns.
func (s *Session) flushUpdates(ctx context.Context, managed []*entry) (int, error) {
	n := 0
	for _, e := range managed {
		if e.readOnly || e.snapshot == nil {
			continue
		}

		current := e.meta.state(e.val)
		changed := e.dirty(current)
		if len(changed) == 0 {
			continue
		}

		stored, err := e.storedSubtype()
		if err != nil {
			return n, err
		}
		if sub, err := e.subtype(); err != nil || sub != stored {
			return n, errors.Wrapf(ErrMapping, "%s#%v cannot change its subtype", e.meta.Name, e.key)
		}

		if e.meta.beforeUpdate {
			e.ptr.(beforeUpdater).BeforeUpdate()
			current = e.meta.state(e.val)
			changed = e.dirty(current)
		}

		for _, tw := range e.meta.writeTables(stored) {
			var sets []string
			var args []any
			for _, i := range changed {
				if containsInt(tw.cols, i) {
					sets = append(sets, e.meta.columns[i].name+" = ?")
					args = append(args, current[i])
				}
			}
			if len(sets) == 0 {
				continue
			}
			args = append(args, e.key)

			sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", tw.table, strings.Join(sets, ", "), e.meta.ID.Column)
			if _, err := s.exec(ctx, store.KindUpdate, sql, args); err != nil {
				return n, errors.Wrapf(err, "update %s", e.meta.Name)
			}
		}
		e.snapshot = current
		n++
	}

	return n, nil
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}

	return false
}

// flushDeletes removes rows after every other statement, deleting referrers
// before the rows they reference.
func (s *Session) flushDeletes(ctx context.Context, removed []*entry) (int, error) {
	pending := make([]*entry, 0, len(removed))
	for _, e := range removed {
		if e.keyed {
			pending = append(pending, e)
		}
	}

	n := 0
	for len(pending) > 0 {
		referenced := make(map[*entry]bool)
		for _, e := range pending {
			for _, a := range e.meta.Assocs {
				if !a.Owning() {
					continue
				}
				key, ok := s.ownerKeyOf(e.val, a)
				if !ok {
					continue
				}
				if ptr, ok := s.identities.get(a.target, key); ok {
					if te := s.tracker.get(ptr); te != nil && te != e && te.status == statusRemoved {
						referenced[te] = true
					}
				}
			}
		}

		var next []*entry
		progress := false
		for _, e := range pending {
			if referenced[e] {
				next = append(next, e)

				continue
			}
			if err := s.delete(ctx, e); err != nil {
				return n, err
			}
			n++
			progress = true
		}
		if !progress {
			// mutual references; let the store decide
			for _, e := range next {
				if err := s.delete(ctx, e); err != nil {
					return n, err
				}
				n++
			}
			next = nil
		}
		pending = next
	}

	return n, nil
}

func (s *Session) delete(ctx context.Context, e *entry) error {
	sub, err := e.storedSubtype()
	if err != nil {
		return err
	}

	tables := e.meta.writeTables(sub)
	for i := len(tables) - 1; i >= 0; i-- {
		sql := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", tables[i].table, e.meta.ID.Column)
		if _, err := s.exec(ctx, store.KindDelete, sql, []any{e.key}); err != nil {
			return errors.Wrapf(err, "delete %s", e.meta.Name)
		}
	}
	s.forget(e)

	return nil
}
