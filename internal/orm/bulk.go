package orm

import (
	"context"
	"reflect"

	"ormlab/internal/errors"
	"ormlab/internal/orm/store"
)

type assignment struct {
	field string
	value any
}

// BulkUpdate is a set-based UPDATE over one entity table. It bypasses the
// identity map: managed instances keep their in-memory state.
type BulkUpdate[T any] struct {
	spec *querySpec
	sets []assignment
}

// UpdateAll starts a bulk update of T bound to alias.
func UpdateAll[T any](alias string) *BulkUpdate[T] {
	return &BulkUpdate[T]{spec: newSpec(reflect.TypeFor[T](), alias)}
}

// Set assigns value, a literal or an Expr, to field.
func (u *BulkUpdate[T]) Set(field string, value any) *BulkUpdate[T] {
	u.sets = append(u.sets, assignment{field: field, value: value})

	return u
}

func (u *BulkUpdate[T]) Where(preds ...Predicate) *BulkUpdate[T] {
	u.spec.where = append(u.spec.where, preds...)

	return u
}

// Execute runs the statement and returns the number of affected rows.
func (u *BulkUpdate[T]) Execute(ctx context.Context, s *Session) (int64, error) {
	if len(u.sets) == 0 {
		return 0, errors.Wrap(ErrUnsupported, "bulk update without assignments")
	}

	return s.bulk(ctx, u.spec, func(c *compiler, root *aliasInfo) error {
		return c.updateStatement(u.spec, root, u.sets)
	})
}

// BulkDelete is a set-based DELETE over one entity table. Cascades and orphan
// removal do not apply.
type BulkDelete[T any] struct {
	spec *querySpec
}

// DeleteAll starts a bulk delete of T bound to alias.
func DeleteAll[T any](alias string) *BulkDelete[T] {
	return &BulkDelete[T]{spec: newSpec(reflect.TypeFor[T](), alias)}
}

func (d *BulkDelete[T]) Where(preds ...Predicate) *BulkDelete[T] {
	d.spec.where = append(d.spec.where, preds...)

	return d
}

// Execute runs the statement and returns the number of affected rows.
func (d *BulkDelete[T]) Execute(ctx context.Context, s *Session) (int64, error) {
	return s.bulk(ctx, d.spec, func(c *compiler, root *aliasInfo) error {
		c.sb.WriteString("DELETE FROM " + root.meta.Table + " AS " + root.name)

		return c.writePredicates(" WHERE ", d.spec.where)
	})
}

func (s *Session) bulk(ctx context.Context, spec *querySpec, render func(*compiler, *aliasInfo) error) (int64, error) {
	if err := s.requireActive(); err != nil {
		return 0, err
	}

	c := newCompiler(s.engine.registry, s.dialect)
	meta, err := c.rootMeta(spec)
	if err != nil {
		return 0, err
	}
	if h := meta.Hierarchy; h != nil && h.Strategy != SingleTable {
		return 0, errors.Wrapf(ErrUnsupported, "bulk statement over %s hierarchy %s", h.Strategy, meta.Name)
	}

	root, _, err := c.bind(spec)
	if err != nil {
		return 0, err
	}
	defer c.popScope()
	if err := render(c, root); err != nil {
		return 0, err
	}

	if err := s.autoFlush(ctx); err != nil {
		return 0, err
	}

	n, err := s.exec(ctx, store.KindOther, c.sb.String(), c.args)
	if err != nil {
		return 0, err
	}
	s.stats.BulkStatements++

	if s.engine.opts.DetectStale && n > 0 {
		s.identities.each(meta, func(_, ptr any) {
			if e := s.tracker.get(ptr); e != nil {
				e.stale = true
			}
		})
	}

	return n, nil
}

func (c *compiler) updateStatement(spec *querySpec, root *aliasInfo, sets []assignment) error {
	c.sb.WriteString("UPDATE " + root.meta.Table + " AS " + root.name + " SET ")
	for i, set := range sets {
		f, err := root.meta.Field(set.field)
		if err != nil {
			return err
		}
		if f == root.meta.ID {
			return errors.Wrapf(ErrUnsupported, "bulk update of key %s.%s", root.meta.Name, f.Name)
		}
		if i > 0 {
			c.sb.WriteString(", ")
		}
		c.sb.WriteString(f.Column + " = ")

		if e, ok := set.value.(Expr); ok {
			err = e.render(c)
		} else {
			err = c.bindValue(set.value)
		}
		if err != nil {
			return err
		}
	}

	return c.writePredicates(" WHERE ", spec.where)
}
