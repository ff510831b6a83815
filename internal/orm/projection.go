package orm

import (
	"context"
	"reflect"

	"ormlab/internal/errors"
)

// Tuple is one row of a projection. Embedded values occupy one slot per field.
type Tuple []any

// Tuples runs the query as a projection of exprs. Results are plain values
// and never enter the identity map.
func (q *Query[T]) Tuples(ctx context.Context, s *Session, exprs ...Expr) ([]Tuple, error) {
	_, rows, err := s.project(ctx, q.spec, exprs)
	if err != nil {
		return nil, err
	}

	out := make([]Tuple, len(rows))
	for i, row := range rows {
		t := make(Tuple, len(row))
		for j, v := range row {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			t[j] = v
		}
		out[i] = t
	}

	return out, nil
}

// SelectInto runs q as a projection and fills one D per row, assigning the
// i-th expression to the i-th exported field of D. An embedded path fills a
// struct field of the embedded type.
func SelectInto[D, T any](ctx context.Context, s *Session, q *Query[T], exprs ...Expr) ([]D, error) {
	dt := reflect.TypeFor[D]()
	if dt.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrUnsupported, "projection target %s is not a struct", dt)
	}
	var targets [][]int
	for _, f := range reflect.VisibleFields(dt) {
		if f.IsExported() && !f.Anonymous {
			targets = append(targets, f.Index)
		}
	}
	if len(targets) != len(exprs) {
		return nil, errors.Wrapf(ErrMapping, "%s has %d fields for %d expressions", dt, len(targets), len(exprs))
	}

	cq, rows, err := s.project(ctx, q.spec, exprs)
	if err != nil {
		return nil, err
	}

	out := make([]D, len(rows))
	for i, row := range rows {
		dv := reflect.ValueOf(&out[i]).Elem()
		col := 0
		for j, width := range cq.widths {
			fv := dv.FieldByIndex(targets[j])
			if g := cq.groups[j]; g != nil {
				for k, f := range g.fields {
					if err := assignValue(fv.FieldByIndex(f.Index[g.depth:]), row[col+k]); err != nil {
						return nil, errors.Wrapf(err, "%s.%s", dt, f.Name)
					}
				}
			} else if err := assignValue(fv, row[col]); err != nil {
				return nil, errors.Wrapf(err, "%s field %d", dt, j)
			}
			col += width
		}
	}

	return out, nil
}

func (s *Session) project(ctx context.Context, spec *querySpec, exprs []Expr) (*compiled, [][]any, error) {
	if err := s.requireActive(); err != nil {
		return nil, nil, err
	}
	if err := s.autoFlush(ctx); err != nil {
		return nil, nil, err
	}

	cq, err := newCompiler(s.engine.registry, s.dialect).selectExprs(spec, exprs)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.query(ctx, cq.sql, cq.args)
	if err != nil {
		return nil, nil, err
	}

	return cq, rows.Values, nil
}
