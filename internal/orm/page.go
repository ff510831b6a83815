package orm

import (
	"context"

	"ormlab/internal/errors"
)

// Page is one window of results plus the total number of matching roots.
type Page[T any] struct {
	Content []*T
	Total   int64
	Offset  int
	Limit   int
}

func (p *Page[T]) TotalPages() int {
	if p.Limit <= 0 {
		return 1
	}

	return int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
}

// Number is the zero-based index of the page.
func (p *Page[T]) Number() int {
	if p.Limit <= 0 {
		return 0
	}

	return p.Offset / p.Limit
}

func (p *Page[T]) HasNext() bool {
	return int64(p.Offset+len(p.Content)) < p.Total
}

// Slice is a window that only knows whether another one follows.
type Slice[T any] struct {
	Content []*T
	Offset  int
	Limit   int
	HasNext bool
}

// Page runs the query over [offset, offset+limit) and then a separate count
// statement that keeps only the filtering joins.
func (q *Query[T]) Page(ctx context.Context, s *Session, offset, limit int) (*Page[T], error) {
	if offset < 0 || limit <= 0 {
		return nil, errors.Wrapf(ErrUnsupported, "page offset %d limit %d", offset, limit)
	}

	window := q.Clone().Offset(offset).Limit(limit)
	content, err := window.List(ctx, s)
	if err != nil {
		return nil, err
	}

	total, err := s.count(ctx, q.spec)
	if err != nil {
		return nil, err
	}

	return &Page[T]{Content: content, Total: total, Offset: offset, Limit: limit}, nil
}

// Slice fetches limit+1 rows to learn whether a next window exists, without a
// count statement.
func (q *Query[T]) Slice(ctx context.Context, s *Session, offset, limit int) (*Slice[T], error) {
	if offset < 0 || limit <= 0 {
		return nil, errors.Wrapf(ErrUnsupported, "slice offset %d limit %d", offset, limit)
	}

	content, err := q.Clone().Offset(offset).Limit(limit+1).List(ctx, s)
	if err != nil {
		return nil, err
	}

	out := &Slice[T]{Offset: offset, Limit: limit, HasNext: len(content) > limit}
	if out.HasNext {
		content = content[:limit]
	}
	out.Content = content

	return out, nil
}
