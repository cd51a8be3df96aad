// Package pagination implements offset paging with count metadata over any
// ordered, already-filtered collection. The collection is reached through a
// minimal two-step contract (count, then slice) so the engine stays agnostic
// of the store behind it.
package pagination

import (
	"context"

	"github.com/YossiBenZaken/DatingApp/internal/apperrors"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Request carries caller-supplied paging parameters. Zero values mean
// "use defaults"; Normalize resolves them.
type Request struct {
	Page int
	Size int
}

// Normalize clamps the page to at least 1 and fills in the default size
// when none was supplied. An explicitly negative size is left in place so
// Paginate can reject it.
func (r Request) Normalize() Request {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Size == 0 {
		r.Size = DefaultPageSize
	}
	if r.Size > MaxPageSize {
		r.Size = MaxPageSize
	}
	return r
}

// Page is one bounded slice of an ordered collection plus count metadata.
// It is built fresh per query and never mutated afterwards.
type Page[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalCount  int `json:"total_count"`
	TotalPages  int `json:"total_pages"`
}

// Source is the minimal query capability Paginate needs: the total count of
// the filtered collection and an ordered window of it. Both observe the same
// filter and ordering; keeping the two reads consistent under concurrent
// writes is the store's concern and is best-effort only.
type Source[T any] interface {
	Count(ctx context.Context) (int, error)
	Slice(ctx context.Context, limit, offset int) ([]T, error)
}

// Paginate computes the window [(page-1)*size, page*size) over src along
// with the totals. A page past the end yields an empty page with correct
// metadata. A non-positive size fails with an invalid-argument error; a
// page below 1 is clamped instead. Callers that want the default size for
// an absent value normalize the request first.
func Paginate[T any](ctx context.Context, src Source[T], req Request) (*Page[T], error) {
	if req.Size <= 0 {
		return nil, apperrors.ErrInvalidPageSize
	}
	if req.Page < 1 {
		req.Page = 1
	}

	total, err := src.Count(ctx)
	if err != nil {
		return nil, err
	}

	p := &Page[T]{
		Items:       []T{},
		CurrentPage: req.Page,
		PageSize:    req.Size,
		TotalCount:  total,
		TotalPages:  (total + req.Size - 1) / req.Size,
	}

	offset := (req.Page - 1) * req.Size
	if offset >= total {
		return p, nil
	}

	items, err := src.Slice(ctx, req.Size, offset)
	if err != nil {
		return nil, err
	}
	p.Items = items
	return p, nil
}

// SliceSource adapts an ordered in-memory slice to the Source contract.
type SliceSource[T any] []T

func (s SliceSource[T]) Count(ctx context.Context) (int, error) {
	return len(s), nil
}

func (s SliceSource[T]) Slice(ctx context.Context, limit, offset int) ([]T, error) {
	if offset >= len(s) {
		return []T{}, nil
	}
	end := offset + limit
	if end > len(s) {
		end = len(s)
	}
	out := make([]T, end-offset)
	copy(out, s[offset:end])
	return out, nil
}

// FuncSource builds a Source from a pair of closures, handy for composing
// repository calls without a dedicated adapter type.
type FuncSource[T any] struct {
	CountFn func(ctx context.Context) (int, error)
	SliceFn func(ctx context.Context, limit, offset int) ([]T, error)
}

func (f FuncSource[T]) Count(ctx context.Context) (int, error) {
	return f.CountFn(ctx)
}

func (f FuncSource[T]) Slice(ctx context.Context, limit, offset int) ([]T, error) {
	return f.SliceFn(ctx, limit, offset)
}
