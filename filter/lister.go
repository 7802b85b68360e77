/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package filter

import (
	"context"
	"fmt"
	"time"

	"github.com/tomoncle/sieve/types"
)

// Options configures a Lister.
type Options struct {
	// DefaultSort is the field used when a request names no sort field or
	// one that does not resolve. Empty keeps the source order.
	DefaultSort string
	// SearchFields are the string fields matched by the search term.
	SearchFields []string
	// DefaultPageSize replaces page sizes below 1. Zero means types.DefaultPageSize.
	DefaultPageSize int
	// MaxPageSize caps the page size. Zero disables the cap.
	MaxPageSize int
	Presets     Presets
	Logger      Logger
}

// Lister runs list requests for entity type T: parse filters, build the
// predicate chain, resolve the ordering and paginate. It holds no mutable
// state and is safe for concurrent use.
type Lister[T any] struct {
	schema *Schema[T]
	opts   Options
	logger Logger
}

// NewLister validates the options against T's schema.
func NewLister[T any](opts Options) (*Lister[T], error) {
	schema := SchemaOf[T]()
	if opts.DefaultSort != "" {
		if _, err := schema.Resolve(ParamSortBy, opts.DefaultSort); err != nil {
			return nil, fmt.Errorf("invalid default sort: %w", err)
		}
	}
	if _, err := NewSearch(schema, "", opts.SearchFields...); err != nil {
		return nil, fmt.Errorf("invalid search fields: %w", err)
	}
	for name, criteria := range opts.Presets {
		if _, err := Build(schema, criteria, nil); err != nil {
			return nil, fmt.Errorf("invalid preset %q: %w", name, err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = DefaultLogger()
	}
	return &Lister[T]{schema: schema, opts: opts, logger: logger}, nil
}

// Schema returns the field metadata of T.
func (l *Lister[T]) Schema() *Schema[T] { return l.schema }

// Plan is a validated list request ready to run against a source.
type Plan[T any] struct {
	Where     All[T]
	Order     Order[T]
	PageIndex int
	PageSize  int
	Offset    int
}

// Apply narrows and orders q.
func (p Plan[T]) Apply(q Queryable[T]) Queryable[T] {
	for _, pred := range p.Where {
		q = q.Where(pred)
	}
	if !p.Order.IsZero() {
		q = q.OrderBy(p.Order)
	}
	return q
}

// Prepare validates req without touching any data source.
func (l *Lister[T]) Prepare(req *types.PageRequest) (Plan[T], error) {
	criteria, err := ParseCriteria(req.GetFilters())
	if err != nil {
		return Plan[T]{}, err
	}
	if name := req.GetPreset(); name != "" {
		saved, ok := l.opts.Presets.Get(name)
		if !ok {
			e := unknownField(ParamPreset, name)
			e.Message = fmt.Sprintf("%q does not name a saved filter", name)
			return Plan[T]{}, e
		}
		criteria = append(append(make([]types.Criteria, 0, len(saved)+len(criteria)), saved...), criteria...)
	}

	var search Predicate[T]
	if term := req.GetSearchTerm(); term != "" {
		if len(l.opts.SearchFields) == 0 {
			l.logger.Debug("search term ignored, no search fields configured", "entity", l.schema.Type().String())
		} else {
			s, err := NewSearch(l.schema, term, l.opts.SearchFields...)
			if err != nil {
				return Plan[T]{}, err
			}
			search = s
		}
	}

	where, err := Build(l.schema, criteria, search)
	if err != nil {
		return Plan[T]{}, err
	}
	order, err := ResolveSort(l.schema, req.GetSort(), l.opts.DefaultSort, l.logger)
	if err != nil {
		return Plan[T]{}, err
	}

	size := req.PageSizeOr(l.opts.DefaultPageSize)
	if l.opts.MaxPageSize > 0 && size > l.opts.MaxPageSize {
		size = l.opts.MaxPageSize
	}
	index, size, offset := PageWindow(req.GetPage(), size, l.opts.DefaultPageSize)
	return Plan[T]{Where: where, Order: order, PageIndex: index, PageSize: size, Offset: offset}, nil
}

// List runs req against src and returns the requested page.
func (l *Lister[T]) List(ctx context.Context, src Queryable[T], req *types.PageRequest) (*types.Pagination[T], error) {
	plan, err := l.Prepare(req)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	page, err := Paginate(ctx, plan.Apply(src), plan.PageIndex, plan.PageSize)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("list query executed",
		"entity", l.schema.Type().String(),
		"conditions", len(plan.Where),
		"page", page.PageIndex(),
		"total", page.TotalCount(),
		"elapsed", time.Since(start))
	return page, nil
}

// Find returns every entity of src matching the filters JSON, ordered by the
// default sort field.
func (l *Lister[T]) Find(ctx context.Context, src Queryable[T], filters string) ([]*T, error) {
	plan, err := l.Prepare(types.NewPageRequestWithFilter(1, 0, filters))
	if err != nil {
		return nil, err
	}
	return plan.Apply(src).Fetch(ctx, 0, 0)
}
