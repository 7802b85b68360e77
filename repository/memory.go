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

package repository

import (
	"context"
	"slices"

	"github.com/tomoncle/sieve/filter"
)

// SliceSource is an in-memory filter.Queryable over a fixed slice of entities.
// The slice is shared, never modified; Where and OrderBy return new sources.
type SliceSource[T any] struct {
	items []*T
	where []filter.Predicate[T]
	order filter.Order[T]
}

// FromSlice wraps items. Nil elements are skipped when the source is read.
func FromSlice[T any](items []*T) *SliceSource[T] {
	return &SliceSource[T]{items: items}
}

// FromValues wraps copies of values.
func FromValues[T any](values []T) *SliceSource[T] {
	items := make([]*T, len(values))
	for i := range values {
		v := values[i]
		items[i] = &v
	}
	return &SliceSource[T]{items: items}
}

func (s *SliceSource[T]) Where(p filter.Predicate[T]) filter.Queryable[T] {
	next := *s
	next.where = append(slices.Clip(s.where), p)
	return &next
}

func (s *SliceSource[T]) OrderBy(o filter.Order[T]) filter.Queryable[T] {
	next := *s
	next.order = o
	return &next
}

func (s *SliceSource[T]) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(s.matching()), nil
}

func (s *SliceSource[T]) Fetch(ctx context.Context, offset int, limit int) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := s.matching()
	if !s.order.IsZero() {
		slices.SortStableFunc(items, s.order.Compare)
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []*T{}, nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (s *SliceSource[T]) matching() []*T {
	out := make([]*T, 0, len(s.items))
next:
	for _, item := range s.items {
		if item == nil {
			continue
		}
		for _, p := range s.where {
			if !p.Match(item) {
				continue next
			}
		}
		out = append(out, item)
	}
	return out
}
