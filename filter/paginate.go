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

	"github.com/tomoncle/sieve/types"
)

// Queryable is a data source of T that can be narrowed, ordered and read in
// windows. Where and OrderBy return a new query and never modify the receiver.
// Count and Fetch are the only calls that touch the underlying storage; the
// context is handed to the storage unchanged.
type Queryable[T any] interface {
	Where(p Predicate[T]) Queryable[T]
	OrderBy(o Order[T]) Queryable[T]
	Count(ctx context.Context) (int, error)
	// Fetch materialises at most limit items starting at offset. A limit
	// below 1 reads to the end.
	Fetch(ctx context.Context, offset int, limit int) ([]*T, error)
}

// PageWindow normalises a 1-based page request: pageIndex below 1 becomes 1
// and pageSize below 1 becomes defaultSize (or types.DefaultPageSize). The
// offset saturates rather than overflowing.
func PageWindow(pageIndex int, pageSize int, defaultSize int) (index int, size int, offset int) {
	index = pageIndex
	if index < 1 {
		index = 1
	}
	size = pageSize
	if size < 1 {
		size = defaultSize
	}
	if size < 1 {
		size = types.DefaultPageSize
	}
	return index, size, types.Offset(index, size)
}

// Paginate counts q and fetches the requested page. No fetch is issued when
// the count is zero. Errors from the source are returned unchanged.
func Paginate[T any](ctx context.Context, q Queryable[T], pageIndex int, pageSize int) (*types.Pagination[T], error) {
	index, size, offset := PageWindow(pageIndex, pageSize, types.DefaultPageSize)
	total, err := q.Count(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 || offset >= total {
		return types.NewPagination[T](nil, index, size, total), nil
	}
	items, err := q.Fetch(ctx, offset, size)
	if err != nil {
		return nil, err
	}
	if len(items) > size {
		items = items[:size]
	}
	return types.NewPagination(items, index, size, total), nil
}
