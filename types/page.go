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

package types

import (
	"encoding/json"
	"math"
)

// DefaultPageSize is used when a request carries no usable page size.
const DefaultPageSize = 10

// PageRequest describes a list query as received from a client: a 1-based
// page index and page size, the raw filters JSON, a free-text search term
// and the requested ordering.
type PageRequest struct {
	page       int
	pageSize   int
	filters    string
	searchTerm string
	sort       SortSpec
	preset     string
}

// GetPage returns the page index, treating anything below 1 as 1.
func (p *PageRequest) GetPage() int {
	if p.page < 1 {
		return 1
	}
	return p.page
}

// GetPageSize returns the page size, or DefaultPageSize when below 1.
func (p *PageRequest) GetPageSize() int {
	return p.PageSizeOr(DefaultPageSize)
}

// PageSizeOr returns the page size, or def when the requested size is below 1.
func (p *PageRequest) PageSizeOr(def int) int {
	if p.pageSize < 1 {
		if def < 1 {
			return DefaultPageSize
		}
		return def
	}
	return p.pageSize
}

func (p *PageRequest) GetOffset() int {
	return Offset(p.GetPage(), p.GetPageSize())
}

// Offset returns (index-1)*size for a normalised 1-based page, saturating at
// math.MaxInt so that a huge index lands past the end instead of wrapping.
func Offset(index int, size int) int {
	if index <= 1 || size < 1 {
		return 0
	}
	if index-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (index - 1) * size
}

// GetFilters returns the raw filters JSON.
func (p *PageRequest) GetFilters() string {
	return p.filters
}

func (p *PageRequest) GetSearchTerm() string {
	return p.searchTerm
}

func (p *PageRequest) GetSort() SortSpec {
	return p.sort
}

// GetPreset returns the name of the saved filter set to apply, if any.
func (p *PageRequest) GetPreset() string {
	return p.preset
}

// WithSearch returns a copy of the request carrying the search term.
func (p *PageRequest) WithSearch(term string) *PageRequest {
	cp := *p
	cp.searchTerm = term
	return &cp
}

// WithPreset returns a copy of the request referencing a saved filter set.
func (p *PageRequest) WithPreset(name string) *PageRequest {
	cp := *p
	cp.preset = name
	return &cp
}

// NewPageRequest constructs a PageRequest with filters, search and sort settings.
func NewPageRequest(page int, pageSize int, filters string, searchTerm string, sort SortSpec) *PageRequest {
	return &PageRequest{page: page, pageSize: pageSize, filters: filters, searchTerm: searchTerm, sort: sort}
}

// NewPageRequestWithFilter constructs a PageRequest with filters only.
func NewPageRequestWithFilter(page int, pageSize int, filters string) *PageRequest {
	return NewPageRequest(page, pageSize, filters, "", SortSpec{})
}

// NewPageRequestWithSort constructs a PageRequest with ordering only.
func NewPageRequestWithSort(page int, pageSize int, sort SortSpec) *PageRequest {
	return NewPageRequest(page, pageSize, "", "", sort)
}

// NewDefaultPageRequest constructs a PageRequest with no filter or ordering.
func NewDefaultPageRequest(page int, pageSize int) *PageRequest {
	return NewPageRequest(page, pageSize, "", "", SortSpec{})
}

// Pagination is one page of results plus count and navigation metadata.
// It is built once per query and never modified afterwards.
type Pagination[T any] struct {
	items      []*T
	pageIndex  int
	pageSize   int
	totalCount int
	totalPages int
}

// NewPagination wraps a fetched page. pageIndex and pageSize must already be
// normalised (both at least 1).
func NewPagination[T any](items []*T, pageIndex int, pageSize int, totalCount int) *Pagination[T] {
	cp := make([]*T, len(items))
	copy(cp, items)
	totalPages := 0
	if totalCount > 0 && pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}
	return &Pagination[T]{
		items:      cp,
		pageIndex:  pageIndex,
		pageSize:   pageSize,
		totalCount: totalCount,
		totalPages: totalPages,
	}
}

// NewDefaultPagination constructs an empty page.
func NewDefaultPagination[T any](pageIndex int, pageSize int) *Pagination[T] {
	return NewPagination[T](nil, pageIndex, pageSize, 0)
}

// Items returns the page's entities in order.
func (p *Pagination[T]) Items() []*T {
	cp := make([]*T, len(p.items))
	copy(cp, p.items)
	return cp
}

func (p *Pagination[T]) Len() int { return len(p.items) }

func (p *Pagination[T]) PageIndex() int { return p.pageIndex }

func (p *Pagination[T]) PageSize() int { return p.pageSize }

func (p *Pagination[T]) TotalCount() int { return p.totalCount }

func (p *Pagination[T]) TotalPages() int { return p.totalPages }

func (p *Pagination[T]) HasPreviousPage() bool { return p.pageIndex > 1 }

func (p *Pagination[T]) HasNextPage() bool { return p.pageIndex < p.totalPages }

type paginationJSON[T any] struct {
	Items           []*T `json:"items"`
	PageIndex       int  `json:"pageIndex"`
	PageSize        int  `json:"pageSize"`
	TotalCount      int  `json:"totalCount"`
	TotalPages      int  `json:"totalPages"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
}

func (p *Pagination[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(paginationJSON[T]{
		Items:           p.items,
		PageIndex:       p.pageIndex,
		PageSize:        p.pageSize,
		TotalCount:      p.totalCount,
		TotalPages:      p.totalPages,
		HasPreviousPage: p.HasPreviousPage(),
		HasNextPage:     p.HasNextPage(),
	})
}
