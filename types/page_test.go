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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRequestDefaults(t *testing.T) {
	req := NewDefaultPageRequest(0, 0)
	assert.Equal(t, 1, req.GetPage())
	assert.Equal(t, DefaultPageSize, req.GetPageSize())
	assert.Equal(t, 25, req.PageSizeOr(25))
	assert.Equal(t, 0, req.GetOffset())

	req = NewDefaultPageRequest(3, 20)
	assert.Equal(t, 40, req.GetOffset())
	assert.Equal(t, 20, req.PageSizeOr(25))
}

func TestOffsetSaturates(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 0, Offset(-3, 10))
	assert.Equal(t, 90, Offset(10, 10))
	assert.Equal(t, math.MaxInt, Offset(math.MaxInt, 2))
	assert.Equal(t, math.MaxInt, Offset((1<<62)+1, 4))

	req := NewDefaultPageRequest(math.MaxInt, 100)
	assert.Equal(t, math.MaxInt, req.GetOffset())
}

func TestPageRequestWithersCopy(t *testing.T) {
	req := NewPageRequestWithFilter(1, 5, `[]`)
	searched := req.WithSearch("pro").WithPreset("in-stock")

	assert.Empty(t, req.GetSearchTerm())
	assert.Empty(t, req.GetPreset())
	assert.Equal(t, "pro", searched.GetSearchTerm())
	assert.Equal(t, "in-stock", searched.GetPreset())
	assert.Equal(t, `[]`, searched.GetFilters())
}

func TestSortSpec(t *testing.T) {
	assert.True(t, NewSortSpec("name", "DESC").Descending())
	assert.False(t, NewSortSpec("name", "asc").Descending())
	assert.False(t, NewSortSpec("name", "sideways").Descending())
	assert.Equal(t, "name", NewSortSpec("  name ", "").Field)
}

func TestPaginationNavigation(t *testing.T) {
	one, two, three := 1, 2, 3
	page := NewPagination([]*int{&three, &two}, 2, 2, 5)

	assert.Equal(t, 3, page.TotalPages())
	assert.True(t, page.HasPreviousPage())
	assert.True(t, page.HasNextPage())

	first := NewPagination([]*int{&one}, 1, 2, 1)
	assert.False(t, first.HasPreviousPage())
	assert.False(t, first.HasNextPage())

	empty := NewDefaultPagination[int](1, 10)
	assert.Equal(t, 0, empty.TotalPages())
	assert.False(t, empty.HasNextPage())
}

func TestPaginationIsImmutable(t *testing.T) {
	a, b := 1, 2
	items := []*int{&a, &b}
	page := NewPagination(items, 1, 2, 2)

	items[0] = &b
	got := page.Items()
	assert.Equal(t, 1, *got[0])

	got[1] = &a
	assert.Equal(t, 2, *page.Items()[1])
}

func TestPaginationJSON(t *testing.T) {
	a := "x"
	data, err := json.Marshal(NewPagination([]*string{&a}, 1, 1, 3))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"items": ["x"],
		"pageIndex": 1,
		"pageSize": 1,
		"totalCount": 3,
		"totalPages": 3,
		"hasPreviousPage": false,
		"hasNextPage": true
	}`, string(data))

	data, err = json.Marshal(NewDefaultPagination[string](1, 10))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"items":[]`)
}
