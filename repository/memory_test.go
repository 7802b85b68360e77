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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/sieve/filter"
	"github.com/tomoncle/sieve/types"
)

func TestSliceSourceWindow(t *testing.T) {
	ctx := context.Background()
	src := FromSlice(items())

	n, err := src.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	got, err := src.Fetch(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 5}, itemIDs(got))

	got, err = src.Fetch(ctx, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6}, itemIDs(got))

	got, err = src.Fetch(ctx, 10, 2)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSliceSourceIsImmutable(t *testing.T) {
	ctx := context.Background()
	base := FromSlice(items())
	cheap := base.Where(filter.PredicateFunc[item](func(it *item) bool { return it.Price < 40 }))

	n, err := cheap.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = base.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	order, err := filter.ResolveSort(filter.SchemaOf[item](), types.NewSortSpec("price", "desc"), "", nil)
	require.NoError(t, err)
	byPrice := cheap.OrderBy(order)
	got, err := byPrice.Fetch(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 3, 4}, itemIDs(got))

	got, err = cheap.Fetch(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 6}, itemIDs(got))
}

func TestSliceSourceSkipsNil(t *testing.T) {
	src := FromSlice([]*item{nil, {ID: 1}, nil})
	n, err := src.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFromValues(t *testing.T) {
	values := []item{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
	src := FromValues(values)
	values[0].Name = "changed"

	got, err := src.Fetch(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "a", got[0].Name)
}

func TestSliceSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FromSlice(items()).Count(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = FromSlice(items()).Fetch(ctx, 0, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSliceSourceWithLister(t *testing.T) {
	lister, err := filter.NewLister[string](filter.Options{DefaultSort: filter.SelfFieldName})
	require.NoError(t, err)

	req := types.NewPageRequestWithSort(1, 2, types.NewSortSpec("", "desc"))
	page, err := lister.List(context.Background(), FromValues([]string{"b", "a", "c"}), req)
	require.NoError(t, err)
	require.Equal(t, 2, page.Len())
	assert.Equal(t, "c", *page.Items()[0])
	assert.Equal(t, "b", *page.Items()[1])
	assert.Equal(t, 2, page.TotalPages())
}
