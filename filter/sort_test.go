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
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/sieve/types"
)

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
	debug []string
}

func (l *recordingLogger) Debug(msg string, fields ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = append(l.debug, msg+fmt.Sprint(fields...))
}

func (l *recordingLogger) Warn(msg string, fields ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg+fmt.Sprint(fields...))
}

func sorted(items []*widget, o Order[widget]) []*widget {
	out := slices.Clone(items)
	slices.SortStableFunc(out, o.Compare)
	return out
}

func TestResolveSort(t *testing.T) {
	schema := SchemaOf[widget]()

	o, err := ResolveSort(schema, types.NewSortSpec("PRICE", "DESC"), "id", nil)
	require.NoError(t, err)
	assert.Equal(t, "Price", o.Field.Name())
	assert.True(t, o.Descending)
	assert.Equal(t, []int{25, 20, 15, 10, 5}, ids(sorted(widgets(), o)))

	o, err = ResolveSort(schema, types.NewSortSpec("name", "sideways"), "", nil)
	require.NoError(t, err)
	assert.False(t, o.Descending)
	assert.Equal(t, []int{5, 10, 20, 25, 15}, ids(sorted(widgets(), o)), "ordinal string order")
}

func TestResolveSortDefault(t *testing.T) {
	o, err := ResolveSort(SchemaOf[widget](), types.SortSpec{}, "created", nil)
	require.NoError(t, err)
	assert.Equal(t, []int{20, 5, 10, 15, 25}, ids(sorted(widgets(), o)), "ties keep source order")

	o, err = ResolveSort(SchemaOf[widget](), types.SortSpec{}, "", nil)
	require.NoError(t, err)
	assert.True(t, o.IsZero())
	assert.Equal(t, 0, o.Compare(widgets()[0], widgets()[1]))
}

func TestResolveSortFallbackWarns(t *testing.T) {
	log := &recordingLogger{}
	o, err := ResolveSort(SchemaOf[widget](), types.NewSortSpec("colour", "desc"), "id", log)
	require.NoError(t, err)
	assert.Equal(t, "ID", o.Field.Name())
	assert.True(t, o.Descending)
	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], "colour")
}

func TestResolveSortUnknown(t *testing.T) {
	_, err := ResolveSort(SchemaOf[widget](), types.NewSortSpec("colour", ""), "", nil)
	require.ErrorIs(t, err, ErrUnknownField)
	fe, _ := AsError(err)
	assert.Equal(t, ParamSortBy, fe.Param)

	_, err = ResolveSort(SchemaOf[widget](), types.SortSpec{}, "missing", nil)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestOrderAbsentFirstAscending(t *testing.T) {
	schema := SchemaOf[widget]()
	asc, err := ResolveSort(schema, types.NewSortSpec("stock", "asc"), "", nil)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 15, 5, 25, 20}, ids(sorted(widgets(), asc)))

	desc, err := ResolveSort(schema, types.NewSortSpec("stock", "desc"), "", nil)
	require.NoError(t, err)
	assert.Equal(t, []int{20, 25, 5, 15, 10}, ids(sorted(widgets(), desc)))
}

func TestOrderSelfField(t *testing.T) {
	items := []string{"b", "a", "c"}
	ptrs := make([]*string, len(items))
	for i := range items {
		ptrs[i] = &items[i]
	}
	o, err := ResolveSort(SchemaOf[string](), types.NewSortSpec("value", "desc"), "", nil)
	require.NoError(t, err)
	slices.SortStableFunc(ptrs, o.Compare)
	got := make([]string, len(ptrs))
	for i, p := range ptrs {
		got[i] = *p
	}
	assert.Equal(t, []string{"c", "b", "a"}, got)
}
