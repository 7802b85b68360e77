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
	"github.com/tomoncle/sieve/types"
)

// Order is a single-key ordering. The zero Order leaves the source order.
type Order[T any] struct {
	Field      *Field[T]
	Descending bool
}

func (o Order[T]) IsZero() bool { return o.Field == nil }

// Compare orders two entities by the field. Absent values sort first in
// ascending order and last in descending order.
func (o Order[T]) Compare(a, b *T) int {
	if o.Field == nil {
		return 0
	}
	av, aok := o.Field.Get(a)
	bv, bok := o.Field.Get(b)
	var c int
	switch {
	case !aok && !bok:
		c = 0
	case !aok:
		c = -1
	case !bok:
		c = 1
	default:
		c, _ = compareValues(av, bv)
	}
	if o.Descending {
		return -c
	}
	return c
}

// ResolveSort turns a sort spec into an Order. An empty spec field uses
// defaultField. A spec field that does not resolve also falls back to
// defaultField, logging a warning so that typos stay visible; the default
// itself must resolve.
func ResolveSort[T any](schema *Schema[T], spec types.SortSpec, defaultField string, logger Logger) (Order[T], error) {
	order := Order[T]{Descending: spec.Descending()}
	if spec.Field != "" {
		if f, ok := schema.Lookup(spec.Field); ok {
			order.Field = f
			return order, nil
		}
		if defaultField == "" {
			return Order[T]{}, unknownField(ParamSortBy, spec.Field)
		}
		if logger != nil {
			logger.Warn("sort field not found, falling back to default",
				"requested", spec.Field, "default", defaultField, "entity", schema.Type().String())
		}
	}
	if defaultField == "" {
		return Order[T]{}, nil
	}
	f, err := schema.Resolve(ParamSortBy, defaultField)
	if err != nil {
		return Order[T]{}, err
	}
	order.Field = f
	return order, nil
}
