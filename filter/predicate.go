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
	"reflect"
	"strings"

	"github.com/tomoncle/sieve/types"
)

// Predicate narrows a collection of T.
type Predicate[T any] interface {
	Match(entity *T) bool
}

// PredicateFunc adapts a closure to Predicate. Sources that translate
// predicates into queries cannot push these down.
type PredicateFunc[T any] func(entity *T) bool

func (f PredicateFunc[T]) Match(entity *T) bool { return f(entity) }

// All is the logical AND of its predicates. An empty All matches everything.
type All[T any] []Predicate[T]

func (a All[T]) Match(entity *T) bool {
	for _, p := range a {
		if !p.Match(entity) {
			return false
		}
	}
	return true
}

// Condition is one resolved and coerced criteria. Values holds one element
// for scalar operators, the list for In/NotIn, [min, max] for Range and
// nothing for IsNull/IsNotNull.
type Condition[T any] struct {
	Field    *Field[T]
	Operator types.Operator
	Values   []reflect.Value
}

// NewCondition resolves the criteria value against field, failing when the
// operator does not apply to the field's type or the value cannot be coerced.
func NewCondition[T any](field *Field[T], op types.Operator, value types.Value) (*Condition[T], error) {
	if !op.IsValid() {
		return nil, unsupportedOperator(field.Name(), op.Name(), nil)
	}
	cond := &Condition[T]{Field: field, Operator: op}
	if !op.RequiresValue() {
		return cond, nil
	}

	if field.IsCollection() {
		if op != types.OpContains {
			return nil, operatorMismatch(field, op)
		}
		v, err := Coerce(value, field.ElemType())
		if err != nil {
			return nil, err
		}
		cond.Values = []reflect.Value{v}
		return cond, nil
	}

	switch {
	case op.IsSubstring() && field.Type().Kind() != reflect.String:
		return nil, operatorMismatch(field, op)
	case op.IsOrdering() && !orderable(field.Type()):
		return nil, operatorMismatch(field, op)
	}

	if op.ExpectsList() {
		values, err := CoerceList(value, field.Type())
		if err != nil {
			return nil, err
		}
		if op == types.OpRange && len(values) != 2 {
			return nil, coercionFailure(value, field.Type(), fmt.Errorf("range requires exactly two bounds, got %d", len(values)))
		}
		cond.Values = values
		return cond, nil
	}

	v, err := Coerce(value, field.Type())
	if err != nil {
		return nil, err
	}
	cond.Values = []reflect.Value{v}
	return cond, nil
}

func operatorMismatch[T any](field *Field[T], op types.Operator) *Error {
	return &Error{
		Kind:    UnsupportedOperator,
		Param:   ParamFilters,
		Field:   field.Name(),
		Value:   op.Name(),
		Message: fmt.Sprintf("operator %q cannot be applied to field %s of type %s", op.Name(), field.Name(), field.Type()),
	}
}

// Interfaces returns the coerced values as plain Go values.
func (c *Condition[T]) Interfaces() []interface{} {
	out := make([]interface{}, len(c.Values))
	for i, v := range c.Values {
		out[i] = v.Interface()
	}
	return out
}

func (c *Condition[T]) Match(entity *T) bool {
	fv, ok := c.Field.Get(entity)
	switch c.Operator {
	case types.OpIsNull:
		return !ok
	case types.OpIsNotNull:
		return ok
	case types.OpNotEquals:
		return !ok || !equalValues(fv, c.Values[0])
	case types.OpNotIn:
		return !ok || !containsValue(c.Values, fv)
	}
	if !ok {
		return false
	}

	switch c.Operator {
	case types.OpEquals:
		return equalValues(fv, c.Values[0])
	case types.OpContains:
		if c.Field.IsCollection() {
			return collectionHolds(fv, c.Values[0])
		}
		return strings.Contains(fv.String(), c.Values[0].String())
	case types.OpStartsWith:
		return strings.HasPrefix(fv.String(), c.Values[0].String())
	case types.OpEndsWith:
		return strings.HasSuffix(fv.String(), c.Values[0].String())
	case types.OpGreaterThan:
		n, _ := compareValues(fv, c.Values[0])
		return n > 0
	case types.OpGreaterThanOrEqual:
		n, _ := compareValues(fv, c.Values[0])
		return n >= 0
	case types.OpLessThan:
		n, _ := compareValues(fv, c.Values[0])
		return n < 0
	case types.OpLessThanOrEqual:
		n, _ := compareValues(fv, c.Values[0])
		return n <= 0
	case types.OpIn:
		return containsValue(c.Values, fv)
	case types.OpRange:
		lo, _ := compareValues(fv, c.Values[0])
		hi, _ := compareValues(fv, c.Values[1])
		return lo >= 0 && hi <= 0
	default:
		return false
	}
}

func collectionHolds(collection reflect.Value, v reflect.Value) bool {
	for i := 0; i < collection.Len(); i++ {
		elem, ok := present(collection.Index(i))
		if ok && equalValues(elem, v) {
			return true
		}
	}
	return false
}

// Search is a free-text predicate: a case-insensitive substring test OR-ed
// across string fields. An empty term matches everything.
type Search[T any] struct {
	Term   string
	Fields []*Field[T]
}

// NewSearch resolves the search fields against schema. Every field must be
// string-typed.
func NewSearch[T any](schema *Schema[T], term string, fields ...string) (*Search[T], error) {
	s := &Search[T]{Term: strings.TrimSpace(term)}
	for _, name := range fields {
		f, err := schema.Resolve("searchFields", name)
		if err != nil {
			return nil, err
		}
		if f.Type().Kind() != reflect.String || f.IsCollection() {
			return nil, fmt.Errorf("search field %s must be a string, got %s", f.Name(), f.Type())
		}
		s.Fields = append(s.Fields, f)
	}
	return s, nil
}

func (s *Search[T]) Match(entity *T) bool {
	if s == nil || s.Term == "" {
		return true
	}
	needle := strings.ToLower(s.Term)
	for _, f := range s.Fields {
		if fv, ok := f.Get(entity); ok && strings.Contains(strings.ToLower(fv.String()), needle) {
			return true
		}
	}
	return false
}

// Build resolves every criteria against schema and ANDs the resulting
// conditions with the optional search predicate. It fails on the first
// criteria that cannot be resolved or coerced.
func Build[T any](schema *Schema[T], criteria []types.Criteria, search Predicate[T]) (All[T], error) {
	all := make(All[T], 0, len(criteria)+1)
	for _, c := range criteria {
		field, err := schema.Resolve(ParamFilters, c.Field)
		if err != nil {
			return nil, err
		}
		cond, err := NewCondition(field, c.Operator, c.Value)
		if err != nil {
			if fe, ok := AsError(err); ok && fe.Field == "" {
				fe.Field = c.Field
			}
			return nil, err
		}
		all = append(all, cond)
	}
	if search != nil {
		all = append(all, search)
	}
	return all, nil
}
