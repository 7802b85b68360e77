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
	"reflect"
	"strings"
	"sync"
)

// SelfFieldName is the single field exposed by schemas of non-struct types,
// whose getter returns the element itself.
const SelfFieldName = "Value"

// Field is the metadata of one filterable member of T together with a getter
// closure built once per type.
type Field[T any] struct {
	name       string
	jsonName   string
	column     string
	typ        reflect.Type
	nullable   bool
	collection bool
	get        func(entity *T) (reflect.Value, bool)
}

// Name returns the Go field name.
func (f *Field[T]) Name() string { return f.name }

// Column returns the storage column name: the bun tag name, or the bun
// underscore convention applied to the Go name.
func (f *Field[T]) Column() string { return f.column }

// Type returns the field's value type with any pointer indirection removed.
func (f *Field[T]) Type() reflect.Type { return f.typ }

// Nullable reports whether the field can be absent (pointer, slice or map).
func (f *Field[T]) Nullable() bool { return f.nullable }

// IsCollection reports whether the field holds a list of elements.
func (f *Field[T]) IsCollection() bool { return f.collection }

// ElemType returns the element type of a collection field, dereferenced.
func (f *Field[T]) ElemType() reflect.Type {
	if !f.collection {
		return f.typ
	}
	return indirectType(f.typ.Elem())
}

// Get returns the field value of entity with pointers dereferenced. The bool
// is false when the value is absent (nil entity, nil pointer, nil slice).
func (f *Field[T]) Get(entity *T) (reflect.Value, bool) {
	if entity == nil {
		return reflect.Value{}, false
	}
	return f.get(entity)
}

// Schema is the case-insensitive field registry of an entity type.
type Schema[T any] struct {
	typ    reflect.Type
	fields []*Field[T]
	lookup map[string]*Field[T]
}

var schemaCache sync.Map // reflect.Type -> *Schema[T]

// SchemaOf returns the cached schema of T, building it on first use.
func SchemaOf[T any]() *Schema[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if cached, ok := schemaCache.Load(t); ok {
		return cached.(*Schema[T])
	}
	actual, _ := schemaCache.LoadOrStore(t, buildSchema[T](t))
	return actual.(*Schema[T])
}

// Type returns the entity type described by the schema.
func (s *Schema[T]) Type() reflect.Type { return s.typ }

// Fields returns the fields in declaration order.
func (s *Schema[T]) Fields() []*Field[T] {
	cp := make([]*Field[T], len(s.fields))
	copy(cp, s.fields)
	return cp
}

// Lookup resolves a field by Go name, json name or column, ignoring case.
func (s *Schema[T]) Lookup(name string) (*Field[T], bool) {
	f, ok := s.lookup[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Resolve is Lookup returning an UnknownField error attributed to param.
func (s *Schema[T]) Resolve(param string, name string) (*Field[T], error) {
	if f, ok := s.Lookup(name); ok {
		return f, nil
	}
	return nil, unknownField(param, name)
}

func buildSchema[T any](t reflect.Type) *Schema[T] {
	s := &Schema[T]{typ: t, lookup: map[string]*Field[T]{}}
	if t.Kind() != reflect.Struct || t == timeType || t == decimalType {
		s.addSelfField(t)
		return s
	}

	for _, sf := range reflect.VisibleFields(t) {
		if sf.Anonymous || !sf.IsExported() || skipBunField(sf) {
			continue
		}
		if k := sf.Type.Kind(); k == reflect.Interface || k == reflect.Func || k == reflect.Chan {
			continue
		}
		s.fields = append(s.fields, newStructField[T](sf))
	}

	// Go names win over json names, which win over columns.
	for _, f := range s.fields {
		s.register(f.name, f)
	}
	for _, f := range s.fields {
		s.register(f.jsonName, f)
	}
	for _, f := range s.fields {
		s.register(f.column, f)
	}
	return s
}

func (s *Schema[T]) register(name string, f *Field[T]) {
	if name == "" {
		return
	}
	key := strings.ToLower(name)
	if _, exists := s.lookup[key]; !exists {
		s.lookup[key] = f
	}
}

func (s *Schema[T]) addSelfField(t reflect.Type) {
	f := &Field[T]{
		name:   SelfFieldName,
		column: strings.ToLower(SelfFieldName),
		typ:    indirectType(t),
	}
	f.nullable = t.Kind() == reflect.Ptr
	f.collection = isCollectionType(f.typ)
	f.get = func(entity *T) (reflect.Value, bool) {
		return present(reflect.ValueOf(entity).Elem())
	}
	s.fields = append(s.fields, f)
	s.register(f.name, f)
}

func newStructField[T any](sf reflect.StructField) *Field[T] {
	index := sf.Index
	f := &Field[T]{
		name:     sf.Name,
		jsonName: jsonTagName(sf),
		column:   columnName(sf),
		typ:      indirectType(sf.Type),
	}
	f.collection = isCollectionType(f.typ)
	f.nullable = sf.Type.Kind() == reflect.Ptr || sf.Type.Kind() == reflect.Slice || sf.Type.Kind() == reflect.Map
	f.get = func(entity *T) (reflect.Value, bool) {
		v, err := reflect.ValueOf(entity).Elem().FieldByIndexErr(index)
		if err != nil {
			// nil embedded pointer on the path
			return reflect.Value{}, false
		}
		return present(v)
	}
	return f
}

func present(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if (v.Kind() == reflect.Slice || v.Kind() == reflect.Map) && v.IsNil() {
		return reflect.Value{}, false
	}
	return v, true
}

func indirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func isCollectionType(t reflect.Type) bool {
	if t == uuidType {
		return false
	}
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

func skipBunField(sf reflect.StructField) bool {
	tag, ok := sf.Tag.Lookup("bun")
	if !ok {
		return false
	}
	if tag == "-" {
		return true
	}
	return strings.Contains(tag, "rel:") || strings.Contains(tag, "m2m:")
}

func jsonTagName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

func columnName(sf reflect.StructField) string {
	if tag, ok := sf.Tag.Lookup("bun"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && !strings.Contains(name, ":") {
			return name
		}
	}
	return underscore(sf.Name)
}

// underscore follows bun's column naming: "UserID" -> "user_id".
func underscore(s string) string {
	r := make([]byte, 0, len(s)+5)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUpper(c) {
			if i > 0 && i+1 < len(s) && (isLower(s[i-1]) || isLower(s[i+1])) {
				r = append(r, '_', c+32)
			} else {
				r = append(r, c+32)
			}
		} else {
			r = append(r, c)
		}
	}
	return string(r)
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
