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
	"bytes"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// orderable reports whether values of t can be compared with <, >.
func orderable(t reflect.Type) bool {
	switch t {
	case timeType, decimalType, uuidType:
		return true
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String, reflect.Bool:
		return true
	default:
		return false
	}
}

// compareValues orders two values of the same type. ok is false when the
// type has no ordering.
func compareValues(a, b reflect.Value) (c int, ok bool) {
	switch a.Type() {
	case timeType:
		return a.Interface().(time.Time).Compare(b.Interface().(time.Time)), true
	case decimalType:
		return a.Interface().(decimal.Decimal).Cmp(b.Interface().(decimal.Decimal)), true
	case uuidType:
		x, y := a.Interface().(uuid.UUID), b.Interface().(uuid.UUID)
		return bytes.Compare(x[:], y[:]), true
	}
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp3(a.Int() < b.Int(), a.Int() > b.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmp3(a.Uint() < b.Uint(), a.Uint() > b.Uint()), true
	case reflect.Float32, reflect.Float64:
		return cmp3(a.Float() < b.Float(), a.Float() > b.Float()), true
	case reflect.String:
		return strings.Compare(a.String(), b.String()), true
	case reflect.Bool:
		return cmp3(!a.Bool() && b.Bool(), a.Bool() && !b.Bool()), true
	default:
		return 0, false
	}
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	default:
		return 0
	}
}

// equalValues compares with the type's ordering when it has one, so that
// decimals and times compare by value rather than representation.
func equalValues(a, b reflect.Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	if c, ok := compareValues(a, b); ok {
		return c == 0
	}
	if a.Type().Comparable() {
		return a.Interface() == b.Interface()
	}
	return reflect.DeepEqual(a.Interface(), b.Interface())
}

func containsValue(set []reflect.Value, v reflect.Value) bool {
	for _, candidate := range set {
		if equalValues(v, candidate) {
			return true
		}
	}
	return false
}
