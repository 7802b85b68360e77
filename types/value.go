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
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindArray
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	default:
		return "null"
	}
}

// Value is an untyped filter value as sent by a client: null, a string, a
// number, a boolean or an array of values. Numbers keep their literal text
// so integer and decimal precision survives until coercion.
type Value struct {
	kind  ValueKind
	str   string
	num   json.Number
	flag  bool
	items []Value
}

// NullValue returns the absent value.
func NullValue() Value { return Value{} }

func StringValue(s string) Value { return Value{kind: KindString, str: s} }

func BoolValue(b bool) Value { return Value{kind: KindBool, flag: b} }

// NumberValue wraps a number literal. The literal is not validated here.
func NumberValue(n json.Number) Value { return Value{kind: KindNumber, num: n} }

func IntValue(i int64) Value { return NumberValue(json.Number(strconv.FormatInt(i, 10))) }

func FloatValue(f float64) Value {
	return NumberValue(json.Number(strconv.FormatFloat(f, 'g', -1, 64)))
}

func ArrayValue(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindArray, items: cp}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string variant.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Number returns the number literal variant.
func (v Value) Number() (json.Number, bool) { return v.num, v.kind == KindNumber }

// Bool returns the boolean variant.
func (v Value) Bool() (bool, bool) { return v.flag, v.kind == KindBool }

// Items returns a copy of the array variant.
func (v Value) Items() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	cp := make([]Value, len(v.items))
	copy(cp, v.items)
	return cp, true
}

// Scalar returns the Go representation used for generic conversion: the
// string, the number literal as a string, the bool, or nil.
func (v Value) Scalar() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num.String()
	case KindBool:
		return v.flag
	default:
		return nil
	}
}

// Literal renders the value the way it appeared on the wire, for messages.
func (v Value) Literal() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num.String()
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindArray:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.Literal()
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return "null"
	}
}

// Equal reports structural equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.flag == o.flag
	case KindArray:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
