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
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/tomoncle/sieve/types"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	uuidType     = reflect.TypeOf(uuid.UUID{})
	decimalType  = reflect.TypeOf(decimal.Decimal{})
	baseEnumType = reflect.TypeOf((*types.BaseEnum)(nil)).Elem()
	enumSetType  = reflect.TypeOf((*types.EnumSet)(nil)).Elem()
)

// isoLayouts are the ISO-8601 forms accepted for time fields.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Coerce converts a raw filter value into a value of type t. Pointer types
// are coerced to their element type.
func Coerce(v types.Value, t reflect.Type) (reflect.Value, error) {
	t = indirectType(t)
	switch v.Kind() {
	case types.KindNull:
		return reflect.Value{}, coercionFailure(v, t, errors.New("value is required"))
	case types.KindArray:
		return reflect.Value{}, coercionFailure(v, t, errors.New("a single value is required, got an array"))
	}

	if t.Implements(enumSetType) {
		return coerceEnumSet(v, t)
	}

	switch t {
	case uuidType:
		s, ok := v.Str()
		if !ok {
			return reflect.Value{}, coercionFailure(v, t, errors.Errorf("uuid must be a string, got %s", v.Kind()))
		}
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			return reflect.Value{}, coercionFailure(v, t, err)
		}
		return reflect.ValueOf(id), nil
	case timeType:
		s, ok := v.Str()
		if !ok {
			return reflect.Value{}, coercionFailure(v, t, errors.Errorf("time must be an ISO-8601 string, got %s", v.Kind()))
		}
		ts, err := parseISOTime(s)
		if err != nil {
			return reflect.Value{}, coercionFailure(v, t, err)
		}
		return reflect.ValueOf(ts), nil
	case decimalType:
		if v.Kind() == types.KindBool {
			return reflect.Value{}, coercionFailure(v, t, errors.New("decimal must be a number or numeric string"))
		}
		d, err := decimal.NewFromString(strings.TrimSpace(v.Literal()))
		if err != nil {
			return reflect.Value{}, coercionFailure(v, t, err)
		}
		return reflect.ValueOf(d), nil
	}

	out, err := coercePrimitive(v, t)
	if err != nil {
		return reflect.Value{}, coercionFailure(v, t, err)
	}
	if t.Implements(baseEnumType) && !out.Interface().(types.BaseEnum).IsValid() {
		return reflect.Value{}, coercionFailure(v, t, errors.New("not a member of the enum"))
	}
	return out, nil
}

// CoerceList converts an array value element by element.
func CoerceList(v types.Value, t reflect.Type) ([]reflect.Value, error) {
	items, ok := v.Items()
	if !ok {
		return nil, coercionFailure(v, indirectType(t), errors.Errorf("an array is required, got %s", v.Kind()))
	}
	out := make([]reflect.Value, len(items))
	for i, item := range items {
		cv, err := Coerce(item, t)
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return out, nil
}

func coercePrimitive(v types.Value, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	raw := v.Scalar()
	switch t.Kind() {
	case reflect.String:
		s, err := cast.ToStringE(raw)
		if err != nil {
			return out, err
		}
		out.SetString(s)
	case reflect.Bool:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return out, err
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(v, raw)
		if err != nil {
			return out, err
		}
		if out.OverflowInt(n) {
			return out, errors.Errorf("%d overflows %s", n, t)
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toUint64(v, raw)
		if err != nil {
			return out, err
		}
		if out.OverflowUint(n) {
			return out, errors.Errorf("%d overflows %s", n, t)
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return out, err
		}
		if out.OverflowFloat(f) {
			return out, errors.Errorf("%v overflows %s", f, t)
		}
		out.SetFloat(f)
	default:
		return out, errors.Errorf("unsupported target type %s", t)
	}
	return out, nil
}

// toInt64 reads string and number literals as base-10 integers. A literal
// such as "1e2" or "42.0" is accepted when it denotes an exact integer.
func toInt64(v types.Value, raw interface{}) (int64, error) {
	if v.Kind() != types.KindString && v.Kind() != types.KindNumber {
		return cast.ToInt64E(raw)
	}
	literal := v.Literal()
	n, err := strconv.ParseInt(literal, 10, 64)
	if err == nil {
		return n, nil
	}
	f, ok := exactInteger(literal)
	if !ok || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errors.Wrapf(err, "%q is not a base-10 integer", literal)
	}
	return int64(f), nil
}

func toUint64(v types.Value, raw interface{}) (uint64, error) {
	if v.Kind() != types.KindString && v.Kind() != types.KindNumber {
		return cast.ToUint64E(raw)
	}
	literal := v.Literal()
	n, err := strconv.ParseUint(literal, 10, 64)
	if err == nil {
		return n, nil
	}
	f, ok := exactInteger(literal)
	if !ok || f < 0 || f >= math.MaxUint64 {
		return 0, errors.Wrapf(err, "%q is not a base-10 unsigned integer", literal)
	}
	return uint64(f), nil
}

// exactInteger parses a decimal float literal without a fractional part.
// Hex and other prefixed forms are refused.
func exactInteger(literal string) (float64, bool) {
	lower := strings.ToLower(literal)
	if strings.Contains(lower, "0x") || strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(literal, "_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return f, true
}

// coerceEnumSet matches a member name case-insensitively, falling back to the
// member ordinal for integer-kinded enums.
func coerceEnumSet(v types.Value, t reflect.Type) (reflect.Value, error) {
	set := reflect.Zero(t).Interface().(types.EnumSet)
	if s, ok := v.Str(); ok {
		name := strings.TrimSpace(s)
		for _, m := range set.Members() {
			if strings.EqualFold(m.Name(), name) || strings.EqualFold(m.String(), name) {
				mv := reflect.ValueOf(m)
				if mv.Type().ConvertibleTo(t) {
					return mv.Convert(t), nil
				}
			}
		}
	}

	if isIntegerKind(t.Kind()) {
		if n, ok := ordinal(v); ok {
			out := reflect.New(t).Elem()
			if setOrdinal(out, n) && out.Interface().(types.BaseEnum).IsValid() {
				return out, nil
			}
		}
	}
	return reflect.Value{}, coercionFailure(v, t, errors.New("not a member name or ordinal of the enum"))
}

func ordinal(v types.Value) (int64, bool) {
	var literal string
	if n, ok := v.Number(); ok {
		literal = n.String()
	} else if s, ok := v.Str(); ok {
		literal = strings.TrimSpace(s)
	} else {
		return 0, false
	}
	n, err := strconv.ParseInt(literal, 10, 64)
	return n, err == nil
}

func setOrdinal(out reflect.Value, n int64) bool {
	switch out.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n < 0 || out.OverflowUint(uint64(n)) {
			return false
		}
		out.SetUint(uint64(n))
	default:
		if out.OverflowInt(n) {
			return false
		}
		out.SetInt(n)
	}
	return true
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func parseISOTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, errors.Errorf("%q is not an ISO-8601 date/time", s)
}

func coercionFailure(v types.Value, t reflect.Type, cause error) *Error {
	return &Error{
		Kind:    TypeCoercionFailure,
		Param:   ParamFilters,
		Value:   v.Literal(),
		Message: fmt.Sprintf("value %q cannot be converted to %s", v.Literal(), t),
		Err:     errors.WithStack(cause),
	}
}
