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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsupportedOperator is returned when an operator name or code is not
// part of the vocabulary.
var ErrUnsupportedOperator = errors.New("unsupported operator")

// Operator is a filter comparison operator. The numeric value is the stable
// wire code accepted in place of the name.
type Operator int

const (
	OpInvalid Operator = iota
	OpEquals
	OpNotEquals
	OpContains
	OpStartsWith
	OpEndsWith
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLessThan
	OpLessThanOrEqual
	OpIn
	OpNotIn
	OpIsNull
	OpIsNotNull
	OpRange
)

type operatorInfo struct {
	name string
	desc string
}

var operatorTable = map[Operator]operatorInfo{
	OpEquals:             {"Equals", "field equals value"},
	OpNotEquals:          {"NotEquals", "field differs from value"},
	OpContains:           {"Contains", "string field contains value, or collection field holds value"},
	OpStartsWith:         {"StartsWith", "string field starts with value"},
	OpEndsWith:           {"EndsWith", "string field ends with value"},
	OpGreaterThan:        {"GreaterThan", "field is greater than value"},
	OpGreaterThanOrEqual: {"GreaterThanOrEqual", "field is greater than or equal to value"},
	OpLessThan:           {"LessThan", "field is less than value"},
	OpLessThanOrEqual:    {"LessThanOrEqual", "field is less than or equal to value"},
	OpIn:                 {"In", "field is one of the listed values"},
	OpNotIn:              {"NotIn", "field is none of the listed values"},
	OpIsNull:             {"IsNull", "field is absent"},
	OpIsNotNull:          {"IsNotNull", "field is present"},
	OpRange:              {"Range", "field lies within [min, max] inclusive"},
}

// operatorNames maps lower-cased spellings to operators. Equal, NotEqual and
// Contain are kept as aliases because clients send either spelling.
var operatorNames = func() map[string]Operator {
	names := make(map[string]Operator, len(operatorTable)+3)
	for op, info := range operatorTable {
		names[strings.ToLower(info.name)] = op
	}
	names["equal"] = OpEquals
	names["notequal"] = OpNotEquals
	names["contain"] = OpContains
	return names
}()

// Operators returns every valid operator in code order.
func Operators() []Operator {
	ops := make([]Operator, 0, len(operatorTable))
	for op := OpEquals; op <= OpRange; op++ {
		ops = append(ops, op)
	}
	return ops
}

// ParseOperator resolves an operator by name (case-insensitive, aliases
// included) or by its numeric code. A purely numeric string is only ever
// looked up in the code table.
func ParseOperator(s string) (Operator, error) {
	key := strings.TrimSpace(s)
	if isDigits(key) {
		code, err := strconv.Atoi(key)
		if err != nil {
			return OpInvalid, fmt.Errorf("%w: %q", ErrUnsupportedOperator, s)
		}
		return OperatorFromCode(code)
	}
	if op, ok := operatorNames[strings.ToLower(key)]; ok {
		return op, nil
	}
	return OpInvalid, fmt.Errorf("%w: %q", ErrUnsupportedOperator, s)
}

// OperatorFromCode resolves an operator by its numeric wire code.
func OperatorFromCode(code int) (Operator, error) {
	op := Operator(code)
	if !op.IsValid() {
		return OpInvalid, fmt.Errorf("%w: %q", ErrUnsupportedOperator, strconv.Itoa(code))
	}
	return op, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (o Operator) IsValid() bool {
	_, ok := operatorTable[o]
	return ok
}

func (o Operator) Number() int {
	if !o.IsValid() {
		return IllegalValue
	}
	return int(o)
}

func (o Operator) String() string { return o.Name() }

func (o Operator) Name() string {
	if info, ok := operatorTable[o]; ok {
		return info.name
	}
	return IllegalName
}

func (o Operator) Desc() string {
	if info, ok := operatorTable[o]; ok {
		return info.desc
	}
	return IllegalDesc
}

// Members lists every operator, making Operator usable as an EnumSet.
func (o Operator) Members() []BaseEnum {
	ops := Operators()
	members := make([]BaseEnum, len(ops))
	for i, op := range ops {
		members[i] = op
	}
	return members
}

// RequiresValue reports whether the operator reads the criteria value.
func (o Operator) RequiresValue() bool {
	return o != OpIsNull && o != OpIsNotNull
}

// ExpectsList reports whether the value must be an array.
func (o Operator) ExpectsList() bool {
	return o == OpIn || o == OpNotIn || o == OpRange
}

// IsOrdering reports whether the operator needs an ordered field type.
func (o Operator) IsOrdering() bool {
	switch o {
	case OpGreaterThan, OpGreaterThanOrEqual, OpLessThan, OpLessThanOrEqual, OpRange:
		return true
	default:
		return false
	}
}

// IsSubstring reports whether the operator is a string prefix/suffix/infix test.
func (o Operator) IsSubstring() bool {
	return o == OpContains || o == OpStartsWith || o == OpEndsWith
}
