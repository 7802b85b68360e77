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
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies caller-input validation failures.
type ErrorKind int

const (
	UnknownKind ErrorKind = iota
	MalformedFilterSyntax
	UnsupportedOperator
	TypeCoercionFailure
	UnknownField
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedFilterSyntax:
		return "MalformedFilterSyntax"
	case UnsupportedOperator:
		return "UnsupportedOperator"
	case TypeCoercionFailure:
		return "TypeCoercionFailure"
	case UnknownField:
		return "UnknownField"
	default:
		return "Unknown"
	}
}

// ParamFilters is the request parameter carrying the filter JSON.
const ParamFilters = "filters"

// ParamSortBy is the request parameter carrying the sort field.
const ParamSortBy = "sortBy"

// Error is a validation error raised while parsing, coercing or resolving a
// list request. It is never produced for data source failures.
type Error struct {
	Kind    ErrorKind
	Param   string
	Field   string
	Value   string
	Message string
	Err     error
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrMalformedFilterSyntax = &Error{Kind: MalformedFilterSyntax}
	ErrUnsupportedOperator   = &Error{Kind: UnsupportedOperator}
	ErrTypeCoercionFailure   = &Error{Kind: TypeCoercionFailure}
	ErrUnknownField          = &Error{Kind: UnknownField}
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Param != "" {
		fmt.Fprintf(&b, " [param %s]", e.Param)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " [field %s]", e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Param == "" && t.Field == "" && t.Message == "" && t.Err == nil
}

// AsError extracts the validation error from err's chain.
func AsError(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// IsValidation reports whether err is a caller-input validation error.
func IsValidation(err error) bool {
	_, ok := AsError(err)
	return ok
}

func malformed(cause error) *Error {
	return &Error{
		Kind:    MalformedFilterSyntax,
		Param:   ParamFilters,
		Message: "filter specification is not a valid JSON array of criteria",
		Err:     cause,
	}
}

func unsupportedOperator(field string, literal string, cause error) *Error {
	return &Error{
		Kind:    UnsupportedOperator,
		Param:   ParamFilters,
		Field:   field,
		Value:   literal,
		Message: fmt.Sprintf("operator %q is not supported", literal),
		Err:     cause,
	}
}

func unknownField(param string, field string) *Error {
	return &Error{
		Kind:    UnknownField,
		Param:   param,
		Field:   field,
		Value:   field,
		Message: fmt.Sprintf("%q does not name a field of the entity", field),
	}
}
