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
	"strings"
)

// Criteria is one field/operator/value constraint supplied by a client.
// Field names are matched case-insensitively against the entity.
type Criteria struct {
	Field    string
	Operator Operator
	Value    Value
}

// NewCriteria builds a criteria triple.
func NewCriteria(field string, op Operator, value Value) Criteria {
	return Criteria{Field: field, Operator: op, Value: value}
}

// SortDirection is the direction of a single-key ordering.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection compares case-insensitively against asc/desc; anything
// unrecognised sorts ascending.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// SortSpec names the field to order by and the direction. An empty Field
// means the caller's default sort field.
type SortSpec struct {
	Field     string
	Direction SortDirection
}

// NewSortSpec builds a SortSpec from raw query strings.
func NewSortSpec(field, direction string) SortSpec {
	return SortSpec{Field: strings.TrimSpace(field), Direction: ParseSortDirection(direction)}
}

func (s SortSpec) Descending() bool { return s.Direction == SortDesc }
