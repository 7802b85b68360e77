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
	"encoding/json"
	"errors"
	"strings"

	"github.com/tomoncle/sieve/types"
	"gopkg.in/yaml.v3"
)

type rawCriteria struct {
	Field    string          `json:"Field"`
	Operator json.RawMessage `json:"Operator"`
	Value    json.RawMessage `json:"Value"`
}

var jsonNull = []byte("null")

// ParseCriteria decodes the filters parameter: a JSON array of
// {Field, Operator, Value} objects. An empty or null input yields no
// criteria. Values are kept in their raw form for later coercion.
func ParseCriteria(raw string) ([]types.Criteria, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return []types.Criteria{}, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, malformed(err)
	}

	criteria := make([]types.Criteria, 0, len(elements))
	for _, element := range elements {
		c, err := parseElement(element)
		if err != nil {
			return nil, err
		}
		criteria = append(criteria, c)
	}
	return criteria, nil
}

// ParseCriteriaPtr is ParseCriteria for an optional parameter.
func ParseCriteriaPtr(raw *string) ([]types.Criteria, error) {
	if raw == nil {
		return []types.Criteria{}, nil
	}
	return ParseCriteria(*raw)
}

func parseElement(element json.RawMessage) (types.Criteria, error) {
	if bytes.Equal(bytes.TrimSpace(element), jsonNull) {
		return types.Criteria{}, malformed(errors.New("null criteria element"))
	}
	var rc rawCriteria
	if err := json.Unmarshal(element, &rc); err != nil {
		return types.Criteria{}, malformed(err)
	}

	var op types.Operator
	if err := op.UnmarshalJSON(rc.Operator); err != nil {
		if errors.Is(err, types.ErrUnsupportedOperator) {
			return types.Criteria{}, unsupportedOperator(rc.Field, operatorLiteral(rc.Operator), err)
		}
		return types.Criteria{}, malformed(err)
	}

	value := types.NullValue()
	if len(rc.Value) > 0 {
		if err := value.UnmarshalJSON(rc.Value); err != nil {
			e := malformed(err)
			e.Field = rc.Field
			return types.Criteria{}, e
		}
	}
	return types.NewCriteria(rc.Field, op, value), nil
}

func operatorLiteral(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// ParseCriteriaYAML decodes a YAML sequence of criteria using the same
// operator vocabulary and value model as ParseCriteria.
func ParseCriteriaYAML(data []byte) ([]types.Criteria, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []types.Criteria{}, nil
	}
	var criteria []types.Criteria
	if err := yaml.Unmarshal(data, &criteria); err != nil {
		return nil, classifyDecodeError(err)
	}
	if criteria == nil {
		criteria = []types.Criteria{}
	}
	return criteria, nil
}

func classifyDecodeError(err error) error {
	if errors.Is(err, types.ErrUnsupportedOperator) {
		return &Error{Kind: UnsupportedOperator, Param: ParamFilters, Message: "operator is not supported", Err: err}
	}
	return malformed(err)
}
