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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedValue is returned when a filter value is not a scalar or an
// array of scalars.
var ErrUnsupportedValue = errors.New("filter value must be a scalar or an array")

// MarshalJSON encodes the operator as its canonical name.
func (o Operator) MarshalJSON() ([]byte, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperator, strconv.Itoa(int(o)))
	}
	return json.Marshal(o.Name())
}

// UnmarshalJSON accepts a name, an alias, a numeric string or a JSON number.
func (o *Operator) UnmarshalJSON(data []byte) error {
	op, err := parseOperatorJSON(data)
	if err != nil {
		return err
	}
	*o = op
	return nil
}

func parseOperatorJSON(data []byte) (Operator, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return OpInvalid, fmt.Errorf("%w: %q", ErrUnsupportedOperator, "")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return OpInvalid, err
		}
		return ParseOperator(s)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return OpInvalid, fmt.Errorf("%w: %q", ErrUnsupportedOperator, string(data))
	}
	code, err := strconv.Atoi(n.String())
	if err != nil {
		return OpInvalid, fmt.Errorf("%w: %q", ErrUnsupportedOperator, n.String())
	}
	return OperatorFromCode(code)
}

// MarshalYAML encodes the operator as its canonical name.
func (o Operator) MarshalYAML() (interface{}, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperator, strconv.Itoa(int(o)))
	}
	return o.Name(), nil
}

// UnmarshalYAML accepts the same spellings as UnmarshalJSON.
func (o *Operator) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: operator must be a scalar (line %d)", ErrUnsupportedOperator, node.Line)
	}
	op, err := ParseOperator(node.Value)
	if err != nil {
		return err
	}
	*o = op
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return []byte(v.num.String()), nil
	case KindBool:
		return json.Marshal(v.flag)
	case KindArray:
		items := v.items
		if items == nil {
			items = []Value{}
		}
		return json.Marshal(items)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := valueFromInterface(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func valueFromInterface(raw interface{}) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return NullValue(), nil
	case string:
		return StringValue(x), nil
	case json.Number:
		return NumberValue(x), nil
	case bool:
		return BoolValue(x), nil
	case []interface{}:
		items := make([]Value, len(x))
		for i, item := range x {
			parsed, err := valueFromInterface(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = parsed
		}
		return Value{kind: KindArray, items: items}, nil
	default:
		return Value{}, ErrUnsupportedValue
	}
}

func (v Value) MarshalYAML() (interface{}, error) {
	switch v.kind {
	case KindString:
		return v.str, nil
	case KindNumber:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: numberTag(v.num), Value: v.num.String()}, nil
	case KindBool:
		return v.flag, nil
	case KindArray:
		return v.items, nil
	default:
		return nil, nil
	}
}

func numberTag(n json.Number) string {
	if _, err := n.Int64(); err == nil {
		return "!!int"
	}
	return "!!float"
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := valueFromYAML(node)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func valueFromYAML(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			return NullValue(), nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return Value{}, err
			}
			return BoolValue(b), nil
		case "!!int", "!!float":
			return NumberValue(json.Number(node.Value)), nil
		default:
			return StringValue(node.Value), nil
		}
	case yaml.SequenceNode:
		items := make([]Value, len(node.Content))
		for i, child := range node.Content {
			parsed, err := valueFromYAML(child)
			if err != nil {
				return Value{}, err
			}
			items[i] = parsed
		}
		return Value{kind: KindArray, items: items}, nil
	case yaml.AliasNode:
		return valueFromYAML(node.Alias)
	default:
		return Value{}, fmt.Errorf("%w (line %d)", ErrUnsupportedValue, node.Line)
	}
}

type criteriaJSON struct {
	Field    string          `json:"Field"`
	Operator json.RawMessage `json:"Operator"`
	Value    json.RawMessage `json:"Value"`
}

func (c Criteria) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Field    string   `json:"Field"`
		Operator Operator `json:"Operator"`
		Value    Value    `json:"Value"`
	}{c.Field, c.Operator, c.Value})
}

// UnmarshalJSON matches keys case-insensitively. A missing Value is null.
func (c *Criteria) UnmarshalJSON(data []byte) error {
	var raw criteriaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	op, err := parseOperatorJSON(raw.Operator)
	if err != nil {
		return err
	}
	value := NullValue()
	if len(raw.Value) > 0 {
		if err := value.UnmarshalJSON(raw.Value); err != nil {
			return err
		}
	}
	*c = Criteria{Field: raw.Field, Operator: op, Value: value}
	return nil
}

func (c Criteria) MarshalYAML() (interface{}, error) {
	return struct {
		Field    string   `yaml:"field"`
		Operator Operator `yaml:"operator"`
		Value    Value    `yaml:"value"`
	}{c.Field, c.Operator, c.Value}, nil
}

// UnmarshalYAML matches keys case-insensitively. A missing value is null.
func (c *Criteria) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("filter criteria must be a mapping (line %d)", node.Line)
	}
	var out Criteria
	var hasOperator bool
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch strings.ToLower(key.Value) {
		case "field":
			if err := val.Decode(&out.Field); err != nil {
				return err
			}
		case "operator":
			if err := out.Operator.UnmarshalYAML(val); err != nil {
				return err
			}
			hasOperator = true
		case "value":
			if err := out.Value.UnmarshalYAML(val); err != nil {
				return err
			}
		}
	}
	if !hasOperator {
		return fmt.Errorf("%w: %q", ErrUnsupportedOperator, "")
	}
	*c = out
	return nil
}
