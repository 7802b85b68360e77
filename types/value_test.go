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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValueJSONKeepsNumberLiteral(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`12345678901234567890.123456789`), &v))
	n, ok := v.Number()
	require.True(t, ok)
	assert.Equal(t, "12345678901234567890.123456789", n.String())

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "12345678901234567890.123456789", string(data))
}

func TestValueJSONKinds(t *testing.T) {
	cases := []struct {
		in   string
		kind ValueKind
	}{
		{`null`, KindNull},
		{`"abc"`, KindString},
		{`true`, KindBool},
		{`3`, KindNumber},
		{`[1, "a", null]`, KindArray},
	}
	for _, tc := range cases {
		var v Value
		require.NoError(t, json.Unmarshal([]byte(tc.in), &v), tc.in)
		assert.Equal(t, tc.kind, v.Kind(), tc.in)
	}

	var v Value
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"a":1}`), &v), ErrUnsupportedValue)
}

func TestValueArrayItemsAreCopied(t *testing.T) {
	v := ArrayValue(IntValue(1), IntValue(2))
	items, ok := v.Items()
	require.True(t, ok)
	items[0] = StringValue("x")

	again, _ := v.Items()
	assert.True(t, again[0].Equal(IntValue(1)))
	assert.Equal(t, "[1,2]", v.Literal())
}

func TestCriteriaJSONCaseInsensitiveKeys(t *testing.T) {
	var c Criteria
	require.NoError(t, json.Unmarshal([]byte(`{"field":"Age","OPERATOR":"GreaterThan","vAlUe":1}`), &c))
	assert.Equal(t, "Age", c.Field)
	assert.Equal(t, OpGreaterThan, c.Operator)
	assert.True(t, c.Value.Equal(IntValue(1)))
}

func TestCriteriaJSONMissingValueIsNull(t *testing.T) {
	var c Criteria
	require.NoError(t, json.Unmarshal([]byte(`{"FIELD":"Name","operator":"IsNull"}`), &c))
	assert.Equal(t, "Name", c.Field)
	assert.Equal(t, OpIsNull, c.Operator)
	assert.True(t, c.Value.IsNull())
}

func TestCriteriaYAML(t *testing.T) {
	src := `
- field: Price
  operator: Range
  value: [10, 20.5]
- Field: Name
  Operator: 4
  Value: "Pro"
`
	var out []Criteria
	require.NoError(t, yaml.Unmarshal([]byte(src), &out))
	require.Len(t, out, 2)

	assert.Equal(t, OpRange, out[0].Operator)
	items, ok := out[0].Value.Items()
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "20.5", items[1].Literal())

	assert.Equal(t, OpStartsWith, out[1].Operator)
	s, ok := out[1].Value.Str()
	require.True(t, ok)
	assert.Equal(t, "Pro", s)
}

func TestCriteriaYAMLRequiresOperator(t *testing.T) {
	var out []Criteria
	err := yaml.Unmarshal([]byte("- field: Name\n  value: x\n"), &out)
	assert.ErrorIs(t, err, ErrUnsupportedOperator)
}
