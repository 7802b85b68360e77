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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseOperatorNames(t *testing.T) {
	cases := map[string]Operator{
		"Equals":             OpEquals,
		"equals":             OpEquals,
		"EQUALS":             OpEquals,
		"  GreaterThan ":     OpGreaterThan,
		"greaterthanorequal": OpGreaterThanOrEqual,
		"In":                 OpIn,
		"notin":              OpNotIn,
		"IsNull":             OpIsNull,
		"Range":              OpRange,
		"Equal":              OpEquals,
		"NotEqual":           OpNotEquals,
		"contain":            OpContains,
	}
	for in, want := range cases {
		got, err := ParseOperator(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseOperatorCodes(t *testing.T) {
	op, err := ParseOperator("1")
	require.NoError(t, err)
	assert.Equal(t, OpEquals, op)

	op, err = ParseOperator("14")
	require.NoError(t, err)
	assert.Equal(t, OpRange, op)

	for _, in := range []string{"0", "15", "99"} {
		_, err := ParseOperator(in)
		assert.ErrorIs(t, err, ErrUnsupportedOperator, in)
	}
}

func TestParseOperatorUnknown(t *testing.T) {
	for _, in := range []string{"", "NotAnOperator", "like", "Equals!"} {
		_, err := ParseOperator(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrUnsupportedOperator), in)
	}
}

func TestOperatorCodesAreStable(t *testing.T) {
	want := []Operator{
		OpEquals, OpNotEquals, OpContains, OpStartsWith, OpEndsWith,
		OpGreaterThan, OpGreaterThanOrEqual, OpLessThan, OpLessThanOrEqual,
		OpIn, OpNotIn, OpIsNull, OpIsNotNull, OpRange,
	}
	assert.Equal(t, want, Operators())
	for i, op := range want {
		assert.Equal(t, i+1, op.Number())
		assert.True(t, op.IsValid())
	}
	assert.False(t, OpInvalid.IsValid())
	assert.Equal(t, IllegalValue, OpInvalid.Number())
}

func TestOperatorNameRoundTrip(t *testing.T) {
	for _, op := range Operators() {
		got, err := ParseOperator(op.Name())
		require.NoError(t, err)
		assert.Equal(t, op, got)
	}
}

func TestOperatorClassification(t *testing.T) {
	assert.False(t, OpIsNull.RequiresValue())
	assert.False(t, OpIsNotNull.RequiresValue())
	assert.True(t, OpEquals.RequiresValue())

	assert.True(t, OpIn.ExpectsList())
	assert.True(t, OpNotIn.ExpectsList())
	assert.True(t, OpRange.ExpectsList())
	assert.False(t, OpEquals.ExpectsList())

	assert.True(t, OpRange.IsOrdering())
	assert.True(t, OpLessThanOrEqual.IsOrdering())
	assert.False(t, OpContains.IsOrdering())

	assert.True(t, OpStartsWith.IsSubstring())
	assert.False(t, OpIn.IsSubstring())
}

func TestOperatorJSON(t *testing.T) {
	data, err := json.Marshal(OpGreaterThan)
	require.NoError(t, err)
	assert.JSONEq(t, `"GreaterThan"`, string(data))

	var op Operator
	require.NoError(t, json.Unmarshal([]byte(`"lessthan"`), &op))
	assert.Equal(t, OpLessThan, op)
	require.NoError(t, json.Unmarshal([]byte(`10`), &op))
	assert.Equal(t, OpIn, op)

	assert.ErrorIs(t, json.Unmarshal([]byte(`42`), &op), ErrUnsupportedOperator)
	assert.ErrorIs(t, json.Unmarshal([]byte(`null`), &op), ErrUnsupportedOperator)
}

func TestOperatorYAML(t *testing.T) {
	data, err := yaml.Marshal(map[string]Operator{"op": OpStartsWith})
	require.NoError(t, err)
	assert.Equal(t, "op: StartsWith\n", string(data))

	var out map[string]Operator
	require.NoError(t, yaml.Unmarshal([]byte("op: 12\n"), &out))
	assert.Equal(t, OpIsNull, out["op"])
}
