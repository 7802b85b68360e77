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
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tomoncle/sieve/types"
)

type level int

const (
	levelLow level = iota + 1
	levelMid
	levelHigh
)

func (l level) IsValid() bool { return l >= levelLow && l <= levelHigh }
func (l level) Number() int   { return int(l) }
func (l level) String() string { return l.Name() }
func (l level) Desc() string   { return l.Name() }
func (l level) Name() string {
	switch l {
	case levelLow:
		return "Low"
	case levelMid:
		return "Mid"
	case levelHigh:
		return "High"
	default:
		return types.IllegalName
	}
}
func (l level) Members() []types.BaseEnum {
	return []types.BaseEnum{levelLow, levelMid, levelHigh}
}

type audit struct {
	CreatedAt time.Time `bun:"created"`
}

type widget struct {
	audit
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	Price   float64         `json:"price"`
	Amount  decimal.Decimal `json:"amount"`
	Stock   *int            `json:"stock"`
	Tags    []string        `json:"tags"`
	Level   level           `json:"level"`
	Ref     uuid.UUID       `json:"ref"`
	Code    uint8           `json:"code"`
	Owner   *string         `json:"owner_name" bun:"owner"`
	Ignored string          `bun:"-"`
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func mustTime(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

var (
	refA = uuid.MustParse("2f1e6a1c-7a4b-4d8e-9a0b-111111111111")
	refB = uuid.MustParse("2f1e6a1c-7a4b-4d8e-9a0b-222222222222")
)

func widgets() []*widget {
	return []*widget{
		{ID: 5, Name: "Alpha", Price: 9.5, Amount: decimal.RequireFromString("10.10"), Stock: intPtr(3), Tags: []string{"red", "sale"}, Level: levelLow, Ref: refA, Code: 1, Owner: strPtr("ann"), audit: audit{mustTime("2024-01-10")}},
		{ID: 10, Name: "Beta", Price: 15, Amount: decimal.RequireFromString("20.00"), Stock: nil, Tags: []string{"blue"}, Level: levelMid, Ref: refB, Code: 2, audit: audit{mustTime("2024-02-01")}},
		{ID: 15, Name: "gamma ray", Price: 20, Amount: decimal.RequireFromString("20.0"), Stock: intPtr(0), Tags: nil, Level: levelHigh, Ref: refA, Code: 3, Owner: strPtr("bob"), audit: audit{mustTime("2024-03-15")}},
		{ID: 20, Name: "Delta", Price: 25.25, Amount: decimal.RequireFromString("5"), Stock: intPtr(12), Tags: []string{"sale"}, Level: levelMid, Ref: refB, Code: 4, audit: audit{mustTime("2023-12-31")}},
		{ID: 25, Name: "epsilon", Price: 30, Amount: decimal.RequireFromString("99.99"), Stock: intPtr(7), Tags: []string{}, Level: levelHigh, Ref: refA, Code: 5, Owner: strPtr("cy"), audit: audit{mustTime("2024-03-15")}},
	}
}

func ids(items []*widget) []int {
	out := make([]int, len(items))
	for i, w := range items {
		out[i] = w.ID
	}
	return out
}

func matching(p Predicate[widget], items []*widget) []*widget {
	var out []*widget
	for _, w := range items {
		if p.Match(w) {
			out = append(out, w)
		}
	}
	return out
}

func criteria(field string, op types.Operator, v types.Value) []types.Criteria {
	return []types.Criteria{types.NewCriteria(field, op, v)}
}
