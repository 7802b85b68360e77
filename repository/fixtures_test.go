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

package repository

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID       int64    `bun:"id,pk,autoincrement" json:"id"`
	Name     string   `bun:"name,notnull" json:"name"`
	Category string   `bun:"category" json:"category"`
	Price    float64  `bun:"price" json:"price"`
	Stock    *int64   `bun:"stock" json:"stock"`
	Tags     []string `bun:"tags" json:"tags"`
}

func stock(n int64) *int64 { return &n }

func items() []*item {
	return []*item{
		{ID: 1, Name: "Oak Table", Category: "furniture", Price: 120, Stock: stock(4), Tags: []string{"wood"}},
		{ID: 2, Name: "Pine Chair", Category: "furniture", Price: 45.5, Tags: []string{"wood", "sale"}},
		{ID: 3, Name: "Steel Lamp", Category: "lighting", Price: 30, Stock: stock(0)},
		{ID: 4, Name: "Glass Vase", Category: "decor", Price: 15, Stock: stock(12), Tags: []string{"sale"}},
		{ID: 5, Name: "100% Cotton Throw", Category: "decor", Price: 60, Stock: stock(7)},
		{ID: 6, Name: "Desk_Lamp", Category: "lighting", Price: 35},
	}
}

func itemIDs(items []*item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func sortedIDs(items []*item) []int64 {
	out := itemIDs(items)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// newTestDB opens a private in-memory sqlite database holding the items table.
func newTestDB(t *testing.T, seed bool) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	_, err = db.NewCreateTable().Model((*item)(nil)).Exec(ctx)
	require.NoError(t, err)
	if seed {
		rows := items()
		_, err = db.NewInsert().Model(&rows).Exec(ctx)
		require.NoError(t, err)
	}
	return db
}
