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

package main

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/tomoncle/sieve/database"
	"github.com/tomoncle/sieve/repository"
	"github.com/tomoncle/sieve/types"
)

type Category int

const (
	CategoryHardware Category = iota + 1
	CategorySoftware
	CategoryBooks
	CategoryService
)

var categoryNames = map[Category]string{
	CategoryHardware: "hardware",
	CategorySoftware: "software",
	CategoryBooks:    "books",
	CategoryService:  "service",
}

func (c Category) IsValid() bool { _, ok := categoryNames[c]; return ok }

func (c Category) Number() int { return int(c) }

func (c Category) String() string { return c.Name() }

func (c Category) Name() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return types.IllegalName
}

func (c Category) Desc() string {
	if !c.IsValid() {
		return types.IllegalDesc
	}
	return strings.ToUpper(c.Name()[:1]) + c.Name()[1:]
}

func (c Category) Members() []types.BaseEnum {
	return []types.BaseEnum{CategoryHardware, CategorySoftware, CategoryBooks, CategoryService}
}

func (c Category) MarshalJSON() ([]byte, error) { return json.Marshal(c.Name()) }

// Product is the catalog entity served at /api/v1/products.
type Product struct {
	bun.BaseModel `bun:"table:products"`

	ID           uuid.UUID       `bun:"id,pk,type:varchar(36)" json:"id"`
	SKU          string          `bun:"sku,unique,notnull" json:"sku"`
	Name         string          `bun:"name,notnull" json:"name"`
	Description  string          `bun:"description" json:"description"`
	Category     Category        `bun:"category" json:"category"`
	Price        decimal.Decimal `bun:"price,type:decimal(12,2)" json:"price"`
	Stock        int             `bun:"stock" json:"stock"`
	Rating       *float64        `bun:"rating" json:"rating,omitempty"`
	Discontinued bool            `bun:"discontinued" json:"discontinued"`
	ReleasedAt   time.Time       `bun:"released_at" json:"releasedAt"`
}

func rating(v float64) *float64 { return &v }

func seedProducts() []*Product {
	day := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	sku := func(s string) uuid.UUID { return uuid.NewSHA1(uuid.NameSpaceOID, []byte(s)) }
	return []*Product{
		{ID: sku("HW-001"), SKU: "HW-001", Name: "Mechanical Keyboard", Description: "Tenkeyless, brown switches", Category: CategoryHardware, Price: decimal.RequireFromString("89.90"), Stock: 42, Rating: rating(4.6), ReleasedAt: day("2023-03-14")},
		{ID: sku("HW-002"), SKU: "HW-002", Name: "USB-C Dock", Description: "Dual display dock", Category: CategoryHardware, Price: decimal.RequireFromString("149.00"), Stock: 0, Rating: rating(4.1), ReleasedAt: day("2022-11-02")},
		{ID: sku("HW-003"), SKU: "HW-003", Name: "Trackball Mouse", Description: "Wireless trackball", Category: CategoryHardware, Price: decimal.RequireFromString("59.50"), Stock: 17, ReleasedAt: day("2021-06-30")},
		{ID: sku("SW-001"), SKU: "SW-001", Name: "Database Toolkit", Description: "Schema diff and migrations", Category: CategorySoftware, Price: decimal.RequireFromString("199.00"), Stock: 999, Rating: rating(4.8), ReleasedAt: day("2024-01-09")},
		{ID: sku("SW-002"), SKU: "SW-002", Name: "Log Viewer", Description: "Structured log explorer", Category: CategorySoftware, Price: decimal.RequireFromString("0.00"), Stock: 999, Rating: rating(3.9), ReleasedAt: day("2020-08-21")},
		{ID: sku("BK-001"), SKU: "BK-001", Name: "Practical Go", Description: "Idiomatic Go in production", Category: CategoryBooks, Price: decimal.RequireFromString("39.99"), Stock: 120, Rating: rating(4.7), ReleasedAt: day("2023-09-01")},
		{ID: sku("BK-002"), SKU: "BK-002", Name: "SQL Antipatterns", Description: "Avoiding the pitfalls of database programming", Category: CategoryBooks, Price: decimal.RequireFromString("34.95"), Stock: 8, ReleasedAt: day("2010-07-01")},
		{ID: sku("BK-003"), SKU: "BK-003", Name: "Designing Data-Intensive Applications", Description: "Reliable, scalable systems", Category: CategoryBooks, Price: decimal.RequireFromString("45.00"), Stock: 0, Rating: rating(4.9), Discontinued: true, ReleasedAt: day("2017-03-16")},
		{ID: sku("SV-001"), SKU: "SV-001", Name: "Onboarding Workshop", Description: "Two day team workshop", Category: CategoryService, Price: decimal.RequireFromString("2500.00"), Stock: 4, ReleasedAt: day("2024-05-20")},
		{ID: sku("SV-002"), SKU: "SV-002", Name: "Support Plan", Description: "Business hours support", Category: CategoryService, Price: decimal.RequireFromString("99.00"), Stock: 999, Rating: rating(4.2), ReleasedAt: day("2019-02-11")},
	}
}

// seedMigration loads the demo catalog, updating rows that already exist.
var seedMigration = database.MigrationItem{
	Version:     "100",
	Name:        "seed_products",
	Description: "Load the demo product catalog",
	Up: func(ctx context.Context, db bun.IDB) error {
		repo, err := repository.NewRepository[Product](db, nil)
		if err != nil {
			return err
		}
		return repo.Upsert(ctx,
			[]string{"name", "description", "category", "price", "stock", "rating", "discontinued", "released_at"},
			[]string{"id"},
			seedProducts()...)
	},
}
