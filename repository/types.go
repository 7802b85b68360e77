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

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"

	"github.com/tomoncle/sieve/filter"
	"github.com/tomoncle/sieve/types"
)

// CrudRepository defines basic CRUD operations for a generic entity type.
type CrudRepository[T any] interface {
	GetOne(ctx context.Context, id any) (*T, error)

	GetAll(ctx context.Context) ([]*T, error)

	Create(ctx context.Context, entity ...*T) error

	Upsert(ctx context.Context, fields []string, duplicateKeys []string, entity ...*T) error

	Update(ctx context.Context, entity *T) error

	Delete(ctx context.Context, id any) error
}

// FilterRepository reads entities through the filter engine.
type FilterRepository[T any] interface {
	// Source returns an unfiltered query over the entity table.
	Source() filter.Queryable[T]

	// Find returns every entity matching the filters JSON.
	Find(ctx context.Context, filters string) ([]*T, error)

	// Page filters, searches, sorts and paginates.
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)
}

// Repository combines CRUD and filtered reads and exposes Bun query builders
// for advanced use cases.
type Repository[T any] interface {
	CrudRepository[T]
	FilterRepository[T]
	// WithTx returns a repository running every statement inside tx.
	WithTx(tx bun.Tx) Repository[T]
	Lister() *filter.Lister[T]
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
