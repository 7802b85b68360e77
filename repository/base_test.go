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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/tomoncle/sieve/database"
	"github.com/tomoncle/sieve/types"
)

func newItemRepository(t *testing.T, seed bool) (Repository[item], *bun.DB) {
	t.Helper()
	db := newTestDB(t, seed)
	repo, err := NewRepository[item](db, itemLister(t))
	require.NoError(t, err)
	return repo, db
}

func TestRepositoryCrud(t *testing.T) {
	ctx := context.Background()
	repo, _ := newItemRepository(t, false)

	require.NoError(t, repo.Create(ctx, items()...))
	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	got, err := repo.GetOne(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Glass Vase", got.Name)
	assert.Equal(t, []string{"sale"}, got.Tags)
	require.NotNil(t, got.Stock)
	assert.Equal(t, int64(12), *got.Stock)

	got.Price = 18
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetOne(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 18.0, got.Price)

	require.NoError(t, repo.Delete(ctx, 4))
	_, err = repo.GetOne(ctx, 4)
	require.Error(t, err)
	assert.True(t, database.IsNotFound(err))

	assert.NoError(t, repo.Create(ctx))
}

func TestRepositoryCreateDuplicate(t *testing.T) {
	repo, _ := newItemRepository(t, true)
	err := repo.Create(context.Background(), &item{ID: 1, Name: "again"})
	require.Error(t, err)
	assert.True(t, database.IsDuplicateKey(err))
}

func TestRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	repo, _ := newItemRepository(t, true)

	err := repo.Upsert(ctx, []string{"name", "price"}, nil,
		&item{ID: 1, Name: "Oak Desk", Price: 99},
		&item{ID: 7, Name: "Wool Rug", Category: "decor", Price: 80})
	require.NoError(t, err)

	got, err := repo.GetOne(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Oak Desk", got.Name)
	assert.Equal(t, 99.0, got.Price)
	assert.Equal(t, "furniture", got.Category)
	require.NotNil(t, got.Stock)
	assert.Equal(t, int64(4), *got.Stock)

	got, err = repo.GetOne(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Wool Rug", got.Name)

	assert.Error(t, repo.Upsert(ctx, nil, nil, &item{ID: 1}))
}

func TestRepositoryPageAndFind(t *testing.T) {
	ctx := context.Background()
	repo, _ := newItemRepository(t, true)

	page, err := repo.Page(ctx, types.NewPageRequest(1, 2,
		`[{"Field":"Category","Operator":"Equals","Value":"decor"}]`, "", types.NewSortSpec("price", "desc")))
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 4}, itemIDs(page.Items()))
	assert.Equal(t, 2, page.TotalCount())
	assert.False(t, page.HasNextPage())

	found, err := repo.Find(ctx, `[{"Field":"Stock","Operator":"GreaterThanOrEqual","Value":5}]`)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5}, itemIDs(found))

	_, err = repo.Page(ctx, types.NewPageRequestWithFilter(1, 10, `[{"Field":"Colour","Operator":"Equals","Value":"red"}]`))
	assert.Error(t, err)
}

func TestRepositoryWithTx(t *testing.T) {
	ctx := context.Background()
	repo, db := newItemRepository(t, true)

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		txRepo := repo.WithTx(tx)
		if err := txRepo.Delete(ctx, 1); err != nil {
			return err
		}
		page, err := txRepo.Page(ctx, types.NewDefaultPageRequest(1, 10))
		if err != nil {
			return err
		}
		assert.Equal(t, 5, page.TotalCount())
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6, "rolled back")
}

func TestNewRepositoryDefaultLister(t *testing.T) {
	db := newTestDB(t, true)
	repo, err := NewRepository[item](db, nil)
	require.NoError(t, err)
	assert.NotNil(t, repo.Lister())
	assert.Equal(t, dialect.SQLite, repo.Dialect().Name())

	n, err := repo.Source().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}
