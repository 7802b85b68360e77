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

// Package sieve serves filtered, sorted and paginated reads of bun models.
// Service is the entry point; the filter package holds the engine and the
// repository package its data sources.
package sieve

import (
	"context"
	"errors"
	"sync"

	"github.com/uptrace/bun"

	"github.com/tomoncle/sieve/database"
	"github.com/tomoncle/sieve/filter"
	"github.com/tomoncle/sieve/repository"
	"github.com/tomoncle/sieve/types"
)

type Service[T any] interface {
	// Get returns a single entity by its identifier.
	Get(ctx context.Context, id any) (*T, error)

	// All returns all entities.
	All(ctx context.Context) ([]*T, error)

	// Find returns every entity matching the filters JSON.
	Find(ctx context.Context, filters string) ([]*T, error)

	// Page returns a filtered, searched, sorted page of entities.
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)

	// Update modifies an existing entity.
	Update(ctx context.Context, model *T) error

	// Delete removes an entity by its identifier.
	Delete(ctx context.Context, id any) error

	// Save inserts one or more new entities.
	Save(ctx context.Context, model ...*T) error

	// SaveOrUpdate upserts entities based on fields and duplicate keys.
	SaveOrUpdate(ctx context.Context, fields []string, duplicateKeys []string, model ...*T) error

	// WithTx returns a service running every statement inside tx.
	WithTx(tx bun.Tx) Service[T]

	// SelectBuilder returns a Bun select query builder for the entity.
	SelectBuilder() *bun.SelectQuery
}

// ErrNotInitialized is returned by services created with NewService when the
// global database has not been initialized yet.
var ErrNotInitialized = errors.New("sieve: database not initialized")

type baseServiceImpl[T any] struct {
	db     bun.IDB
	lister *filter.Lister[T]
	repo   repository.Repository[T]
	mu     sync.Mutex
}

// NewService returns a Service over the global database connection, resolved
// on first use. The options are validated against T immediately.
func NewService[T any](opts filter.Options) (Service[T], error) {
	lister, err := filter.NewLister[T](opts)
	if err != nil {
		return nil, err
	}
	return &baseServiceImpl[T]{lister: lister}, nil
}

// NewServiceWithDB returns a Service over db.
func NewServiceWithDB[T any](db bun.IDB, opts filter.Options) (Service[T], error) {
	if db == nil {
		return nil, ErrNotInitialized
	}
	lister, err := filter.NewLister[T](opts)
	if err != nil {
		return nil, err
	}
	return &baseServiceImpl[T]{db: db, lister: lister}, nil
}

func (s *baseServiceImpl[T]) baseRepo() (repository.Repository[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo != nil {
		return s.repo, nil
	}
	db := s.db
	if db == nil {
		global := database.GetDB()
		if global == nil {
			return nil, ErrNotInitialized
		}
		db = global
	}
	repo, err := repository.NewRepository[T](db, s.lister)
	if err != nil {
		return nil, err
	}
	s.repo = repo
	return repo, nil
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, model ...*T) error {
	repo, err := s.baseRepo()
	if err != nil {
		return err
	}
	return repo.Create(ctx, model...)
}

func (s *baseServiceImpl[T]) SaveOrUpdate(ctx context.Context, fields []string, duplicateKeys []string, model ...*T) error {
	repo, err := s.baseRepo()
	if err != nil {
		return err
	}
	return repo.Upsert(ctx, fields, duplicateKeys, model...)
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id any) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.GetOne(ctx, id)
}

func (s *baseServiceImpl[T]) All(ctx context.Context) ([]*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.GetAll(ctx)
}

func (s *baseServiceImpl[T]) Find(ctx context.Context, filters string) ([]*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Find(ctx, filters)
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Page(ctx, page)
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, model *T) error {
	repo, err := s.baseRepo()
	if err != nil {
		return err
	}
	return repo.Update(ctx, model)
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, id any) error {
	repo, err := s.baseRepo()
	if err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}

func (s *baseServiceImpl[T]) WithTx(tx bun.Tx) Service[T] {
	return &baseServiceImpl[T]{db: tx, lister: s.lister}
}

// SelectBuilder returns nil while the database is not initialized.
func (s *baseServiceImpl[T]) SelectBuilder() *bun.SelectQuery {
	repo, err := s.baseRepo()
	if err != nil {
		return nil
	}
	return repo.NewSelect()
}
