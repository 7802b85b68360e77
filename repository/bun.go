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
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/tomoncle/sieve/filter"
	"github.com/tomoncle/sieve/types"
)

const likeEscape = '!'

// BunSource is a filter.Queryable that pushes conditions, search and ordering
// down into a bun select. Conditions on collection fields and PredicateFunc
// values cannot be expressed in SQL; Count and Fetch report them.
type BunSource[T any] struct {
	db    bun.IDB
	where []filter.Predicate[T]
	order filter.Order[T]
	err   error
}

// NewBunSource returns a source over T's table. db may be a *bun.DB, a
// bun.Tx or a bun.Conn.
func NewBunSource[T any](db bun.IDB) *BunSource[T] {
	return &BunSource[T]{db: db}
}

func (s *BunSource[T]) Where(p filter.Predicate[T]) filter.Queryable[T] {
	next := *s
	next.where = append(append([]filter.Predicate[T](nil), s.where...), p)
	if next.err == nil {
		next.err = checkTranslatable(p)
	}
	return &next
}

func (s *BunSource[T]) OrderBy(o filter.Order[T]) filter.Queryable[T] {
	next := *s
	next.order = o
	return &next
}

func (s *BunSource[T]) Count(ctx context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.selectQuery((*T)(nil)).Count(ctx)
}

func (s *BunSource[T]) Fetch(ctx context.Context, offset int, limit int) ([]*T, error) {
	if s.err != nil {
		return nil, s.err
	}
	items := make([]*T, 0)
	q := s.selectQuery(&items)
	if !s.order.IsZero() {
		q = q.OrderExpr(s.orderExpr(), bun.Ident(s.order.Field.Column()))
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return items, nil
}

// SQL returns the select statement Fetch would run, for logging and tests.
func (s *BunSource[T]) SQL(offset int, limit int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	q := s.selectQuery((*T)(nil))
	if !s.order.IsZero() {
		q = q.OrderExpr(s.orderExpr(), bun.Ident(s.order.Field.Column()))
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q.String(), nil
}

func (s *BunSource[T]) selectQuery(model interface{}) *bun.SelectQuery {
	q := s.db.NewSelect().Model(model)
	for _, p := range s.where {
		q = applyPredicate(q, p)
	}
	return q
}

// orderExpr keeps absent values first in ascending order on every dialect.
func (s *BunSource[T]) orderExpr() string {
	dir := "ASC"
	if s.order.Descending {
		dir = "DESC"
	}
	if s.db.Dialect().Name() == dialect.PG {
		if s.order.Descending {
			return "?TableAlias.? DESC NULLS LAST"
		}
		return "?TableAlias.? ASC NULLS FIRST"
	}
	return "?TableAlias.? " + dir
}

func checkTranslatable[T any](p filter.Predicate[T]) error {
	switch p := p.(type) {
	case filter.All[T]:
		for _, child := range p {
			if err := checkTranslatable(child); err != nil {
				return err
			}
		}
		return nil
	case *filter.Condition[T]:
		if p.Field.IsCollection() {
			return fmt.Errorf("condition on collection field %s cannot be translated to SQL", p.Field.Name())
		}
		return nil
	case *filter.Search[T]:
		return nil
	default:
		return fmt.Errorf("predicate %T cannot be translated to SQL", p)
	}
}

func applyPredicate[T any](q *bun.SelectQuery, p filter.Predicate[T]) *bun.SelectQuery {
	switch p := p.(type) {
	case filter.All[T]:
		for _, child := range p {
			q = applyPredicate(q, child)
		}
	case *filter.Condition[T]:
		q = applyCondition(q, p)
	case *filter.Search[T]:
		if p == nil || p.Term == "" || len(p.Fields) == 0 {
			return q
		}
		pattern := "%" + escapeLike(strings.ToLower(p.Term)) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			for _, f := range p.Fields {
				q = q.WhereOr("LOWER(?TableAlias.?) LIKE ? ESCAPE '!'", bun.Ident(f.Column()), pattern)
			}
			return q
		})
	}
	return q
}

func applyCondition[T any](q *bun.SelectQuery, c *filter.Condition[T]) *bun.SelectQuery {
	col := bun.Ident(c.Field.Column())
	args := c.Interfaces()
	switch c.Operator {
	case types.OpEquals:
		return q.Where("?TableAlias.? = ?", col, args[0])
	case types.OpNotEquals:
		return q.Where("(?TableAlias.? <> ? OR ?TableAlias.? IS NULL)", col, args[0], col)
	case types.OpContains:
		return q.Where("?TableAlias.? LIKE ? ESCAPE '!'", col, "%"+escapeLike(c.Values[0].String())+"%")
	case types.OpStartsWith:
		return q.Where("?TableAlias.? LIKE ? ESCAPE '!'", col, escapeLike(c.Values[0].String())+"%")
	case types.OpEndsWith:
		return q.Where("?TableAlias.? LIKE ? ESCAPE '!'", col, "%"+escapeLike(c.Values[0].String()))
	case types.OpGreaterThan:
		return q.Where("?TableAlias.? > ?", col, args[0])
	case types.OpGreaterThanOrEqual:
		return q.Where("?TableAlias.? >= ?", col, args[0])
	case types.OpLessThan:
		return q.Where("?TableAlias.? < ?", col, args[0])
	case types.OpLessThanOrEqual:
		return q.Where("?TableAlias.? <= ?", col, args[0])
	case types.OpIn:
		if len(args) == 0 {
			return q.Where("1 = 0")
		}
		return q.Where("?TableAlias.? IN (?)", col, bun.In(args))
	case types.OpNotIn:
		if len(args) == 0 {
			return q
		}
		return q.Where("(?TableAlias.? NOT IN (?) OR ?TableAlias.? IS NULL)", col, bun.In(args), col)
	case types.OpIsNull:
		return q.Where("?TableAlias.? IS NULL", col)
	case types.OpIsNotNull:
		return q.Where("?TableAlias.? IS NOT NULL", col)
	case types.OpRange:
		return q.Where("?TableAlias.? BETWEEN ? AND ?", col, args[0], args[1])
	}
	return q
}

func escapeLike(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == likeEscape {
			b.WriteRune(likeEscape)
		}
		b.WriteRune(r)
	}
	return b.String()
}
