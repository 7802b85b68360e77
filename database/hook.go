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

package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/tomoncle/sieve/utils"
)

// QueryLogHook logs failed statements at warn level and, when verbose, every
// statement at debug level.
type QueryLogHook struct {
	logger  Logger
	verbose bool
}

var _ bun.QueryHook = (*QueryLogHook)(nil)

func NewQueryLogHook(logger Logger, verbose bool) *QueryLogHook {
	return &QueryLogHook{logger: logger, verbose: verbose}
}

func (h *QueryLogHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryLogHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if h.logger == nil {
		return
	}
	dur := utils.Since(event.StartTime)
	switch {
	case event.Err == nil, errors.Is(event.Err, sql.ErrNoRows), errors.Is(event.Err, sql.ErrTxDone):
		if h.verbose {
			h.logger.Debug("query", "operation", event.Operation(), "duration", dur, "sql", event.Query)
		}
	default:
		h.logger.Warn("query failed", "operation", event.Operation(), "duration", dur, "sql", event.Query, "error", event.Err)
	}
}

type slowQueryHook struct {
	slowTime time.Duration
	logger   Logger
}

func (h *slowQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *slowQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if event.Err != nil || h.logger == nil {
		return
	}
	duration := time.Since(event.StartTime)
	if duration > h.slowTime {
		h.logger.Warn("slow query detected",
			"duration", duration,
			"slow_threshold", h.slowTime,
			"query", event.Query,
		)
	}
}
