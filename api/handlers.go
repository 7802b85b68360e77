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

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tomoncle/sieve/database"
	"github.com/tomoncle/sieve/filter"
	"github.com/tomoncle/sieve/types"
	"github.com/tomoncle/sieve/utils"
)

// Query parameters of a list request.
const (
	QueryFilters       = "filters"
	QuerySearchTerm    = "searchTerm"
	QuerySortBy        = "sortBy"
	QuerySortDirection = "sortDirection"
	QueryPageIndex     = "pageIndex"
	QueryPageSize      = "pageSize"
	QueryPreset        = "preset"
)

// Pager is the service surface of a list endpoint.
type Pager[T any] interface {
	Page(ctx context.Context, req *types.PageRequest) (*types.Pagination[T], error)
}

// Getter is the service surface of a single-entity endpoint.
type Getter[T any] interface {
	Get(ctx context.Context, id any) (*T, error)
}

// ParamError reports a query parameter that is not well-formed, such as a
// non-numeric page index.
type ParamError struct {
	Param string
	Value string
}

func (e *ParamError) Error() string {
	return "invalid value " + strconv.Quote(e.Value) + " for query parameter " + e.Param
}

// BindPageRequest reads the list query parameters. Missing parameters take
// their defaults: page 1, the configured page size, no filters and the
// default sort.
func BindPageRequest(c *gin.Context) (*types.PageRequest, error) {
	page, err := intQuery(c, QueryPageIndex)
	if err != nil {
		return nil, err
	}
	size, err := intQuery(c, QueryPageSize)
	if err != nil {
		return nil, err
	}
	sort := types.NewSortSpec(c.Query(QuerySortBy), c.Query(QuerySortDirection))
	req := types.NewPageRequest(page, size, c.Query(QueryFilters), c.Query(QuerySearchTerm), sort)
	if preset := c.Query(QueryPreset); preset != "" {
		req = req.WithPreset(preset)
	}
	return req, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ParamError{Param: name, Value: raw}
	}
	return n, nil
}

// ListHandler serves a filtered, sorted page of T.
func ListHandler[T any](svc Pager[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := BindPageRequest(c)
		if err != nil {
			WriteError(c, err)
			return
		}
		page, err := svc.Page(c.Request.Context(), req)
		if err != nil {
			WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GetHandler serves the entity named by the :id path parameter.
func GetHandler[T any](svc Getter[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		entity, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, entity)
	}
}

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Param   string `json:"param,omitempty"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message,omitempty"`
}

// WriteError maps validation errors to 400, missing rows to 404 and
// everything else to 500.
func WriteError(c *gin.Context, err error) {
	if fe, ok := filter.AsError(err); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Kind:    fe.Kind.String(),
			Param:   fe.Param,
			Field:   fe.Field,
			Value:   fe.Value,
			Message: fe.Message,
		})
		return
	}
	if pe, ok := err.(*ParamError); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Param:   pe.Param,
			Value:   pe.Value,
			Message: pe.Error(),
		})
		return
	}
	if database.IsNotFound(err) {
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "not_found"})
		return
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error"})
}

// RequestLogger logs method, path, status and duration of every request.
func RequestLogger() gin.HandlerFunc {
	log := utils.NewKVLogger("HTTP")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		fields := []interface{}{
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.String())
		}
		log.Info("api_request", fields...)
	}
}
