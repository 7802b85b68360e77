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

// Package api exposes list endpoints over HTTP with gin: it binds the list
// query contract into a page request and renders pages and errors as JSON.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tomoncle/sieve/database"
)

// HealthFunc reports backing store health.
type HealthFunc func(ctx context.Context) *database.HealthStatus

// Resource is the service surface mounted by Mount.
type Resource[T any] interface {
	Pager[T]
	Getter[T]
}

// NewRouter returns an engine with recovery, request logging and a /health
// endpoint. A nil health func always reports ok.
func NewRouter(health HealthFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())

	r.GET("/health", func(c *gin.Context) {
		if health == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		status := health(c.Request.Context())
		if !status.Healthy {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": status})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": status})
	})
	return r
}

// Mount registers GET path (list) and GET path/:id on g.
func Mount[T any](g gin.IRouter, path string, svc Resource[T]) {
	g.GET(path, ListHandler[T](svc))
	g.GET(path+"/:id", GetHandler[T](svc))
}
