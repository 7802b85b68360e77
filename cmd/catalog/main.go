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

// Command catalog serves a filterable product catalog over HTTP.
//
//	GET /api/v1/products?filters=[{"Field":"Price","Operator":"LessThan","Value":100}]&sortBy=price&sortDirection=desc&pageIndex=1&pageSize=5
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/tomoncle/sieve"
	"github.com/tomoncle/sieve/api"
	"github.com/tomoncle/sieve/config"
	"github.com/tomoncle/sieve/database"
	"github.com/tomoncle/sieve/filter"
	"github.com/tomoncle/sieve/utils"
)

func main() {
	configPath := flag.String("config", utils.EnvDefaultString("SIEVE_CONFIG", ""), "path to a YAML config file")
	flag.Parse()

	log := utils.NewKVLogger("CATALOG")
	if err := run(*configPath, log); err != nil {
		log.Error("catalog stopped", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, log *utils.KVLogger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.ApplyLogging()
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	var presets filter.Presets
	if cfg.Query.PresetsFile != "" {
		if presets, err = filter.LoadPresets(cfg.Query.PresetsFile); err != nil {
			return err
		}
		log.Info("presets loaded", "file", cfg.Query.PresetsFile, "count", len(presets))
	}

	products, err := sieve.NewService[Product](filter.Options{
		DefaultSort:     "Name",
		SearchFields:    []string{"Name", "Description", "SKU"},
		DefaultPageSize: cfg.Query.DefaultPageSize,
		MaxPageSize:     cfg.Query.MaxPageSize,
		Presets:         presets,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database.RegisterModels((*Product)(nil))
	if _, err := database.InitDB(ctx, &cfg.Database, seedMigration); err != nil {
		return err
	}
	defer func() { _ = database.CloseDB() }()

	router := api.NewRouter(database.GetHealthStatus)
	api.Mount[Product](router.Group("/api/v1"), "/products", products)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("catalog listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
