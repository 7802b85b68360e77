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
	"fmt"
	"os"
	"time"

	"github.com/tomoncle/sieve/utils"
)

// NewManagerFromConfig validates cfg, applies the DB_* environment overrides
// to it and returns an unconnected manager.
func NewManagerFromConfig(cfg *ConnectionConfig, migrations ...MigrationItem) (AbstractDatabaseManager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	if _, ok := drivers[cfg.Type]; !ok {
		return nil, fmt.Errorf("unsupported database type %q, supported types: %v", cfg.Type, SupportedTypes())
	}
	ApplyEnv(cfg)
	return NewDatabaseManager(cfg, migrations...), nil
}

// ApplyEnv overwrites cfg with any DB_* variables present in the environment.
func ApplyEnv(cfg *ConnectionConfig) {
	for key, dst := range map[string]*string{
		"DB_HOST":     &cfg.Host,
		"DB_USERNAME": &cfg.Username,
		"DB_PASSWORD": &cfg.Password,
		"DB_NAME":     &cfg.DBName,
		"DB_SSLMODE":  &cfg.SSLMode,
	} {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	cfg.Port = utils.EnvDefaultInt("DB_PORT", cfg.Port)
	cfg.MaxIdleConns = utils.EnvDefaultInt("DB_MAX_IDLE_CONNS", cfg.MaxIdleConns)
	cfg.MaxOpenConns = utils.EnvDefaultInt("DB_MAX_OPEN_CONNS", cfg.MaxOpenConns)
	if seconds := utils.EnvDefaultInt("DB_CONN_MAX_LIFETIME", 0); seconds > 0 {
		cfg.ConnMaxLifetime = time.Duration(seconds) * time.Second
	}
	cfg.EnableQueryLog = utils.EnvDefaultBool("DB_ENABLE_QUERY_LOG", cfg.EnableQueryLog)
}

// Open connects dm and, when migrate is set, brings the schema up to date.
// dm is disconnected again if either step fails.
func Open(ctx context.Context, dm AbstractDatabaseManager, migrate bool) error {
	if err := dm.Connect(ctx); err != nil {
		return err
	}
	if migrate {
		if err := dm.RunMigrations(ctx); err != nil {
			_ = dm.Disconnect()
			return fmt.Errorf("run migrations: %w", err)
		}
	}
	return nil
}
