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
	"sync"

	"github.com/uptrace/bun"
)

var (
	globalMu      sync.RWMutex
	globalManager AbstractDatabaseManager
)

func current() AbstractDatabaseManager {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalManager
}

// GetDB returns the global Bun database, or nil before InitDB.
func GetDB() *bun.DB {
	if dm := current(); dm != nil {
		return dm.GetDB()
	}
	return nil
}

// Manager returns the global database manager, or nil before InitDB.
func Manager() AbstractDatabaseManager {
	return current()
}

// InitDB opens the global database. A previously opened one is closed once
// the new one is ready.
func InitDB(ctx context.Context, cfg *Config, migrations ...MigrationItem) (*bun.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	dm, err := NewManagerFromConfig(&cfg.ConnectionConfig, migrations...)
	if err != nil {
		return nil, err
	}
	if err := Open(ctx, dm, cfg.DataMigrateConfig.EnableMigrateOnStartup); err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	GetLogger().Info("database initialization completed", "type", cfg.ConnectionConfig.Type)

	globalMu.Lock()
	previous := globalManager
	globalManager = dm
	globalMu.Unlock()
	if previous != nil {
		_ = previous.Disconnect()
	}
	return dm.GetDB(), nil
}

// CloseDB closes the global database.
func CloseDB() error {
	globalMu.Lock()
	dm := globalManager
	globalManager = nil
	globalMu.Unlock()
	if dm == nil {
		return nil
	}
	return dm.Disconnect()
}

// GetHealthStatus checks the global database.
func GetHealthStatus(ctx context.Context) *HealthStatus {
	dm := current()
	if dm == nil {
		return &HealthStatus{LastError: "database not initialized"}
	}
	return dm.HealthCheck(ctx)
}

// GetDatabaseStats returns pool statistics of the global database.
func GetDatabaseStats() *DBStats {
	dm := current()
	if dm == nil {
		return &DBStats{}
	}
	return dm.GetStats()
}
