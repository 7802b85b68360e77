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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.ConnectionConfig.Type)
	assert.Equal(t, ":memory:", cfg.Database.ConnectionConfig.DBName)
	assert.Equal(t, 10*time.Second, cfg.Database.ConnectionConfig.ConnectTimeout)
	assert.True(t, cfg.Database.DataMigrateConfig.EnableMigrateOnStartup)
	assert.Equal(t, 10, cfg.Query.DefaultPageSize)
	assert.Equal(t, 100, cfg.Query.MaxPageSize)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
database:
  connection:
    type: postgres
    host: db.local
    port: 5432
    slow_query_time: 250ms
  migrate:
    enable_migrate_on_startup: false
query:
  default_page_size: 20
  presets_file: presets.yaml
log:
  level: debug
  levels:
    filter: warn
server:
  allowed_origins: ["https://shop.example"]
`)
	t.Setenv("SIEVE_QUERY_MAX_PAGE_SIZE", "40")
	t.Setenv("SIEVE_DATABASE_CONNECTION_DBNAME", "catalog")

	cfg, err := Load(path)
	require.NoError(t, err)

	conn := cfg.Database.ConnectionConfig
	assert.Equal(t, "postgres", conn.Type)
	assert.Equal(t, "db.local", conn.Host)
	assert.Equal(t, 5432, conn.Port)
	assert.Equal(t, "catalog", conn.DBName)
	assert.Equal(t, 250*time.Millisecond, conn.SlowQueryTime)
	assert.False(t, cfg.Database.DataMigrateConfig.EnableMigrateOnStartup)
	assert.Equal(t, 20, cfg.Query.DefaultPageSize)
	assert.Equal(t, 40, cfg.Query.MaxPageSize)
	assert.Equal(t, "presets.yaml", cfg.Query.PresetsFile)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "warn", cfg.Log.Levels["filter"])
	assert.Equal(t, []string{"https://shop.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadRejectsInconsistentPageSizes(t *testing.T) {
	path := writeConfig(t, "query:\n  default_page_size: 50\n  max_page_size: 20\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
