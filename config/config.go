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

// Package config loads application settings from an optional YAML file and
// SIEVE_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/tomoncle/sieve/database"
	"github.com/tomoncle/sieve/types"
	"github.com/tomoncle/sieve/utils"
)

const EnvPrefix = "SIEVE"

// QueryConfig tunes list requests.
type QueryConfig struct {
	DefaultPageSize int    `mapstructure:"default_page_size"`
	MaxPageSize     int    `mapstructure:"max_page_size"`
	PresetsFile     string `mapstructure:"presets_file"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
	// Levels overrides the level of single named loggers, e.g. FILTER: debug.
	Levels map[string]string `mapstructure:"levels"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Config is the application configuration.
type Config struct {
	Database database.Config `mapstructure:"database"`
	Query    QueryConfig     `mapstructure:"query"`
	Log      LogConfig       `mapstructure:"log"`
	Server   ServerConfig    `mapstructure:"server"`
}

// Load reads path (skipped when empty) over the defaults, then applies
// environment overrides such as SIEVE_DATABASE_CONNECTION_DBNAME or
// SIEVE_QUERY_MAX_PAGE_SIZE.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Query.MaxPageSize > 0 && cfg.Query.DefaultPageSize > cfg.Query.MaxPageSize {
		return nil, fmt.Errorf("query.default_page_size %d exceeds query.max_page_size %d",
			cfg.Query.DefaultPageSize, cfg.Query.MaxPageSize)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	conn := database.DefaultConnectionConfig()
	v.SetDefault("database.connection.type", conn.Type)
	v.SetDefault("database.connection.host", conn.Host)
	v.SetDefault("database.connection.port", conn.Port)
	v.SetDefault("database.connection.username", conn.Username)
	v.SetDefault("database.connection.password", conn.Password)
	v.SetDefault("database.connection.dbname", conn.DBName)
	v.SetDefault("database.connection.sslmode", conn.SSLMode)
	v.SetDefault("database.connection.max_idle_conns", conn.MaxIdleConns)
	v.SetDefault("database.connection.max_open_conns", conn.MaxOpenConns)
	v.SetDefault("database.connection.conn_max_lifetime", conn.ConnMaxLifetime)
	v.SetDefault("database.connection.conn_max_idle_time", conn.ConnMaxIdleTime)
	v.SetDefault("database.connection.connect_timeout", conn.ConnectTimeout)
	v.SetDefault("database.connection.read_timeout", conn.ReadTimeout)
	v.SetDefault("database.connection.write_timeout", conn.WriteTimeout)
	v.SetDefault("database.connection.enable_query_log", conn.EnableQueryLog)
	v.SetDefault("database.connection.slow_query_time", conn.SlowQueryTime)
	v.SetDefault("database.migrate.enable_migrate_on_startup", true)

	v.SetDefault("query.default_page_size", types.DefaultPageSize)
	v.SetDefault("query.max_page_size", 100)
	v.SetDefault("query.presets_file", "")

	v.SetDefault("log.level", utils.EnvDefaultString("LOG_LEVEL", "info"))
	v.SetDefault("log.format", utils.EnvDefaultString("CONSOLE_LOG_FORMAT", "text"))

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
}

// ApplyLogging configures the process-wide loggers.
func (c *Config) ApplyLogging() {
	utils.ConfigureConsoleLogFormat(c.Log.Format)
	utils.ConfigureLogLevel(c.Log.Level)
	for name, level := range c.Log.Levels {
		name = strings.ToUpper(name)
		utils.NewLogger(name)
		utils.SetLoggerLevel(name, level)
	}
}
