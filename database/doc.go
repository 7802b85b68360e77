// Package database provides connection management, table bootstrap
// migrations, configuration types, query logging, health checks and SQL
// error classification built on top of Bun.
package database
