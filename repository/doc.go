// Package repository provides data sources for the filter engine: an
// in-memory slice source, a Bun-backed SQL source that pushes predicates into
// WHERE clauses, and a generic Bun repository with CRUD, upsert and filtered
// paginated reads.
package repository
