// Package filter turns client-supplied list parameters (a JSON array of
// field/operator/value criteria, a search term, a sort field and a page)
// into typed predicates, a single-key ordering and an offset/limit window
// evaluated against a Queryable data source.
package filter
