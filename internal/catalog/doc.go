// Package catalog persists authors and videos in SQLite and exposes the
// lookup and mutation operations the reconciliation engine needs.
//
// The Store manages database connections, schema migrations, and keyed
// lookups: authors by exact name or homepage URL, videos by original URL.
// Mutations are single-statement and immediately committed; the engine runs
// as the sole writer and relies on the URL-uniqueness check rather than
// multi-row transactions, so a crash mid-batch leaves prior rows durable.
//
// Treat this package as the single source of truth for catalog semantics;
// schema changes go through migrations/ as new versioned files.
package catalog
