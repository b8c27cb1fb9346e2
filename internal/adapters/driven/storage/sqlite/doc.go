// Package sqlite provides a SQLite-backed implementation of driven.LeadStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Each LeadStore opens its own private in-memory database,
// so leads never outlive the session that collected them.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Thread Safety
//
// The connection pool holds a single connection, which serialises access.
// Appends and resets run in transactions so readers never see partial batches.
package sqlite
