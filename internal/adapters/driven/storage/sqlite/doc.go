// Package sqlite stores the join history in SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. The schema is managed through versioned migrations in the
// migrations/ directory; each applied version is recorded in
// schema_migrations.
//
// By default, the database is stored at ~/.autojoin/history.db. The daemon
// and one-shot commands may open it at the same time; WAL mode and a busy
// timeout keep them from failing on each other's writes.
package sqlite
