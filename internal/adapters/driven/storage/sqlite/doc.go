// Package sqlite persists request history in ~/.wsagent/data/wsagent.db
// using the pure-Go modernc.org/sqlite driver, so builds need no cgo.
//
// The schema comes from the embedded migrations directory. Each version is an
// .up.sql/.down.sql pair and applied versions are tracked in schema_migrations.
// The database runs in WAL mode and the Store is safe for concurrent use.
package sqlite
