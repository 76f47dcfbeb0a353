// Package metadata stores small named blobs (currently the auth token) in the
// client's SQLite database. The table is created by the embedded migrations in
// internal/client/migrations.
package metadata
