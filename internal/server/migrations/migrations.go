// Package migrations embeds the server's goose migrations for PostgreSQL.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
