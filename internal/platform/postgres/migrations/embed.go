// Package migrations embeds the goose SQL migrations for the court schema.
package migrations

import "embed"

// FS holds the migration files. Goose reads them with SetBaseFS and dir ".".
//
//go:embed *.sql
var FS embed.FS
