// Package migrations embeds the journal schema.
package migrations

import "embed"

// FS holds the journal's migration files, named for golang-migrate.
//
//go:embed *.sql
var FS embed.FS
