// Package migrations embeds the PostgreSQL schema migrations of the product catalog.
package migrations

import "embed"

// FS holds the golang-migrate files, at the root of the filesystem.
//
//go:embed *.sql
var FS embed.FS
