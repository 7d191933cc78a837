package migrations

import "embed"

// FS contains the embedded SQLite migrations for the run archive.
//
//go:embed *.sql
var FS embed.FS
