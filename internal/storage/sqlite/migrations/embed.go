package migrations

import "embed"

// FS contains the embedded SQLite migrations for saved games.
//
//go:embed *.sql
var FS embed.FS
