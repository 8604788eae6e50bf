package migrations

import "embed"

// FS holds the goose migrations for the attempt log.
//
//go:embed *.sql
var FS embed.FS
