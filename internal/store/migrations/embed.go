package migrations

import "embed"

// FS holds the numbered SQL migrations for the learner database.
//
//go:embed *.sql
var FS embed.FS
