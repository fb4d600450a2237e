// Package migrations holds the journal schema, embedded into the binaries.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
