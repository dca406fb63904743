// Package migrations embeds the goose migrations for the SQL-backed KV
// stores, one directory per dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
