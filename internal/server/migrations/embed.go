// Package migrations embeds the goose migration files for the supported
// SQL backends, one directory per dialect.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS
