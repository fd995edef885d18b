// Package migrations embeds the goose migration scripts for the
// SQLite driver.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
