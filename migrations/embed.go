// Package migrations embeds the SQL schema files so the server can bring the
// database up to date without the files being present on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
