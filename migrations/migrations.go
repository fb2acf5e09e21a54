// Package migrations embeds the SQL schema for the Postgres state persister.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
