// Package migrations embeds the goose SQL migrations for the shopping schema
// and the seed catalog. They are applied by cmd/migrate and by the setup
// endpoint.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
