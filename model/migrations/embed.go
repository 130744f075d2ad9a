// Package migrations holds the MySQL schema for the catalog.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
