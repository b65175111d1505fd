package schemas

import "embed"

// SchemaFS carries the per-kind record schemas.
//
//go:embed *.json
var SchemaFS embed.FS
