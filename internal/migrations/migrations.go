package migrations

import "embed"

// FS carries the migration sources into the binary so goose can list them
// without a checkout on disk.
//
//go:embed 2*.go
var FS embed.FS

// Dir is the migrations directory inside FS.
const Dir = "."
