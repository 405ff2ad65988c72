package schema

import _ "embed"

// ConfigSchema is the JSON schema for project config documents
//
//go:embed config.schema.json
var ConfigSchema []byte
