// Package templates provides embedded YAML configuration templates.
package templates

import _ "embed"

// FieldsYAML contains the default fields.yaml with metadata extraction
// rules.
//
//go:embed fields.yaml
var FieldsYAML string

// ConfigYAML contains the default config.yaml template for application configuration.
//
//go:embed config.yaml
var ConfigYAML string
