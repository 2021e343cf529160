// Package schemas embeds the JSON Schema documents shipped with the service.
package schemas

import _ "embed"

// Config is the schema of the configuration file (JSON or YAML).
//
//go:embed config.schema.json
var Config string

// DaysToHireResponse is the schema of a successful GET /days-to-hire body.
//
//go:embed days_to_hire_response.schema.json
var DaysToHireResponse string
