// internal/appconfig/schema.go
package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema constrains the shape of config.json before it is unmarshalled,
// so a typo'd field type fails with a field-level message instead of a
// json.Unmarshal error.
const configSchema = `{
  "type": "object",
  "properties": {
    "model":        { "type": "string" },
    "dataFile":     { "type": "string" },
    "suiteFile":    { "type": "string" },
    "logDir":       { "type": "string" },
    "logFile":      { "type": "string" },
    "testCount":    { "type": "integer", "minimum": 0 },
    "timeout":      { "type": "integer", "minimum": 0 },
    "cooldown":     { "type": "integer", "minimum": 0 },
    "tokenDivisor": { "type": "integer", "minimum": 1 },
    "ollamaBinary": { "type": "string" },
    "debug":        { "type": "boolean" },
    "saveResults":  { "type": "boolean" }
  },
  "additionalProperties": false
}`

var schemaLoader = gojsonschema.NewStringLoader(configSchema)

func validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(problems, "; "))
}
