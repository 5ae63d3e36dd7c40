package predictor

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// responseSchemaJSON is the contract of a /predict response body. A
// successful answer must carry a probability in [0,1].
const responseSchemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["success"],
	"properties": {
		"success": {"type": "boolean"},
		"probability": {"type": "number", "minimum": 0, "maximum": 1},
		"risk_level": {"type": "string"},
		"risk_color": {"type": "string"},
		"error": {"type": "string"},
		"prediction": {"type": "integer"},
		"threshold_used": {"type": "number"}
	},
	"if": {"properties": {"success": {"const": true}}},
	"then": {"required": ["probability"]}
}`

const responseSchemaURL = "schema://predict-response.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// responseSchema returns the compiled response schema.
func responseSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(responseSchemaJSON), &doc); err != nil {
			compileErr = fmt.Errorf("parse response schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(responseSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(responseSchemaURL)
	})
	return compiledSchema, compileErr
}

// validateResponse checks raw against the response schema.
func validateResponse(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := responseSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
