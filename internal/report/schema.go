package report

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

//go:embed report.schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("compile report schema: %w", err)
	}
	return schema, nil
})

// Schema returns the JSON Schema that JSON reports conform to.
func Schema() []byte {
	return schemaJSON
}

// ValidateJSON checks data against the report schema.
func ValidateJSON(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("schema validation failed: %v", result.Errors)
}
