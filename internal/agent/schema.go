package agent

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed brief_schema.json
var briefSchema string

// ValidateBriefJSON checks a structured model response against the brief
// schema before it is trusted downstream.
func ValidateBriefJSON(raw string) error {
	schemaLoader := gojsonschema.NewStringLoader(briefSchema)
	documentLoader := gojsonschema.NewStringLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("brief does not match schema: %s", strings.Join(problems, "; "))
	}

	return nil
}
