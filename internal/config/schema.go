package config

import (
	"embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// ValidateSchema checks raw settings against the embedded CUE config
// schema. A missing or broken schema degrades to the Go validation in
// validate rather than failing the load.
func ValidateSchema(data map[string]any) []string {
	content, err := schemaFS.ReadFile("schemas/config.cue")
	if err != nil {
		return nil
	}

	ctx := cuecontext.New()
	schema := ctx.CompileBytes(content, cue.Filename("config.cue"))
	if schema.Err() != nil {
		return nil
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	if !def.Exists() {
		return nil
	}

	dataValue := ctx.Encode(data)
	if encErr := dataValue.Err(); encErr != nil {
		return []string{fmt.Sprintf("error encoding settings: %v", encErr)}
	}

	unified := def.Unify(dataValue)
	if err := unified.Err(); err != nil {
		return []string{fmt.Sprintf("schema validation failed: %v", err)}
	}
	if err := unified.Validate(); err != nil {
		return []string{fmt.Sprintf("schema validation failed: %v", err)}
	}
	return nil
}
