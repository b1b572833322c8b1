package pattern

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/pattern.schema.json
var patternSchemaJSON []byte

const patternSchemaURL = "pattern.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(patternSchemaURL, bytes.NewReader(patternSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add pattern schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(patternSchemaURL)
	})
	return schema, schemaErr
}

// CheckSchema validates a decoded JSON document (maps, slices, float64,
// strings) against the pattern file schema.
func CheckSchema(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	err = s.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	out := &ValidationError{}
	collectSchemaIssues(ve, out)
	if len(out.Issues) == 0 {
		out.add("%s", ve.Message)
	}
	return out
}

func collectSchemaIssues(ve *jsonschema.ValidationError, out *ValidationError) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		out.add("%s: %s", loc, ve.Message)
		return
	}
	for _, c := range ve.Causes {
		collectSchemaIssues(c, out)
	}
}
