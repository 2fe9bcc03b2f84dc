package store

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const schemaBaseURL = "https://nexus.local/schemas/"

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

// schemaFor returns the compiled schema of a record, or nil for records
// without one.
func schemaFor(key string) (*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		schemas, schemasErr = compileSchemas()
	})
	if schemasErr != nil {
		return nil, schemasErr
	}
	return schemas[key], nil
}

func compileSchemas() (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	out := make(map[string]*jsonschema.Schema, 2)
	for _, key := range []string{KeyTasks, KeyCategories} {
		name := key + ".schema.json"
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		if err := compiler.AddResource(schemaBaseURL+name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
		schema, err := compiler.Compile(schemaBaseURL + name)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		out[key] = schema
	}
	return out, nil
}

// validateRecord parses raw as JSON and checks it against the record's
// schema. All schema violations are returned, each as a *ValidationError.
func validateRecord(key, raw string) []error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return []error{&ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)}}
	}
	if dec.More() {
		return []error{&ValidationError{Err: errors.New("invalid JSON: trailing data")}}
	}

	schema, err := schemaFor(key)
	if err != nil {
		return []error{err}
	}
	if schema == nil {
		return nil
	}
	if err := schema.Validate(doc); err != nil {
		return schemaErrors(err)
	}
	return nil
}

func schemaErrors(err error) []error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []error{err}
	}
	var out []error
	collectSchemaErrors(&out, ve)
	return out
}

func collectSchemaErrors(out *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*out = append(*out, &ValidationError{
			Path: recordPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(out, cause)
	}
}

// recordPath renders a JSON pointer such as "/1/title" as "[1].title".
func recordPath(ptr string) string {
	var b strings.Builder
	for _, part := range strings.Split(strings.TrimPrefix(ptr, "#"), "/") {
		if part == "" {
			continue
		}
		part = strings.NewReplacer("~1", "/", "~0", "~").Replace(part)
		if _, err := strconv.Atoi(part); err == nil {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
