// Package schemas validates rule files and quality reports against the embedded JSON Schemas.
package schemas

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	rootschemas "github.com/kdjkdj1234567890-bit/content-engine/schemas"
)

// Violation is one failed constraint, located by its dotted field path
type Violation struct {
	Field   string
	Message string
}

// ValidationError lists every violation a document has against a schema
type ValidationError struct {
	Schema     string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Message
	}
	return fmt.Sprintf("%s: %d violation(s): %s", e.Schema, len(e.Violations), strings.Join(parts, "; "))
}

// Fields returns the distinct fields that failed, in order
func (e *ValidationError) Fields() []string {
	var fields []string
	for i, v := range e.Violations {
		if i == 0 || v.Field != e.Violations[i-1].Field {
			fields = append(fields, v.Field)
		}
	}
	return fields
}

// SchemaError reports an embedded schema that is missing or does not compile
type SchemaError struct {
	Schema string
	Cause  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s unusable: %v", e.Schema, e.Cause)
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

var (
	compiledMu sync.Mutex
	compiled   = make(map[string]*gojsonschema.Schema)
)

// compile returns the embedded schema name, compiling it once
func compile(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}
	content, err := rootschemas.Load(name)
	if err != nil {
		return nil, &SchemaError{Schema: name, Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, &SchemaError{Schema: name, Cause: err}
	}
	compiled[name] = s
	return s, nil
}

// ValidateNamed validates a decoded value (maps, slices, scalars) against an embedded schema
func ValidateNamed(name string, value any) error {
	return validate(name, gojsonschema.NewGoLoader(value))
}

// ValidateDocument validates raw JSON against an embedded schema
func ValidateDocument(name string, data []byte) error {
	return validate(name, gojsonschema.NewBytesLoader(data))
}

func validate(name string, doc gojsonschema.JSONLoader) error {
	s, err := compile(name)
	if err != nil {
		return err
	}
	result, err := s.Validate(doc)
	if err != nil {
		return fmt.Errorf("failed to read document for %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, Violation{Field: desc.Field(), Message: desc.Description()})
	}
	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Field < violations[j].Field
	})
	return &ValidationError{Schema: name, Violations: violations}
}
