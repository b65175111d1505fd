// Package schemas holds the fixed JSON schema for each canonical record
// shape and validates structured payloads against them before they leave
// the process. One schema file per record kind, embedded at build time.
package schemas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrUnknownKind indicates a record kind with no embedded schema.
var ErrUnknownKind = errors.New("no schema for record kind")

// ErrInvalid indicates a payload that failed schema validation.
var ErrInvalid = errors.New("payload does not match record schema")

// Validate checks a serialized record against the schema for its kind.
func Validate(kind string, doc []byte) error {
	schemaBytes, err := SchemaFS.ReadFile(kind + ".json")
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate %s payload: %w", kind, err)
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))

	for _, verr := range result.Errors() {
		details = append(details, verr.Field()+": "+verr.Description())
	}

	return fmt.Errorf("%w (%s): %s", ErrInvalid, kind, strings.Join(details, "; "))
}

// Kinds returns the record kinds with an embedded schema.
func Kinds() ([]string, error) {
	entries, err := SchemaFS.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("read embedded schemas: %w", err)
	}

	kinds := make([]string, 0, len(entries))

	for _, entry := range entries {
		kinds = append(kinds, strings.TrimSuffix(entry.Name(), ".json"))
	}

	return kinds, nil
}
