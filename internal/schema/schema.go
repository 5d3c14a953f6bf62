// Package schema validates table files against embedded JSON Schemas.
//
// The store never rejects a file: malformed records are skipped when read.
// This package is the offline check that reports what would be skipped.
package schema

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// ValidationError represents a schema validation error with field paths.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// schemaPath returns the embedded schema path for a table file.
func schemaPath(table string) string {
	return "schemas/" + strings.TrimSuffix(table, ".json") + ".schema.json"
}

// Load returns the compiled schema for table, which may be an alias.
func Load(table string) (*gojsonschema.Schema, error) {
	file, err := types.ResolveTable(table)
	if err != nil {
		return nil, err
	}
	path := schemaPath(file)
	data, err := schemaFS.ReadFile(path)
	if err != nil {
		return nil, &SchemaLoadError{Path: path, Message: "schema not embedded", Cause: err}
	}
	return compile(path, data)
}

func compile(path string, data []byte) (*gojsonschema.Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: path, Message: "invalid schema", Cause: err}
	}
	return s, nil
}

// Validate checks doc, the full contents of a table file, against the
// table's schema. It returns nil, a *ValidationError, a *SchemaLoadError,
// or ErrUnknownTable.
func Validate(table string, doc []byte) error {
	s, err := Load(table)
	if err != nil {
		return err
	}
	return validateWith(s, doc)
}

func validateWith(s *gojsonschema.Schema, doc []byte) error {
	result, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "invalid JSON: " + err.Error()}}}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// TableReport is the outcome of checking one table file.
type TableReport struct {
	Table   string       `json:"table"`
	Missing bool         `json:"missing,omitempty"`
	Valid   bool         `json:"valid"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// CheckDir validates every table file in dataDir. A missing file is
// reported as valid and missing, since the store creates it on first use.
// The error is non-nil only when a file cannot be read or a schema fails
// to load.
func CheckDir(dataDir string) ([]TableReport, error) {
	reports := make([]TableReport, 0, len(types.TableNames))
	for _, table := range types.TableNames {
		report := TableReport{Table: table}
		data, err := os.ReadFile(filepath.Join(dataDir, table))
		if os.IsNotExist(err) {
			report.Missing = true
			report.Valid = true
			reports = append(reports, report)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", table, err)
		}

		err = Validate(table, data)
		var ve *ValidationError
		switch {
		case err == nil:
			report.Valid = true
		case errors.As(err, &ve):
			report.Errors = ve.Errors
		default:
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
