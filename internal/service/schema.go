package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/masumi-network/kodosumi-bridge/internal/domain/model"
)

// SchemaServiceOptions groups dependencies for SchemaService.
type SchemaServiceOptions struct {
	Fields       []model.InputField // Required: the advertised input fields
	PrimaryField string             // Required: field forwarded as the flow payload
	Logger       *slog.Logger       // Optional: structured logger
}

// SchemaService owns the advertised input schema: it validates submissions
// against it and extracts the primary value that seeds the flow payload.
type SchemaService struct {
	fields       []model.InputField
	primaryField string
	schema       *gojsonschema.Schema
	logger       *slog.Logger
}

// NewSchemaService compiles the field list into a JSON Schema validator.
// The primary field must be one of the declared fields.
func NewSchemaService(opts SchemaServiceOptions) (*SchemaService, error) {
	if len(opts.Fields) == 0 {
		return nil, errors.New("at least one input field is required")
	}
	if opts.PrimaryField == "" {
		return nil, errors.New("PrimaryField is required")
	}

	found := false
	for _, f := range opts.Fields {
		if f.ID == opts.PrimaryField {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("primary field %q is not a declared input field", opts.PrimaryField)
	}

	doc := buildSchemaDocument(opts.Fields)
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compile input schema: %w", err)
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "schema_service")
		logger.Debug("SchemaService initialized",
			"field_count", len(opts.Fields),
			"primary_field", opts.PrimaryField,
		)
	}

	return &SchemaService{
		fields:       opts.Fields,
		primaryField: opts.PrimaryField,
		schema:       schema,
		logger:       logger,
	}, nil
}

// MustNewSchemaService constructs a SchemaService and panics on error.
func MustNewSchemaService(opts SchemaServiceOptions) *SchemaService {
	svc, err := NewSchemaService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create SchemaService: %v", err))
	}
	return svc
}

// Fields returns the advertised input fields.
func (s *SchemaService) Fields() []model.InputField {
	return s.fields
}

// Validate checks a submission payload against the compiled schema. Failures
// are reported as *model.ValidationError with one entry per offending field.
func (s *SchemaService) Validate(input map[string]any) error {
	if input == nil {
		input = map[string]any{}
	}

	result, err := s.schema.Validate(gojsonschema.NewGoLoader(input))
	if err != nil {
		return fmt.Errorf("validate input: %w", err)
	}
	if result.Valid() {
		return nil
	}

	fields := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		fields = append(fields, re.String())
	}
	sort.Strings(fields)

	return &model.ValidationError{Fields: fields}
}

// PrimaryValue extracts the configured primary field from a validated input,
// rendered as the string the flow payload carries.
func (s *SchemaService) PrimaryValue(input map[string]any) string {
	v, ok := input[s.primaryField]
	if !ok || v == nil {
		return ""
	}
	switch typed := v.(type) {
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}

// buildSchemaDocument renders the field list as a draft-07 object schema.
func buildSchemaDocument(fields []model.InputField) map[string]any {
	properties := make(map[string]any, len(fields))
	required := make([]string, 0, len(fields))

	for _, f := range fields {
		prop := map[string]any{
			"type": schemaType(f.Type),
		}
		if f.Data != nil && strings.TrimSpace(f.Data.Description) != "" {
			prop["description"] = f.Data.Description
		}
		if f.Type == model.FieldTypeOption && f.Data != nil && len(f.Data.Values) > 0 {
			prop["enum"] = f.Data.Values
		}
		for _, validation := range f.Validations {
			for k, v := range validation {
				prop[k] = v
			}
		}
		properties[f.ID] = prop

		if f.Required {
			required = append(required, f.ID)
		}
	}
	sort.Strings(required)

	doc := map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func schemaType(t string) string {
	switch t {
	case model.FieldTypeNumber:
		return "number"
	case model.FieldTypeBoolean:
		return "boolean"
	default:
		return "string"
	}
}
