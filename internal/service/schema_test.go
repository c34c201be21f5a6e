package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masumi-network/kodosumi-bridge/internal/domain/model"
)

func defaultSchemaService(t *testing.T) *SchemaService {
	t.Helper()
	svc, err := NewSchemaService(SchemaServiceOptions{
		Fields:       model.DefaultInputFields(),
		PrimaryField: "topic",
	})
	require.NoError(t, err)
	return svc
}

func TestSchemaServiceAcceptsValidInput(t *testing.T) {
	svc := defaultSchemaService(t)

	require.NoError(t, svc.Validate(map[string]any{"topic": "AI impact"}))
	assert.Equal(t, "AI impact", svc.PrimaryValue(map[string]any{"topic": "AI impact"}))
}

func TestSchemaServiceRejectsMissingRequiredField(t *testing.T) {
	svc := defaultSchemaService(t)

	err := svc.Validate(map[string]any{})

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Fields)
}

func TestSchemaServiceRejectsWrongType(t *testing.T) {
	svc := defaultSchemaService(t)

	err := svc.Validate(map[string]any{"topic": 42})

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestSchemaServiceRejectsUnknownFields(t *testing.T) {
	svc := defaultSchemaService(t)

	err := svc.Validate(map[string]any{"topic": "ok", "extra": true})

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestSchemaServiceOptionEnum(t *testing.T) {
	svc, err := NewSchemaService(SchemaServiceOptions{
		Fields: []model.InputField{
			{
				ID:       "network",
				Type:     model.FieldTypeOption,
				Required: true,
				Data:     &model.InputFieldData{Values: []string{"Preprod", "Mainnet"}},
			},
		},
		PrimaryField: "network",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Validate(map[string]any{"network": "Preprod"}))

	var validationErr *model.ValidationError
	require.ErrorAs(t, svc.Validate(map[string]any{"network": "Testnet"}), &validationErr)
}

func TestSchemaServicePrimaryValueStringifiesNonStrings(t *testing.T) {
	svc, err := NewSchemaService(SchemaServiceOptions{
		Fields: []model.InputField{
			{ID: "count", Type: model.FieldTypeNumber, Required: true},
		},
		PrimaryField: "count",
	})
	require.NoError(t, err)

	assert.Equal(t, "7", svc.PrimaryValue(map[string]any{"count": 7}))
	assert.Empty(t, svc.PrimaryValue(map[string]any{}))
}

func TestNewSchemaServiceRejectsUnknownPrimaryField(t *testing.T) {
	_, err := NewSchemaService(SchemaServiceOptions{
		Fields:       model.DefaultInputFields(),
		PrimaryField: "subject",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subject")
}
