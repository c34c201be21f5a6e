package model

// Input field types accepted by the declared submission schema.
const (
	FieldTypeString  = "string"
	FieldTypeNumber  = "number"
	FieldTypeBoolean = "boolean"
	FieldTypeOption  = "option"
)

// InputField declares one field of the submission payload, in the shape
// served by the input-schema endpoint.
type InputField struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	Name        string           `json:"name,omitempty"`
	Required    bool             `json:"-"`
	Data        *InputFieldData  `json:"data,omitempty"`
	Validations []map[string]any `json:"validations,omitempty"`
}

// InputFieldData carries presentation hints and, for option fields, the set
// of permitted values.
type InputFieldData struct {
	Description string   `json:"description,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Values      []string `json:"values,omitempty"`
}

// DefaultInputFields is the built-in input declaration: a single required
// topic string handed to the flow as its primary input.
func DefaultInputFields() []InputField {
	return []InputField{
		{
			ID:       "topic",
			Type:     FieldTypeString,
			Name:     "Main Topic for Kodosumi Research",
			Required: true,
			Data: &InputFieldData{
				Description: "The primary topic the flow should research.",
				Placeholder: "e.g., AI impact",
			},
		},
	}
}
