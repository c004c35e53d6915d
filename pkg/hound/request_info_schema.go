package hound

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// RequestInfoJSONSchema renders the RequestInfo field table as a JSON Schema
// object. Unknown properties are disallowed, matching ValidateRequestInfo.
func RequestInfoJSONSchema() *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(requestInfoFields))
	for _, name := range FieldNames() {
		props[name] = fieldSchema(requestInfoFields[name])
	}
	return &jsonschema.Schema{
		Title:                "RequestInfo",
		Type:                 "object",
		Properties:           props,
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}

func fieldSchema(spec FieldSpec) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Description: spec.Description,
		Minimum:     spec.Min,
		Maximum:     spec.Max,
	}

	switch spec.Kind {
	case KindInteger, KindNumber, KindString, KindBoolean, KindObject:
		s.Type = spec.Kind.String()
	case KindArray:
		s.Type = "array"
		switch spec.Name {
		case "PreferredImageSize":
			one := 1.0
			s.Items = &jsonschema.Schema{Type: "integer", Minimum: &one}
			s.MinItems = intPtr(2)
			s.MaxItems = intPtr(2)
		case "ClientMatches":
			s.MinItems = intPtr(1)
		}
	}

	if spec.Name == "ClientVersion" {
		zero := 0.0
		s.AnyOf = []*jsonschema.Schema{
			{Type: "string"},
			{Type: "integer", Minimum: &zero},
		}
	}

	for _, v := range spec.Allowed {
		s.Enum = append(s.Enum, v)
	}

	if spec.Default != nil {
		if raw, err := json.Marshal(spec.Default); err == nil {
			s.Default = raw
		}
	}
	return s
}

func intPtr(n int) *int {
	return &n
}
