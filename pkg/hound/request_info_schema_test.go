package hound

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestInfoJSONSchemaShape(t *testing.T) {
	schema := RequestInfoJSONSchema()
	assert.Equal(t, "object", schema.Type)
	assert.Len(t, schema.Properties, len(FieldNames()))

	lat := schema.Properties["Latitude"]
	require.NotNil(t, lat)
	assert.Equal(t, "number", lat.Type)
	require.NotNil(t, lat.Minimum)
	assert.Equal(t, -90.0, *lat.Minimum)

	units := schema.Properties["UnitPreference"]
	assert.ElementsMatch(t, []interface{}{"US", "METRIC"}, units.Enum)

	self := schema.Properties["FirstPersonSelf"]
	assert.JSONEq(t, `"Hound"`, string(self.Default))
}

func TestRequestInfoJSONSchemaAgreesWithValidator(t *testing.T) {
	resolved, err := RequestInfoJSONSchema().Resolve(nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		doc  string
	}{
		{"empty", `{}`},
		{"location", `{"Latitude": 37.4, "Longitude": -122.0, "UnitPreference": "US"}`},
		{"image size", `{"PreferredImageSize": [640, 480]}`},
		{"image size short", `{"PreferredImageSize": [640]}`},
		{"latitude out of range", `{"Latitude": 91}`},
		{"unknown field", `{"Lattitude": 10}`},
		{"bad unit", `{"UnitPreference": "metric"}`},
		{"client version string", `{"ClientVersion": "1.0"}`},
		{"client version negative", `{"ClientVersion": -1}`},
		{"state", `{"ConversationState": {"x": 1}}`},
		{"state not object", `{"ConversationState": "x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &doc))

			_, validatorErr := ValidateRequestInfo(doc)
			schemaErr := resolved.Validate(doc)
			assert.Equal(t, validatorErr == nil, schemaErr == nil,
				"validator: %v, schema: %v", validatorErr, schemaErr)
		})
	}
}
