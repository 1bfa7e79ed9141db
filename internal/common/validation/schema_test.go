// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auditSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"companyName", "email"},
		"properties": map[string]interface{}{
			"companyName": map[string]interface{}{"type": "string", "minLength": 1},
			"email":       map[string]interface{}{"type": "string"},
			"acquisition": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 10},
		},
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name       string
		input      map[string]interface{}
		wantValid  bool
		wantFields []string
	}{
		{
			name:      "valid",
			input:     map[string]interface{}{"companyName": "Acme", "email": "jane@acme.com", "acquisition": 7},
			wantValid: true,
		},
		{
			name:       "missing required",
			input:      map[string]interface{}{"companyName": "Acme"},
			wantFields: []string{"email"},
		},
		{
			name:       "rating above range",
			input:      map[string]interface{}{"companyName": "Acme", "email": "jane@acme.com", "acquisition": 11},
			wantFields: []string{"acquisition"},
		},
		{
			name:       "wrong type",
			input:      map[string]interface{}{"companyName": 42, "email": "jane@acme.com"},
			wantFields: []string{"companyName"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateInput(tt.input, auditSchema())
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			if !tt.wantValid {
				assert.Equal(t, tt.wantFields, result.Fields())
				assert.NotEmpty(t, result.GetErrorMessages())
				assert.True(t, result.HasErrors(tt.wantFields[0]))
			}
		})
	}
}

func TestValidateInput_EmptySchema(t *testing.T) {
	result, err := ValidateInput(map[string]interface{}{"anything": true}, nil)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("jane.doe+audit@acme.co"))
	assert.False(t, ValidateEmail("jane@"))
	assert.False(t, ValidateEmail("not-an-email"))
}
