// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRegistry = `{
  "version": "1.0.0",
  "activities": [
    {"id": "audit.input.validate", "displayName": "Validate Audit Input", "category": "audit", "taskType": "validate-audit-input",
     "inputSchema": {"type": "object", "required": ["email"]}},
    {"id": "audit.report.generate", "displayName": "Generate Lifecycle Audit", "category": "audit", "taskType": "generate-lifecycle-audit"}
  ]
}`

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity-registry.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleRegistry), 0o644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	activity, ok := reg.Find("validate-audit-input")
	require.True(t, ok)
	assert.Equal(t, "audit.input.validate", activity.ID)
	assert.Equal(t, "object", activity.InputSchema["type"])

	_, ok = reg.Find("unknown")
	assert.False(t, ok)
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Parse([]byte("{"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Activity{ID: "a", DisplayName: "A", Category: "audit", TaskType: "task-a"}

	tests := []struct {
		name    string
		reg     ActivityRegistry
		wantErr string
	}{
		{name: "valid", reg: ActivityRegistry{Activities: []Activity{valid}}},
		{name: "empty", reg: ActivityRegistry{}, wantErr: "no activities"},
		{
			name:    "duplicate id",
			reg:     ActivityRegistry{Activities: []Activity{valid, valid}},
			wantErr: "duplicate activity ID: a",
		},
		{
			name: "duplicate task type",
			reg: ActivityRegistry{Activities: []Activity{
				valid, {ID: "b", DisplayName: "B", Category: "audit", TaskType: "task-a"},
			}},
			wantErr: "duplicate task type: task-a",
		},
		{
			name:    "missing task type",
			reg:     ActivityRegistry{Activities: []Activity{{ID: "a", DisplayName: "A", Category: "audit"}}},
			wantErr: "missing required field: TaskType",
		},
		{
			name:    "missing category",
			reg:     ActivityRegistry{Activities: []Activity{{ID: "a", DisplayName: "A", TaskType: "t"}}},
			wantErr: "missing required field: Category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSet(t *testing.T) {
	reg, err := Parse([]byte(sampleRegistry))
	require.NoError(t, err)

	require.NoError(t, reg.Set("audit.input.validate", "timeout", "15s"))
	require.NoError(t, reg.Set("audit.input.validate", "retries", "2"))
	require.NoError(t, reg.Set("audit.input.validate", "version", "1.1.0"))

	activity, _ := reg.Find("validate-audit-input")
	assert.Equal(t, "15s", activity.Timeout)
	assert.Equal(t, 2, activity.Retries)
	assert.Equal(t, "1.1.0", activity.Version)

	assert.ErrorContains(t, reg.Set("missing", "version", "1"), "not found")
	assert.ErrorContains(t, reg.Set("audit.input.validate", "timeout", "soon"), "invalid timeout")
	assert.ErrorContains(t, reg.Set("audit.input.validate", "retries", "-1"), "invalid retries")
	assert.ErrorContains(t, reg.Set("audit.input.validate", "taskType", "x"), "unknown field")
}

func TestSave(t *testing.T) {
	reg, err := Parse([]byte(sampleRegistry))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "activity-registry.json")
	require.NoError(t, reg.Save(path, time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19T09:30:00Z", loaded.LastUpdated)
	assert.Len(t, loaded.Activities, 2)
}
