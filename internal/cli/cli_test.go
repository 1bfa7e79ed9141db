// internal/cli/cli_test.go
package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lifecycle-audit-workers/internal/audit"
	"lifecycle-audit-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fashionForm = `{
  "companyName": "Acme Inc",
  "email": "jane@acme.com",
  "industry": "Fashion & Apparel",
  "acquisition": 7,
  "activation": 8,
  "nurture": 5,
  "retention": 4,
  "winback": 6
}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	var out bytes.Buffer
	c := New(Options{Stdin: strings.NewReader(stdin), Stdout: &out})
	err := c.Execute(args)
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ==========================
// generate
// ==========================

func TestGenerate(t *testing.T) {
	path := writeFile(t, "form.json", fashionForm)

	out, err := run(t, "", "generate", "--input", path, "--currency", "eur")
	require.NoError(t, err)

	var results audit.AuditResults
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Equal(t, 57, results.OverallScore)
	assert.Equal(t, 53, results.IndustryBenchmark)
	assert.Equal(t, "EUR", results.Currency)
	assert.Equal(t, float64(336000), results.TotalAnnualOpportunity)
}

func TestGenerate_StdinEnvelope(t *testing.T) {
	out, err := run(t, `{"auditForm": `+fashionForm+`}`, "generate", "-i", "-")
	require.NoError(t, err)

	var results audit.AuditResults
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Equal(t, "Acme Inc", results.LeadData.CompanyName)
	assert.Equal(t, "USD", results.Currency)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		stdin   string
		wantErr string
	}{
		{name: "missing input flag", args: []string{"generate"}, wantErr: `required flag(s) "input" not set`},
		{name: "missing file", args: []string{"generate", "-i", "/nonexistent/form.json"}, wantErr: "read input"},
		{name: "malformed json", args: []string{"generate", "-i", "-"}, stdin: "{", wantErr: "decode input"},
		{
			name:    "invalid rating",
			args:    []string{"generate", "-i", "-"},
			stdin:   `{"companyName": "Acme", "nurture": 12}`,
			wantErr: "invalid audit form: nurture",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// ==========================
// calc
// ==========================

func TestCalc(t *testing.T) {
	out, err := run(t, "", "calc", "average-order-value", "--param", "revenue=12000", "-p", "orders=300")
	require.NoError(t, err)
	assert.JSONEq(t, `{"averageOrderValue": 40}`, out)
}

func TestCalc_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no calculator", args: []string{"calc"}, wantErr: "accepts 1 arg(s)"},
		{name: "unknown calculator", args: []string{"calc", "magic"}, wantErr: `unknown calculator "magic", available: ab-test`},
		{name: "malformed param", args: []string{"calc", "average-order-value", "-p", "revenue"}, wantErr: "expected key=value"},
		{name: "non-numeric param", args: []string{"calc", "average-order-value", "-p", "revenue=lots"}, wantErr: "must be a number"},
		{name: "negative param", args: []string{"calc", "average-order-value", "-p", "revenue=-1"}, wantErr: "CALCULATOR_INPUT_INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"revenue = 10.5", "orders=2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"revenue": 10.5, "orders": 2}, params)

	_, err = parseParams([]string{"=3"})
	assert.Error(t, err)
}

// ==========================
// registry
// ==========================

func TestRegistryValidate(t *testing.T) {
	out, err := run(t, "", "registry", "validate", "--path", "../../configs/activity-registry.json")
	require.NoError(t, err)
	assert.Equal(t, "Registry validation passed. Found 8 activities.\n", out)

	broken := writeFile(t, "registry.json", `{"activities": []}`)
	_, err = run(t, "", "registry", "validate", "--path", broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no activities")
}

func TestRegistryList(t *testing.T) {
	out, err := run(t, "", "registry", "list", "--path", "../../configs/activity-registry.json")
	require.NoError(t, err)
	assert.Contains(t, out, "TASK TYPE")
	assert.Contains(t, out, "generate-lifecycle-audit")
	assert.Contains(t, out, "run-calculator")
}

func TestRegistrySet(t *testing.T) {
	data, err := os.ReadFile("../../configs/activity-registry.json")
	require.NoError(t, err)
	path := writeFile(t, "activity-registry.json", string(data))

	out, err := run(t, "", "registry", "set", "--path", path, "--id", "audit.report.generate", "--field", "retries", "--value", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated activity audit.report.generate")

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	activity, ok := reg.Find("generate-lifecycle-audit")
	require.True(t, ok)
	assert.Equal(t, 5, activity.Retries)
}
