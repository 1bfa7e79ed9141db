// internal/workers/audit/index-audit-result/handler_test.go
package indexauditresult

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"lifecycle-audit-workers/internal/audit"
	"lifecycle-audit-workers/internal/common/database"
	"lifecycle-audit-workers/internal/common/errors"
	"lifecycle-audit-workers/internal/common/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

type fakeTransport struct {
	status int
	bodies []string
	reqs   []*http.Request
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.reqs = append(f.reqs, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		f.bodies = append(f.bodies, string(data))
	}

	status := f.status
	if status == 0 {
		status = http.StatusCreated
	}
	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(`{"result":"created"}`)),
	}, nil
}

func newTestHandler(t *testing.T, transport *fakeTransport) *Handler {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: transport,
	})
	require.NoError(t, err)

	handler := NewHandler(DefaultConfig(), &database.ElasticsearchClient{Client: client}, logger.NewTestLogger(t))
	handler.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return handler
}

func testResults(t *testing.T) *audit.AuditResults {
	results, err := audit.GenerateProfessionalAudit(audit.AuditFormData{
		CompanyName: "Acme Inc",
		Email:       "jane@acme.com",
		Industry:    "Fashion & Apparel",
		Acquisition: 7, Activation: 8, Nurture: 5, Retention: 4, Winback: 6,
	}, "USD")
	require.NoError(t, err)
	return results
}

// ==========================
// Execute
// ==========================

func TestExecute_IndexesDocument(t *testing.T) {
	transport := &fakeTransport{}
	handler := newTestHandler(t, transport)

	output, err := handler.Execute(context.Background(), &Input{AuditID: "audit-1", AuditResults: testResults(t)})
	require.NoError(t, err)
	assert.Equal(t, &Output{Indexed: true, IndexName: "lifecycle-audits", DocumentID: "audit-1"}, output)

	require.Len(t, transport.reqs, 1)
	assert.Equal(t, http.MethodPut, transport.reqs[0].Method)
	assert.Equal(t, "/lifecycle-audits/_doc/audit-1", transport.reqs[0].URL.Path)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(transport.bodies[0]), &doc))
	assert.Equal(t, "audit-1", doc["auditId"])
	assert.Equal(t, float64(57), doc["overallScore"])
	assert.Equal(t, "Fashion & Apparel", doc["benchmarkIndustry"])
	assert.Equal(t, "2026-10-19T12:00:00Z", doc["generatedAt"])
	assert.Len(t, doc["strengths"], 2)
}

func TestExecute_IndexRejected(t *testing.T) {
	handler := newTestHandler(t, &fakeTransport{status: http.StatusBadRequest})

	_, err := handler.Execute(context.Background(), &Input{AuditID: "audit-1", AuditResults: testResults(t)})
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeIndexFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Equal(t, "lifecycle-audits", stdErr.Metadata["index"])
}

func TestExecute_MissingVariables(t *testing.T) {
	transport := &fakeTransport{}
	handler := newTestHandler(t, transport)

	_, err := handler.Execute(context.Background(), &Input{})
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeAuditInputInvalid, stdErr.Code)
	assert.Equal(t, []string{"auditId", "auditResults"}, stdErr.Metadata["fields"])
	assert.Empty(t, transport.reqs)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, (&Config{Timeout: time.Second}).Validate())
	assert.Error(t, (&Config{IndexName: "x"}).Validate())
}
