// internal/workers/pipeline_test.go
package workers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"lifecycle-audit-workers/internal/audit"
	awsclient "lifecycle-audit-workers/internal/common/aws"
	"lifecycle-audit-workers/internal/common/database"
	"lifecycle-audit-workers/internal/common/logger"
	"lifecycle-audit-workers/internal/common/observability"
	"lifecycle-audit-workers/internal/common/zoho"
	"lifecycle-audit-workers/internal/models"
	"lifecycle-audit-workers/pkg/registry"

	gla "lifecycle-audit-workers/internal/workers/audit/generate-lifecycle-audit"
	iar "lifecycle-audit-workers/internal/workers/audit/index-audit-result"
	pae "lifecycle-audit-workers/internal/workers/audit/publish-audit-event"
	vai "lifecycle-audit-workers/internal/workers/audit/validate-audit-input"
	sar "lifecycle-audit-workers/internal/workers/communication/send-audit-report"
	car "lifecycle-audit-workers/internal/workers/lead/create-audit-record"
	scl "lifecycle-audit-workers/internal/workers/lead/sync-crm-lead"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The pipeline test runs every audit task in process order and threads the
// process variables between them the way the broker does: each task's output
// is merged into the variables and the next task decodes its input from them.

// ==========================
// Fakes
// ==========================

type processVariables map[string]interface{}

func (v processVariables) merge(t *testing.T, output interface{}) {
	data, err := json.Marshal(output)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, (*map[string]interface{})(&v)))
}

func (v processVariables) decode(t *testing.T, input interface{}) {
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, input))
}

type esTransport struct {
	mu    sync.Mutex
	paths []string
}

func (e *esTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	e.mu.Lock()
	e.paths = append(e.paths, req.Method+" "+req.URL.Path)
	e.mu.Unlock()

	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: http.StatusCreated,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(`{"result":"created"}`)),
	}, nil
}

type fakeCRM struct {
	created []*zoho.Lead
}

func (f *fakeCRM) SearchLeadByEmail(context.Context, string) (*zoho.Lead, error) {
	return nil, nil
}

func (f *fakeCRM) CreateLead(_ context.Context, lead *zoho.Lead) (string, error) {
	f.created = append(f.created, lead)
	return "zoho-lead-1", nil
}

func (f *fakeCRM) UpdateLead(context.Context, string, *zoho.Lead) (string, error) {
	return "", assert.AnError
}

type fakeEmail struct {
	sent []awsclient.Email
}

func (f *fakeEmail) SendEmail(_ context.Context, email awsclient.Email) (string, error) {
	f.sent = append(f.sent, email)
	return "ses-message-1", nil
}

type fakeAlerts struct {
	messages []string
}

func (f *fakeAlerts) PublishToTopic(_ context.Context, _, _, message string) (string, error) {
	f.messages = append(f.messages, message)
	return "sns-message-1", nil
}

type capturedEvent struct {
	eventType string
	key       string
	payload   []byte
}

type fakePublisher struct {
	events []capturedEvent
}

func (f *fakePublisher) Publish(_ context.Context, eventType string, payload []byte, key string) error {
	f.events = append(f.events, capturedEvent{eventType: eventType, key: key, payload: payload})
	return nil
}

func (f *fakePublisher) Close() error { return nil }

// ==========================
// Pipeline
// ==========================

func TestAuditPipeline(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)
	engine := audit.NewEngine(audit.AuditDefaults{})

	reg, err := registry.LoadRegistry("../../configs/activity-registry.json")
	require.NoError(t, err)
	activity, ok := reg.Find(vai.TaskType)
	require.True(t, ok)

	mr := miniredis.RunT(t)
	cache := database.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	transport := &esTransport{}
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: transport,
	})
	require.NoError(t, err)

	crm := &fakeCRM{}
	email := &fakeEmail{}
	alerts := &fakeAlerts{}
	publisher := &fakePublisher{}

	vars := processVariables{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"auditForm": {
			"companyName": " Acme Inc ",
			"email": "Jane@Acme.com",
			"industry": "Fashion & Apparel",
			"acquisition": 7, "activation": 8, "nurture": 5, "retention": 4, "winback": 6
		},
		"currency": "EUR"
	}`), (*map[string]interface{})(&vars)))

	// validate-audit-input
	validated, err := vai.NewHandler(vai.DefaultConfig(), engine, activity.InputSchema, log).Execute(ctx, vars)
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc", validated.AuditForm.CompanyName)
	vars.merge(t, validated)

	// generate-lifecycle-audit, twice: the second run is served from Redis.
	generator := gla.NewHandler(gla.DefaultConfig(), engine, cache, observability.NewNoop(), log)
	var genInput gla.Input
	vars.decode(t, &genInput)
	generated, err := generator.Execute(ctx, &genInput)
	require.NoError(t, err)
	assert.False(t, generated.CacheHit)
	assert.Equal(t, 57, generated.OverallScore)

	again, err := generator.Execute(ctx, &genInput)
	require.NoError(t, err)
	assert.True(t, again.CacheHit)
	assert.Equal(t, generated.OverallScore, again.OverallScore)
	assert.Equal(t, generated.TotalMonthlyOpportunity, again.TotalMonthlyOpportunity)
	vars.merge(t, generated)

	// create-audit-record
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO lifecycle_audits").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO audit_log").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	var recordInput car.Input
	vars.decode(t, &recordInput)
	recordInput.ProcessInstanceKey = 2251799813685249
	record, err := car.NewHandler(car.DefaultConfig(), db, log).Execute(ctx, &recordInput)
	require.NoError(t, err)
	require.NotEmpty(t, record.AuditID)
	assert.NoError(t, mock.ExpectationsWereMet())
	vars.merge(t, record)

	// index-audit-result
	var indexInput iar.Input
	vars.decode(t, &indexInput)
	indexed, err := iar.NewHandler(iar.DefaultConfig(), &database.ElasticsearchClient{Client: esClient}, log).Execute(ctx, &indexInput)
	require.NoError(t, err)
	assert.Equal(t, record.AuditID, indexed.DocumentID)
	assert.Contains(t, transport.paths, "PUT /lifecycle-audits/_doc/"+record.AuditID)
	vars.merge(t, indexed)

	// sync-crm-lead
	var crmInput scl.Input
	vars.decode(t, &crmInput)
	synced, err := scl.NewHandler(scl.DefaultConfig(), crm, log).Execute(ctx, &crmInput)
	require.NoError(t, err)
	assert.Equal(t, scl.ActionCreated, synced.CRMAction)
	require.Len(t, crm.created, 1)
	assert.Equal(t, 57, crm.created[0].AuditScore)
	vars.merge(t, synced)

	// send-audit-report
	reportCfg := sar.DefaultConfig()
	reportCfg.SalesAlertEnabled = true
	reportCfg.SalesTopicARN = "arn:aws:sns:us-east-1:123456789012:sales-leads"
	reportCfg.SalesAlertThreshold = 25000

	var reportInput sar.Input
	vars.decode(t, &reportInput)
	reported, err := sar.NewHandler(reportCfg, email, alerts, log).Execute(ctx, &reportInput)
	require.NoError(t, err)
	assert.True(t, reported.SalesAlerted)
	require.Len(t, email.sent, 1)
	assert.Equal(t, "Jane@Acme.com", email.sent[0].To)
	assert.Contains(t, email.sent[0].Text, "EUR 28,000")
	require.Len(t, alerts.messages, 1)
	vars.merge(t, reported)

	// publish-audit-event
	var eventInput pae.Input
	vars.decode(t, &eventInput)
	published, err := pae.NewHandler(pae.DefaultConfig(), publisher, log).Execute(ctx, &eventInput)
	require.NoError(t, err)
	assert.True(t, published.EventPublished)
	vars.merge(t, published)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "jane@acme.com", publisher.events[0].key)

	var event models.AuditEvent
	require.NoError(t, json.Unmarshal(publisher.events[0].payload, &event))
	assert.Equal(t, record.AuditID, event.Audit.AuditID)
	assert.Equal(t, "EUR", event.Audit.Currency)

	// The variables carry every task's output at the end of the process.
	for _, key := range []string{"auditForm", "auditResults", "auditId", "indexed", "crmLeadId", "notifications", "eventPublished"} {
		assert.Contains(t, vars, key)
	}
}
