// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
app:
  name: lifecycle-audit-workers
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: audits
    user: ${TEST_AUDIT_DB_USER}
  elasticsearch:
    addresses: ["http://localhost:9200"]
  redis:
    address: localhost:6379
workers:
  generate-lifecycle-audit:
    enabled: true
    max_jobs_active: 20
  send-audit-report:
    enabled: false
audit:
  sales_alert_threshold: 25000
  defaults:
    monthly_revenue: 250000
    currency: EUR
integrations:
  kafka:
    enabled: true
    brokers: ["localhost:9092"]
    topics:
      audit-generated: lifecycle-audits
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("TEST_AUDIT_DB_USER", "auditor")

	cfg, err := LoadFromFile(writeConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "auditor", cfg.Database.Postgres.User)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "lifecycle-audits", cfg.Database.Elasticsearch.Index)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 25000.0, cfg.Audit.SalesAlertThreshold)
	assert.Equal(t, 250000.0, cfg.Audit.Defaults.MonthlyRevenue)
	assert.Equal(t, "EUR", cfg.Audit.Defaults.Currency)
	assert.Equal(t, "lifecycle-audits", cfg.Integrations.Kafka.Topics["audit-generated"])
}

func TestLoadFromFile_WorkerDefaults(t *testing.T) {
	t.Setenv("TEST_AUDIT_DB_USER", "auditor")

	cfg, err := LoadFromFile(writeConfig(t, testConfigYAML))
	require.NoError(t, err)

	generate := GetWorkerConfig(cfg, "generate-lifecycle-audit")
	assert.Equal(t, 20, generate.MaxJobsActive)
	assert.Equal(t, 30000, generate.Timeout)
	assert.Equal(t, 3, generate.MaxRetries)

	assert.False(t, IsWorkerEnabled(cfg, "send-audit-report"))
	assert.True(t, IsWorkerEnabled(cfg, "run-calculator"))
	assert.Equal(t, 5, GetWorkerConfig(cfg, "run-calculator").MaxJobsActive)
}

func TestLoadFromFile_MissingBroker(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, `
database:
  postgres:
    host: localhost
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "camunda.broker_address is required")
}

func TestLoadFromFile_KafkaWithoutBrokers(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, `
camunda:
  broker_address: localhost:26500
database:
  postgres: {host: localhost, database: audits, user: auditor}
  elasticsearch: {addresses: ["http://localhost:9200"]}
  redis: {address: localhost:6379}
integrations:
  kafka:
    enabled: true
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "integrations.kafka.brokers")
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "audits", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=audits sslmode=disable", p.GetDSN())
}
