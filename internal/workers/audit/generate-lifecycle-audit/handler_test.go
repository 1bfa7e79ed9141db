// internal/workers/audit/generate-lifecycle-audit/handler_test.go
package generatelifecycleaudit

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"lifecycle-audit-workers/internal/audit"
	"lifecycle-audit-workers/internal/common/database"
	"lifecycle-audit-workers/internal/common/errors"
	"lifecycle-audit-workers/internal/common/logger"
	"lifecycle-audit-workers/internal/common/observability"

	"github.com/alicebob/miniredis/v2"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// ==========================
// Test Helpers
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "lifecycle-audit",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_GenerateLifecycleAudit",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Variables:                string(variablesJSON),
	}}
}

func fashionForm() audit.AuditFormData {
	return audit.AuditFormData{
		CompanyName: "Acme Inc",
		Email:       "jane@acme.com",
		Industry:    "Fashion & Apparel",
		Acquisition: 7,
		Activation:  8,
		Nurture:     5,
		Retention:   4,
		Winback:     6,
	}
}

func newTestHandler(t *testing.T, cache Cache) *Handler {
	return NewHandler(DefaultConfig(), audit.NewEngine(audit.AuditDefaults{}), cache, observability.NewNoop(), logger.NewTestLogger(t))
}

func newMiniredisCache(t *testing.T) (*database.RedisClient, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	return database.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

// ==========================
// Execute
// ==========================

func TestExecute_WithoutCache(t *testing.T) {
	handler := newTestHandler(t, nil)

	output, err := handler.Execute(context.Background(), &Input{AuditForm: fashionForm()})
	require.NoError(t, err)
	require.NotNil(t, output.AuditResults)

	assert.False(t, output.CacheHit)
	assert.Equal(t, 57, output.OverallScore)
	assert.Equal(t, float64(28000), output.TotalMonthlyOpportunity)
	assert.Equal(t, "USD", output.AuditResults.Currency)
	assert.Equal(t, "Fashion & Apparel", output.AuditResults.LeadData.BenchmarkIndustry)
}

func TestExecute_FromJobVariables(t *testing.T) {
	handler := newTestHandler(t, nil)

	job := createMockJob(7, map[string]interface{}{"auditForm": fashionForm(), "currency": "GBP"})
	var input Input
	require.NoError(t, json.Unmarshal([]byte(job.Variables), &input))

	output, err := handler.Execute(context.Background(), &input)
	require.NoError(t, err)
	assert.Equal(t, "GBP", output.AuditResults.Currency)
	assert.Equal(t, "Acme Inc", output.AuditResults.LeadData.CompanyName)
}

func TestExecute_CachesResults(t *testing.T) {
	cache, mr := newMiniredisCache(t)
	handler := newTestHandler(t, cache)
	ctx := context.Background()

	first, err := handler.Execute(ctx, &Input{AuditForm: fashionForm(), Currency: "USD"})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	require.Len(t, mr.Keys(), 1)
	assert.Contains(t, mr.Keys()[0], "audit:")
	assert.Equal(t, DefaultConfig().CacheTTL, mr.TTL(mr.Keys()[0]))

	second, err := handler.Execute(ctx, &Input{AuditForm: fashionForm(), Currency: "USD"})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.AuditResults, second.AuditResults)
}

func TestExecute_CacheKeyIgnoresOmittedDefaults(t *testing.T) {
	cache, mr := newMiniredisCache(t)
	handler := newTestHandler(t, cache)
	ctx := context.Background()

	explicit := fashionForm()
	explicit.MonthlyRevenue = 500000
	explicit.PersonalizationLevel = "none"

	_, err := handler.Execute(ctx, &Input{AuditForm: fashionForm()})
	require.NoError(t, err)

	output, err := handler.Execute(ctx, &Input{AuditForm: explicit, Currency: "USD"})
	require.NoError(t, err)
	assert.True(t, output.CacheHit)
	assert.Len(t, mr.Keys(), 1)
}

func TestExecute_CurrencyIsPartOfKey(t *testing.T) {
	cache, mr := newMiniredisCache(t)
	handler := newTestHandler(t, cache)
	ctx := context.Background()

	_, err := handler.Execute(ctx, &Input{AuditForm: fashionForm(), Currency: "USD"})
	require.NoError(t, err)
	output, err := handler.Execute(ctx, &Input{AuditForm: fashionForm(), Currency: "EUR"})
	require.NoError(t, err)

	assert.False(t, output.CacheHit)
	assert.Equal(t, "EUR", output.AuditResults.Currency)
	assert.Len(t, mr.Keys(), 2)
}

func TestExecute_CacheUnavailable(t *testing.T) {
	cache, mr := newMiniredisCache(t)
	mr.Close()
	core, logs := observer.New(zap.WarnLevel)
	handler := NewHandler(DefaultConfig(), audit.NewEngine(audit.AuditDefaults{}), cache, observability.NewNoop(), logger.FromZap(zap.New(core)))

	output, err := handler.Execute(context.Background(), &Input{AuditForm: fashionForm()})
	require.NoError(t, err)
	assert.False(t, output.CacheHit)
	assert.Equal(t, 57, output.OverallScore)

	warnings := logs.All()
	require.Len(t, warnings, 2)
	assert.Equal(t, "Audit cache lookup failed", warnings[0].Message)
	assert.Equal(t, "Audit cache write failed", warnings[1].Message)
	for _, entry := range warnings {
		fields := entry.ContextMap()
		assert.Equal(t, string(errors.ErrCodeCacheUnavailable), fields["errorCode"])
		assert.Equal(t, true, fields["retryable"])
		assert.Equal(t, TaskType, fields["taskType"])
	}
}

func TestExecute_CacheDisabled(t *testing.T) {
	cache, mr := newMiniredisCache(t)
	cfg := DefaultConfig()
	cfg.CacheEnabled = false
	handler := NewHandler(cfg, audit.NewEngine(audit.AuditDefaults{}), cache, nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{AuditForm: fashionForm()})
	require.NoError(t, err)
	assert.Empty(t, mr.Keys())
}

func TestExecute_InvalidForm(t *testing.T) {
	handler := newTestHandler(t, nil)

	form := fashionForm()
	form.Retention = 12
	_, err := handler.Execute(context.Background(), &Input{AuditForm: form})
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeAuditInputInvalid, stdErr.Code)
	assert.Equal(t, []string{"retention"}, stdErr.Metadata["fields"])
}

// ==========================
// Config
// ==========================

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "defaults", config: *DefaultConfig()},
		{name: "zero timeout", config: Config{CacheTTL: 1}, wantErr: true},
		{name: "cache without ttl", config: Config{Timeout: 1, CacheEnabled: true}, wantErr: true},
		{name: "cache disabled without ttl", config: Config{Timeout: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
