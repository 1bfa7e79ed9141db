// internal/workers/audit/generate-lifecycle-audit/handler.go
package generatelifecycleaudit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"lifecycle-audit-workers/internal/audit"
	"lifecycle-audit-workers/internal/common/camunda"
	"lifecycle-audit-workers/internal/common/database"
	"lifecycle-audit-workers/internal/common/errors"
	"lifecycle-audit-workers/internal/common/logger"
	"lifecycle-audit-workers/internal/common/metrics"
	"lifecycle-audit-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "generate-lifecycle-audit"

	cacheKeyPrefix = "audit:"
	metricsSource  = "worker"
)

// Cache stores generated reports. *database.RedisClient implements it.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type Handler struct {
	config     *Config
	engine     *audit.Engine
	cache      Cache
	obs        *observability.Observability
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

// NewHandler builds the handler. cache may be nil, which disables caching.
func NewHandler(config *Config, engine *audit.Engine, cache Cache, obs *observability.Observability, log logger.Logger) *Handler {
	if obs == nil {
		obs = observability.NewNoop()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		engine:     engine,
		cache:      cache,
		obs:        obs,
		logger:     log,
		errHandler: errors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	started := time.Now()
	h.logger.Info("Processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var output *Output
	var input Input
	err := json.Unmarshal([]byte(job.Variables), &input)
	if err != nil {
		err = errors.NewAuditInputInvalidError(fmt.Sprintf("parse variables: %v", err), nil)
	} else {
		output, err = h.Execute(ctx, &input)
	}

	status := "completed"
	if err != nil {
		status = "failed"
	}
	h.obs.RecordJobProcessed(ctx, TaskType, status, time.Since(started))

	camunda.FinishJob(ctx, client, job, TaskType, started, output, err, h.errHandler, h.logger)
}

// Execute generates the report for input, serving it from the cache when an
// identical normalized form was scored before.
func (h *Handler) Execute(ctx context.Context, input *Input) (output *Output, err error) {
	ctx, span := h.obs.StartSpan(ctx, "audit.generate",
		attribute.String("audit.industry", input.AuditForm.Industry),
		attribute.String("audit.currency", input.Currency),
	)
	defer func() { observability.EndSpan(span, err) }()

	form, err := h.engine.Normalize(input.AuditForm)
	if err != nil {
		return nil, wrapEngineError(err)
	}

	currency := input.Currency
	if currency == "" {
		currency = h.engine.Defaults().Currency
	}

	key, err := cacheKey(form, currency)
	if err != nil {
		return nil, errors.NewAuditGenerationFailedError(err)
	}

	if cached := h.lookup(ctx, key); cached != nil {
		span.SetAttributes(attribute.Bool("audit.cache_hit", true))
		return newOutput(cached, true), nil
	}

	results, err := h.engine.Generate(form, currency)
	if err != nil {
		return nil, wrapEngineError(err)
	}

	metrics.RecordAudit(results.LeadData.BenchmarkIndustry, metricsSource, results.OverallScore)
	span.SetAttributes(
		attribute.Int("audit.overall_score", results.OverallScore),
		attribute.Bool("audit.cache_hit", false),
	)
	h.store(ctx, key, results)

	h.logger.Info("Audit generated", map[string]interface{}{
		"overallScore":            results.OverallScore,
		"industryBenchmark":       results.IndustryBenchmark,
		"benchmarkIndustry":       results.LeadData.BenchmarkIndustry,
		"totalMonthlyOpportunity": results.TotalMonthlyOpportunity,
	})

	return newOutput(results, false), nil
}

// lookup returns the cached report or nil. Cache failures never fail the job.
func (h *Handler) lookup(ctx context.Context, key string) *audit.AuditResults {
	if h.cache == nil || !h.config.CacheEnabled {
		return nil
	}

	var cached audit.AuditResults
	err := h.cache.GetJSON(ctx, key, &cached)
	switch {
	case err == nil:
		metrics.AuditCacheLookups.WithLabelValues(metrics.CacheHit).Inc()
		return &cached
	case stderrors.Is(err, database.ErrCacheMiss):
		metrics.AuditCacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
	default:
		metrics.AuditCacheLookups.WithLabelValues(metrics.CacheError).Inc()
		h.cacheWarning("Audit cache lookup failed", err)
	}
	return nil
}

func (h *Handler) store(ctx context.Context, key string, results *audit.AuditResults) {
	if h.cache == nil || !h.config.CacheEnabled {
		return
	}
	if err := h.cache.SetJSON(ctx, key, results, h.config.CacheTTL); err != nil {
		h.cacheWarning("Audit cache write failed", err)
	}
}

func (h *Handler) cacheWarning(msg string, err error) {
	cacheErr := errors.NewCacheUnavailableError(err)
	h.logger.Warn(msg, map[string]interface{}{
		"errorCode": string(cacheErr.Code),
		"retryable": cacheErr.Retryable,
		"error":     cacheErr.Details,
	})
}

func newOutput(results *audit.AuditResults, cacheHit bool) *Output {
	return &Output{
		AuditResults:            results,
		OverallScore:            results.OverallScore,
		TotalMonthlyOpportunity: results.TotalMonthlyOpportunity,
		CacheHit:                cacheHit,
	}
}

// cacheKey hashes the normalized form and currency, so forms that differ only
// in omitted defaults share an entry.
func cacheKey(form audit.AuditFormData, currency string) (string, error) {
	data, err := json.Marshal(struct {
		Form     audit.AuditFormData `json:"form"`
		Currency string              `json:"currency"`
	}{form, currency})
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	sum := sha256.Sum256(data)
	return cacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}

func wrapEngineError(err error) error {
	var verr *audit.ValidationError
	if stderrors.As(err, &verr) {
		return errors.NewAuditInputInvalidError(verr.Error(), verr.Fields())
	}
	return errors.NewAuditGenerationFailedError(err)
}
