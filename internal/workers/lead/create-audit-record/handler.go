// internal/workers/lead/create-audit-record/handler.go
package createauditrecord

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"lifecycle-audit-workers/internal/common/camunda"
	"lifecycle-audit-workers/internal/common/errors"
	"lifecycle-audit-workers/internal/common/logger"
	"lifecycle-audit-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	TaskType = "create-audit-record"

	entityType         = "lifecycle_audit"
	actionCreated      = "created"
	uniqueViolationErr = "23505"
)

const insertAuditQuery = `INSERT INTO lifecycle_audits (
	id, process_instance_key, company_name, email, industry, overall_score,
	industry_benchmark, total_monthly_opportunity, currency, form, results, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const insertLogQuery = `INSERT INTO audit_log (entity_type, entity_id, action, details) VALUES ($1, $2, $3, $4)`

const selectByInstanceQuery = `SELECT id, created_at FROM lifecycle_audits WHERE process_instance_key = $1`

type Handler struct {
	config     *Config
	db         *sql.DB
	logger     logger.Logger
	errHandler *errors.ErrorHandler
	newID      func() string
	now        func() time.Time
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		db:         db,
		logger:     log,
		errHandler: errors.NewErrorHandler(log),
		newID:      uuid.NewString,
		now:        func() time.Time { return time.Now().UTC() },
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
		input.ProcessInstanceKey = job.ProcessInstanceKey
		output, err = h.Execute(ctx, &input)
	}

	camunda.FinishJob(ctx, client, job, TaskType, started, output, err, h.errHandler, h.logger)
}

// Execute stores the audit and its audit_log entry in one transaction. A
// second attempt for the same process instance returns the stored record.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.AuditResults == nil {
		return nil, errors.NewAuditInputInvalidError("auditResults is required", []string{"auditResults"})
	}

	formJSON, err := json.Marshal(input.AuditForm)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	resultsJSON, err := json.Marshal(input.AuditResults)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	results := input.AuditResults
	record := models.AuditRecord{
		ID:                      h.newID(),
		ProcessInstanceKey:      input.ProcessInstanceKey,
		CompanyName:             results.LeadData.CompanyName,
		Email:                   results.LeadData.Email,
		Industry:                results.LeadData.Industry,
		OverallScore:            results.OverallScore,
		IndustryBenchmark:       results.IndustryBenchmark,
		TotalMonthlyOpportunity: results.TotalMonthlyOpportunity,
		Currency:                results.Currency,
		CreatedAt:               h.now(),
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, insertAuditQuery,
		record.ID, nullableKey(record.ProcessInstanceKey), record.CompanyName, record.Email, record.Industry,
		record.OverallScore, record.IndustryBenchmark, record.TotalMonthlyOpportunity, record.Currency,
		string(formJSON), string(resultsJSON), record.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			_ = tx.Rollback()
			return h.existing(ctx, input.ProcessInstanceKey)
		}
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	details, _ := json.Marshal(map[string]interface{}{
		"processInstanceKey": record.ProcessInstanceKey,
		"overallScore":       record.OverallScore,
	})
	if _, err := tx.ExecContext(ctx, insertLogQuery, entityType, record.ID, actionCreated, string(details)); err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	h.logger.Info("Audit record created", map[string]interface{}{
		"auditId":      record.ID,
		"overallScore": record.OverallScore,
	})

	return &Output{AuditID: record.ID, CreatedAt: record.CreatedAt.Format(time.RFC3339)}, nil
}

func (h *Handler) existing(ctx context.Context, processInstanceKey int64) (*Output, error) {
	var id string
	var createdAt time.Time
	err := h.db.QueryRowContext(ctx, selectByInstanceQuery, processInstanceKey).Scan(&id, &createdAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewDuplicateAuditError(strconv.FormatInt(processInstanceKey, 10))
		}
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}

	h.logger.Info("Audit record already stored", map[string]interface{}{
		"auditId":            id,
		"processInstanceKey": processInstanceKey,
	})
	return &Output{AuditID: id, CreatedAt: createdAt.UTC().Format(time.RFC3339), Existing: true}, nil
}

// nullableKey stores records created outside a process (key 0) without a key.
func nullableKey(key int64) interface{} {
	if key == 0 {
		return nil
	}
	return key
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolationErr
}
