// internal/workers/audit/validate-audit-input/handler.go
package validateauditinput

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"lifecycle-audit-workers/internal/audit"
	"lifecycle-audit-workers/internal/common/camunda"
	"lifecycle-audit-workers/internal/common/errors"
	"lifecycle-audit-workers/internal/common/logger"
	"lifecycle-audit-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "validate-audit-input"

type Handler struct {
	config     *Config
	engine     *audit.Engine
	schema     map[string]interface{}
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

// NewHandler builds the handler. schema is the registry input schema for the
// task; a nil schema skips the structural check.
func NewHandler(config *Config, engine *audit.Engine, schema map[string]interface{}, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		engine:     engine,
		schema:     schema,
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
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		err = errors.NewAuditInputInvalidError(fmt.Sprintf("parse variables: %v", err), nil)
	} else {
		output, err = h.Execute(ctx, variables)
	}

	camunda.FinishJob(ctx, client, job, TaskType, started, output, err, h.errHandler, h.logger)
}

// Execute checks the raw variables against the registry schema, then applies
// the engine defaults and validation to the decoded form.
func (h *Handler) Execute(_ context.Context, variables map[string]interface{}) (*Output, error) {
	result, err := validation.ValidateInput(variables, h.schema)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if !result.Valid {
		return nil, errors.NewAuditInputInvalidError(strings.Join(result.GetErrorMessages(), "; "), result.Fields())
	}

	form, err := decodeForm(variables["auditForm"])
	if err != nil {
		return nil, errors.NewAuditInputInvalidError(err.Error(), []string{"auditForm"})
	}

	normalized, err := h.engine.Normalize(form)
	if err != nil {
		var verr *audit.ValidationError
		if stderrors.As(err, &verr) {
			return nil, errors.NewAuditInputInvalidError(verr.Error(), verr.Fields())
		}
		return nil, errors.NewInternalError(err)
	}

	currency, _ := variables["currency"].(string)
	if currency == "" {
		currency = h.engine.Defaults().Currency
	}

	h.logger.Debug("Audit input validated", map[string]interface{}{
		"industry": normalized.Industry,
		"currency": currency,
	})

	return &Output{AuditForm: normalized, Currency: currency, InputValid: true}, nil
}

func decodeForm(raw interface{}) (audit.AuditFormData, error) {
	var form audit.AuditFormData
	if raw == nil {
		return form, fmt.Errorf("auditForm is required")
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return form, fmt.Errorf("encode auditForm: %w", err)
	}
	if err := json.Unmarshal(data, &form); err != nil {
		return form, fmt.Errorf("decode auditForm: %w", err)
	}
	return form, nil
}
